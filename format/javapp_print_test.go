package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/javaplusplus/transpiler/java/parser"
)

// printJavaPlusPlus parses src as a Java++ compilation unit and prints its
// desugared form through this package's printer directly, rather than via
// the parser package's own round-trip helper.
func printJavaPlusPlus(t *testing.T, src string) string {
	t.Helper()
	p := parser.ParseJavaPlusPlusCompilationUnit(strings.NewReader(src))
	node := p.Finish()
	if node == nil {
		t.Fatalf("parse failed for:\n%s", src)
	}
	if errNode := node.FindFirstError(); errNode != nil {
		t.Fatalf("syntax error parsing:\n%s\n%s", src, errNode)
	}

	var buf bytes.Buffer
	if err := NewJavaPrettyPrinter(&buf).Print(node, []byte(src), p.Comments()); err != nil {
		t.Fatalf("print: %v", err)
	}
	return buf.String()
}

// TestCommentSurvivesAfterDesugaredPrintStatement guards against the
// zero-Span desugared statements that used to corrupt comment placement:
// a println desugars into a freshly-built System.out.println call with no
// source span of its own, and the comment right after it must still land
// after the call rather than being dropped or pulled in front of it.
func TestCommentSurvivesAfterDesugaredPrintStatement(t *testing.T) {
	src := "class Main {\n" +
		"    void run() {\n" +
		"        println \"hello\";\n" +
		"        // trailing note\n" +
		"        int x = 1;\n" +
		"    }\n" +
		"}\n"
	got := printJavaPlusPlus(t, src)

	printlnIdx := strings.Index(got, "System.out.println(\"hello\")")
	commentIdx := strings.Index(got, "// trailing note")
	xIdx := strings.Index(got, "int x = 1;")
	if printlnIdx == -1 || commentIdx == -1 || xIdx == -1 {
		t.Fatalf("expected println call, comment, and declaration all present, got:\n%s", got)
	}
	if !(printlnIdx < commentIdx && commentIdx < xIdx) {
		t.Errorf("expected the comment to stay between the println call and the declaration, got:\n%s", got)
	}
}

// TestCommentSurvivesAfterHoistedVardeclCondition exercises the same
// span-stamping fix for the other statement-producing desugar: the
// LocalVarDecl that expressions.vardecl hoists out of an if/while
// condition.
func TestCommentSurvivesAfterHoistedVardeclCondition(t *testing.T) {
	src := "class Main {\n" +
		"    void run() {\n" +
		"        // before the loop\n" +
		"        if (var line = next()) {\n" +
		"            use(line);\n" +
		"        }\n" +
		"    }\n" +
		"}\n"
	got := printJavaPlusPlus(t, src)

	commentIdx := strings.Index(got, "// before the loop")
	declIdx := strings.Index(got, "var line = next();")
	ifIdx := strings.Index(got, "if (line) {")
	if commentIdx == -1 || declIdx == -1 || ifIdx == -1 {
		t.Fatalf("expected comment, hoisted declaration, and if statement all present, got:\n%s", got)
	}
	if !(commentIdx < declIdx && declIdx < ifIdx) {
		t.Errorf("expected the comment to stay ahead of the hoisted declaration and the if, got:\n%s", got)
	}
}

// TestDefaultOverloadVariadicArrayDefaultPrintsAsArrayCreator exercises
// reifyDefaultValue through the printer: a variadic parameter's
// array-initialiser default must come out of the forwarding overload as a
// valid standalone expression, not the bare `{1, 2}` that's only legal
// Java syntax in a declarator initializer.
func TestDefaultOverloadVariadicArrayDefaultPrintsAsArrayCreator(t *testing.T) {
	src := "class Main {\n" +
		"    void f(int a, int... rest = {1, 2}) {\n" +
		"    }\n" +
		"}\n"
	got := printJavaPlusPlus(t, src)
	if !strings.Contains(got, "new int[]{1, 2}") {
		t.Errorf("expected the reified array-creator default, got:\n%s", got)
	}
	if strings.Contains(got, "f(a, {1, 2})") {
		t.Errorf("did not expect the bare array initialiser spliced as a call argument, got:\n%s", got)
	}
}

func TestASTJSONEncoderRoundTripsKindAndChildren(t *testing.T) {
	p := parser.ParseExpression(strings.NewReader("a + b"))
	node := p.Finish()
	if node == nil || node.FindFirstError() != nil {
		t.Fatalf("parse failed")
	}

	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(node); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"kind": "BinaryExpr"`) {
		t.Errorf("expected the root kind in the JSON output, got:\n%s", out)
	}
	if !strings.Contains(out, `"token": "a"`) || !strings.Contains(out, `"token": "b"`) {
		t.Errorf("expected both operand tokens in the JSON output, got:\n%s", out)
	}
}

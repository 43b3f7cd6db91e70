package parser_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/javaplusplus/transpiler/format"
	"github.com/javaplusplus/transpiler/java/parser"
)

// renderJavaPlusPlus parses src as a Java++ compilation unit and returns its
// desugared form as pretty-printed Java. Fails the test on any syntax error.
func renderJavaPlusPlus(t *testing.T, src string, opts ...parser.Option) string {
	t.Helper()
	p := parser.ParseJavaPlusPlusCompilationUnit(strings.NewReader(src), opts...)
	node := p.Finish()
	if node == nil {
		t.Fatalf("parse failed for:\n%s", src)
	}
	if errNode := node.FindFirstError(); errNode != nil {
		t.Fatalf("syntax error parsing:\n%s\n%s", src, errNode)
	}

	var buf bytes.Buffer
	if err := format.NewJavaPrettyPrinter(&buf).Print(node, []byte(src), p.Comments()); err != nil {
		t.Fatalf("print: %v", err)
	}
	return buf.String()
}

func wrapMethod(body string) string {
	return "class Main {\n    void run() {\n        " + body + "\n    }\n}\n"
}

func TestPrintStatementDesugarsToSystemOut(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`println "hello";`))
	if !strings.Contains(got, "System.out.println(\"hello\")") {
		t.Errorf("expected System.out.println call, got:\n%s", got)
	}
}

func TestPrintfStatementDesugarsToSystemOutPrintf(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`printf "%d items", count;`))
	if !strings.Contains(got, "System.out.printf(\"%d items\", count)") {
		t.Errorf("expected System.out.printf call, got:\n%s", got)
	}
}

func TestListLiteralDesugarsToListOf(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var xs = [1, 2, 3,];`))
	if !strings.Contains(got, "java.util.List.of(1, 2, 3)") {
		t.Errorf("expected java.util.List.of(...), got:\n%s", got)
	}
	if !strings.Contains(got, "import java.util.List;") {
		t.Errorf("expected the auto-imported java.util.List, got:\n%s", got)
	}
}

func TestAutoImportsCoverCommonJavaUtilTypes(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var xs = 1;`))
	for _, want := range []string{"import java.util.List;", "import java.util.Map;", "import java.util.regex.Pattern;"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q among the default auto-imports, got:\n%s", want, got)
		}
	}
}

func TestAutoImportsRespectExistingUserImport(t *testing.T) {
	src := "import java.util.List;\n" + wrapMethod(`var xs = 1;`)
	got := renderJavaPlusPlus(t, src)
	if strings.Count(got, "import java.util.List;") != 1 {
		t.Errorf("expected the user's own import java.util.List to suppress the auto-import, got:\n%s", got)
	}
}

func TestAutoImportsRespectExistingWildcardImport(t *testing.T) {
	src := "import java.util.*;\n" + wrapMethod(`var xs = 1;`)
	got := renderJavaPlusPlus(t, src)
	if strings.Contains(got, "import java.util.List;") || strings.Contains(got, "import java.util.Map;") {
		t.Errorf("expected the user's own wildcard import java.util.* to suppress the auto-imports it covers, got:\n%s", got)
	}
	if strings.Count(got, "import java.util.*;") != 1 {
		t.Errorf("expected the user's wildcard import to survive untouched, got:\n%s", got)
	}
}

func TestAutoImportsCanBeDisabled(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var xs = 1;`), parser.WithFeature("auto_imports.types", false))
	if strings.Contains(got, "import java.util.List;") {
		t.Errorf("expected no auto-imports once disabled, got:\n%s", got)
	}
}

func TestSetLiteralDesugarsToSetOf(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var xs = { 1, 2 };`))
	if !strings.Contains(got, "java.util.Set.of(1, 2)") {
		t.Errorf("expected java.util.Set.of(...), got:\n%s", got)
	}
}

func TestMapLiteralDesugarsToMapOf(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var m = { "a": 1, "b": 2 };`))
	if !strings.Contains(got, "java.util.Map.of(\"a\", 1, \"b\", 2)") {
		t.Errorf("expected java.util.Map.of(...), got:\n%s", got)
	}
}

func TestClassCreatorExtensionAlwaysProducesList(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var xs = new ArrayList { 1, 2 };`))
	if !strings.Contains(got, "new ArrayList(java.util.List.of(1, 2))") {
		t.Errorf("expected new ArrayList(java.util.List.of(...)), got:\n%s", got)
	}
}

func TestOptionalEmptyLiteral(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var o = ?;`))
	if !strings.Contains(got, "java.util.Optional.empty()") {
		t.Errorf("expected java.util.Optional.empty(), got:\n%s", got)
	}
}

func TestOptionalEmptyLiteralPrimitive(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var o = ?<int>;`))
	if !strings.Contains(got, "java.util.OptionalInt.empty()") {
		t.Errorf("expected java.util.OptionalInt.empty(), got:\n%s", got)
	}
}

func TestOrElseThrowPostfix(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var v = maybe()!;`))
	if !strings.Contains(got, "maybe().orElseThrow()") {
		t.Errorf("expected .orElseThrow(), got:\n%s", got)
	}
}

func TestElvisOperatorOnSimpleOperand(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var v = name ?: "default";`))
	if !strings.Contains(got, "java.util.Objects.requireNonNullElse(name, \"default\")") {
		t.Errorf("expected Objects.requireNonNullElse, got:\n%s", got)
	}
}

func TestElvisOperatorOnComplexOperandUsesLazySupplier(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var v = name ?: compute();`))
	if !strings.Contains(got, "java.util.Objects.requireNonNullElseGet(name, ") {
		t.Errorf("expected Objects.requireNonNullElseGet with a lambda, got:\n%s", got)
	}
}

func TestEqualityOperatorStructural(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var b = a == other;`))
	if !strings.Contains(got, "java.util.Objects.deepEquals(a, other)") {
		t.Errorf("expected Objects.deepEquals, got:\n%s", got)
	}
}

func TestEqualityOperatorLeavesLiteralComparisonAlone(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var b = count == 0;`))
	if !strings.Contains(got, "count == 0") {
		t.Errorf("expected plain == against a literal operand, got:\n%s", got)
	}
	if strings.Contains(got, "Objects.deepEquals") {
		t.Errorf("did not expect Objects.deepEquals against a literal operand, got:\n%s", got)
	}
}

func TestIsOperatorMapsToReferenceEquality(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var b = a is other;`))
	if !strings.Contains(got, "a == other") {
		t.Errorf("expected plain reference ==, got:\n%s", got)
	}
}

func TestIsNotOperatorMapsToReferenceInequality(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var b = a is! other;`))
	if !strings.Contains(got, "a != other") {
		t.Errorf("expected plain reference !=, got:\n%s", got)
	}
}

func TestRegexLiteralDesugarsToPatternCompile(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var p = /a-z,;/;`))
	if !strings.Contains(got, "java.util.regex.Pattern.compile(\"a-z,;\")") {
		t.Errorf("expected Pattern.compile(...), got:\n%s", got)
	}
}

func TestByteStringLiteralDesugarsToByteArray(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var bs = b"ab";`))
	if !strings.Contains(got, "new byte[]{97, 98}") {
		t.Errorf("expected new byte[]{97, 98}, got:\n%s", got)
	}
}

func TestTrailingCommaInArgumentList(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`doSomething(1, 2,);`))
	if !strings.Contains(got, "doSomething(1, 2)") {
		t.Errorf("expected trailing comma dropped, got:\n%s", got)
	}
}

func TestFeaturesCanBeDisabled(t *testing.T) {
	// With statements.print disabled, "println" is just an identifier and
	// this no longer parses as a print statement -- it falls through to an
	// ordinary (invalid, since println isn't declared) expression statement
	// which the base grammar still accepts syntactically.
	got := renderJavaPlusPlus(t, wrapMethod(`println("hi");`), parser.WithFeature("statements.print", false))
	if strings.Contains(got, "System.out.println") {
		t.Errorf("expected println to stay a plain call once disabled, got:\n%s", got)
	}
}

func TestDefaultArgumentsSynthesizeForwardingOverloads(t *testing.T) {
	got := renderJavaPlusPlus(t, "class Main {\n    void f(int a, int b = 2, int c = 3) {\n    }\n}\n")

	if !strings.Contains(got, "void f(int a)") {
		t.Errorf("expected a one-arg overload, got:\n%s", got)
	}
	if !strings.Contains(got, "f(a, 2, 3);") {
		t.Errorf("expected the one-arg overload to forward both saved defaults, got:\n%s", got)
	}
	if !strings.Contains(got, "void f(int a, int b)") {
		t.Errorf("expected a two-arg overload, got:\n%s", got)
	}
	if !strings.Contains(got, "f(a, b, 3);") {
		t.Errorf("expected the two-arg overload to forward the last default, got:\n%s", got)
	}
	if !strings.Contains(got, "void f(int a, int b, int c)") {
		t.Errorf("expected the full declaration to remain, got:\n%s", got)
	}
}

func TestDefaultArgumentOverloadsReturnValueInsteadOfCallForNonVoid(t *testing.T) {
	got := renderJavaPlusPlus(t, "class Main {\n    int f(int a, int b = 2) {\n        return a + b;\n    }\n}\n")
	if !strings.Contains(got, "return f(a, 2);") {
		t.Errorf("expected the synthesized overload to return the forwarding call, got:\n%s", got)
	}
}

func TestDefaultArgumentsOnConstructorForwardThroughThis(t *testing.T) {
	got := renderJavaPlusPlus(t, "class Point {\n    Point(int x, int y = 0) {\n    }\n}\n")
	if !strings.Contains(got, "this(x, 0);") {
		t.Errorf("expected the synthesized constructor overload to forward via this(...), got:\n%s", got)
	}
}

func TestDefaultArgumentVariadicTailGeneratesBothForms(t *testing.T) {
	got := renderJavaPlusPlus(t, "class Main {\n    void f(int a, int... rest = {1, 2}) {\n    }\n}\n")

	if !strings.Contains(got, "int... rest") {
		t.Errorf("expected the full variadic declaration to remain, got:\n%s", got)
	}
	if !strings.Contains(got, "f(a);") {
		t.Errorf("expected the no-variadic-arg overload forwarding call, got:\n%s", got)
	}
	if !strings.Contains(got, "f(a, new int[]{1, 2});") {
		t.Errorf("expected the full-arg overload to forward the reified array default, got:\n%s", got)
	}
}

func TestVardeclConditionHoistsVarForm(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`if (var line = reader.readLine()) {
            use(line);
        }`))
	if !strings.Contains(got, "var line = reader.readLine();") {
		t.Errorf("expected the vardecl to be hoisted above the if, got:\n%s", got)
	}
	if !strings.Contains(got, "if (line) {") {
		t.Errorf("expected the condition to be rewritten to the declared name, got:\n%s", got)
	}
}

func TestVardeclConditionHoistsTypedForm(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`while (String line = reader.readLine()) {
            use(line);
        }`))
	if !strings.Contains(got, "String line;") {
		t.Errorf("expected the hoisted declaration to keep the declared type, got:\n%s", got)
	}
	if !strings.Contains(got, "while (line = reader.readLine())") {
		t.Errorf("expected the condition to become the plain assignment expression, got:\n%s", got)
	}
}

func TestMapLiteralOverTenEntriesUsesMapOfEntries(t *testing.T) {
	got := renderJavaPlusPlus(t, wrapMethod(`var m = { "a": 1, "b": 2, "c": 3, "d": 4, "e": 5, "f": 6, "g": 7, "h": 8, "i": 9, "j": 10, "k": 11 };`))
	if !strings.Contains(got, "java.util.Map.ofEntries(") {
		t.Errorf("expected Map.ofEntries(...) past the 10-entry threshold, got:\n%s", got)
	}
	if !strings.Contains(got, "java.util.Map.entry(\"a\", 1)") {
		t.Errorf("expected each entry wrapped in Map.entry(...), got:\n%s", got)
	}
	if strings.Contains(got, "java.util.Map.of(") {
		t.Errorf("did not expect Map.of(...) once entries exceed the threshold, got:\n%s", got)
	}
}

func TestMultipleImportSectionsReenterAfterATypeDecl(t *testing.T) {
	src := "import java.util.List;\n\nclass A {\n}\n\nimport java.util.Map;\n\nclass B {\n}\n"
	got := renderJavaPlusPlus(t, src)
	if !strings.Contains(got, "import java.util.List;") {
		t.Errorf("expected the first section's import to survive, got:\n%s", got)
	}
	if !strings.Contains(got, "import java.util.Map;") {
		t.Errorf("expected the re-entered section's import to survive, got:\n%s", got)
	}
	if !strings.Contains(got, "class A {") || !strings.Contains(got, "class B {") {
		t.Errorf("expected both classes to survive, got:\n%s", got)
	}
}

func TestDefaultModifiersDirectiveAppliesUntilRewritten(t *testing.T) {
	src := "class Main {\n    public:\n    void a() {\n    }\n\n    void b() {\n    }\n}\n"
	got := renderJavaPlusPlus(t, src)
	if !strings.Contains(got, "public void a()") {
		t.Errorf("expected a() to pick up the default modifier, got:\n%s", got)
	}
	if !strings.Contains(got, "public void b()") {
		t.Errorf("expected b() to pick up the default modifier too, got:\n%s", got)
	}
}

func TestEmptyClassBodyAcceptsBareSemicolon(t *testing.T) {
	got := renderJavaPlusPlus(t, "class Marker;\n")
	if !strings.Contains(got, "class Marker {\n}") {
		t.Errorf("expected class Marker {} with an empty body, got:\n%s", got)
	}
}

func TestLiteralsWildcardDirectiveTogglesBothSubNamespaces(t *testing.T) {
	src := "from java++ unimport literals.*;\nclass Main {\n    void run() {\n        var xs = [1, 2];\n    }\n}\n"
	p := parser.ParseJavaPlusPlusCompilationUnit(strings.NewReader(src))
	node := p.Finish()
	if node == nil || node.FindFirstError() == nil {
		t.Fatalf("expected a syntax error once literals.collections is disabled via the wildcard, got node:\n%v", node)
	}

	src = "from java++ unimport literals.*;\nclass Main {\n    void run() {\n        var o = ?;\n    }\n}\n"
	p = parser.ParseJavaPlusPlusCompilationUnit(strings.NewReader(src))
	node = p.Finish()
	if node == nil || node.FindFirstError() == nil {
		t.Fatalf("expected a syntax error once literals.optional is disabled via the wildcard, got node:\n%v", node)
	}
}

func TestUnknownFeatureNameInDirectiveIsSyntaxError(t *testing.T) {
	src := "from java++ import nonexistent.thing;\nclass Main {\n}\n"
	p := parser.ParseJavaPlusPlusCompilationUnit(strings.NewReader(src))
	node := p.Finish()
	if node == nil || node.FindFirstError() == nil {
		t.Fatalf("expected an unknown feature name to surface as a syntax error, got node:\n%v", node)
	}
}

func TestUnknownFeatureNameInCLIOptionIsReported(t *testing.T) {
	p := parser.ParseJavaPlusPlusCompilationUnit(strings.NewReader("class Main {\n}\n"), parser.WithFeature("nonexistent.thing", true))
	if err := p.OptionError(); err == nil {
		t.Errorf("expected OptionError to report the unrecognised feature name")
	}
}

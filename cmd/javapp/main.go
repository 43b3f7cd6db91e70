package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/javaplusplus/transpiler/format"
	"github.com/javaplusplus/transpiler/java/parser"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		sourceType       string
		outFiles         []string
		parseMethod      string
		enableFeatures   []string
		disableFeatures  []string
		listFeatures     bool
		listParseMethods bool
		astJSON          bool
	)

	cmd := &cobra.Command{
		Use:   "javapp [files...]",
		Short: "Translate Java++ source to standard Java",
		Long: `javapp parses Java or Java++ source and emits the equivalent Java
as pretty-printed source.

Positional arguments are filenames, or the literal STDIN to read from
standard input. With --parse set, positional arguments are instead
joined with spaces and parsed as the literal source text of the named
production.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listFeatures {
				for _, name := range parser.FeatureNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}
			if listParseMethods {
				for _, name := range parser.ParseMethodNames() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			javaPlusPlus, err := resolveSourceType(sourceType)
			if err != nil {
				return err
			}
			if !javaPlusPlus && (len(enableFeatures) > 0 || len(disableFeatures) > 0) {
				return fmt.Errorf("-e/-d are only allowed for --type=Java++")
			}

			req := translateRequest{
				files:           args,
				javaPlusPlus:    javaPlusPlus,
				enableFeatures:  enableFeatures,
				disableFeatures: disableFeatures,
				outFiles:        outFiles,
				astJSON:         astJSON,
			}
			if parseMethod != "" {
				return runParseMethod(cmd, req, parseMethod)
			}
			return runCompile(cmd, req)
		},
	}

	cmd.Flags().StringVar(&sourceType, "type", "Java++", "source dialect to parse (Java, Java++)")
	cmd.Flags().StringArrayVar(&outFiles, "out", nil, "output file (repeatable); STDOUT prints to the console, NUL discards output")
	cmd.Flags().StringVar(&parseMethod, "parse", "", "parse the arguments as this production instead of a compilation unit (see --list-parse-methods)")
	cmd.Flags().StringArrayVarP(&enableFeatures, "enable", "e", nil, "enable the specified comma-separated feature names")
	cmd.Flags().StringArrayVarP(&disableFeatures, "disable", "d", nil, "disable the specified comma-separated feature names")
	cmd.Flags().BoolVar(&listFeatures, "list-features", false, "print the recognised feature names and exit")
	cmd.Flags().BoolVar(&listParseMethods, "list-parse-methods", false, "print the valid --parse production names and exit")
	cmd.Flags().BoolVar(&astJSON, "ast-json", false, "dump the parsed (and desugared) tree as JSON instead of pretty-printed Java")

	return cmd
}

func resolveSourceType(t string) (bool, error) {
	switch t {
	case "Java++":
		return true, nil
	case "Java":
		return false, nil
	default:
		return false, fmt.Errorf("unknown --type %q (expected Java or Java++)", t)
	}
}

type translateRequest struct {
	files           []string
	javaPlusPlus    bool
	enableFeatures  []string
	disableFeatures []string
	outFiles        []string
	astJSON         bool
}

func (req translateRequest) parserOptions(displayName string) []parser.Option {
	opts := []parser.Option{parser.WithFile(displayName), parser.WithComments(), parser.WithPositions()}
	if !req.javaPlusPlus {
		return opts
	}
	for _, spec := range req.enableFeatures {
		opts = append(opts, parser.WithFeatures(spec, true))
	}
	for _, spec := range req.disableFeatures {
		opts = append(opts, parser.WithFeatures(spec, false))
	}
	return opts
}

// runParseMethod implements `--parse METHOD`: the positional arguments are
// joined into one literal source string (not read as filenames) unless they
// name STDIN, and are parsed as the named production rather than a
// compilation unit.
func runParseMethod(cmd *cobra.Command, req translateRequest, method string) error {
	var input []byte
	displayName := "<string>"

	switch {
	case len(req.files) == 0 || (len(req.files) == 1 && req.files[0] == "STDIN"):
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		input = data
		displayName = "<stdin>"
	default:
		if containsStdin(req.files) {
			return fmt.Errorf("STDIN can only be used as an input file if there are no other input files")
		}
		input = []byte(strings.Join(req.files, " "))
	}

	p, ok := parser.ParseMethod(bytes.NewReader(input), method, req.javaPlusPlus, req.parserOptions(displayName)...)
	if !ok {
		return fmt.Errorf("invalid option for --parse: %s", method)
	}
	if err := p.OptionError(); err != nil {
		return err
	}

	node := p.Finish()
	if node == nil {
		return fmt.Errorf("%s: incomplete or invalid syntax", displayName)
	}
	if errNode := node.FindFirstError(); errNode != nil {
		return fmt.Errorf("%s", syntaxErrorMessage(displayName, errNode))
	}

	if len(req.outFiles) > 1 {
		return fmt.Errorf("unrecognized arguments: %s", strings.Join(req.outFiles[1:], " "))
	}
	if len(req.outFiles) == 1 && req.outFiles[0] == "NUL" {
		return nil
	}

	output, err := renderNode(node, input, p.Comments(), req.astJSON)
	if err != nil {
		return fmt.Errorf("%s: format: %w", displayName, err)
	}

	target := "STDOUT"
	if len(req.outFiles) == 1 {
		target = req.outFiles[0]
	}
	return deliverOutput(cmd, output, target)
}

// runCompile implements the default mode: each input file (or a single
// STDIN source) is parsed as a full compilation unit and written to its
// matching output.
func runCompile(cmd *cobra.Command, req translateRequest) error {
	if len(req.files) == 0 {
		return fmt.Errorf("the following arguments are required: FILE")
	}

	type job struct {
		input       []byte
		displayName string
		target      string
	}

	var jobs []job

	if len(req.files) == 1 && req.files[0] == "STDIN" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		target := "NUL"
		if len(req.outFiles) == 1 {
			target = req.outFiles[0]
		} else if len(req.outFiles) > 1 {
			return fmt.Errorf("number of output files is not the same as number of input files")
		}
		jobs = append(jobs, job{input: data, displayName: "<stdin>", target: target})
	} else {
		if containsStdin(req.files) {
			return fmt.Errorf("STDIN can only be used as an input file if there are no other input files")
		}
		if len(req.outFiles) > 0 && len(req.outFiles) != len(req.files) {
			return fmt.Errorf("number of output files is not the same as number of input files")
		}
		for i, name := range req.files {
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			target := defaultOutputPath(name)
			if len(req.outFiles) > 0 {
				target = req.outFiles[i]
			}
			jobs = append(jobs, job{input: data, displayName: name, target: target})
		}
	}

	for _, j := range jobs {
		opts := req.parserOptions(j.displayName)
		var p *parser.Parser
		if req.javaPlusPlus {
			p = parser.ParseJavaPlusPlusCompilationUnit(bytes.NewReader(j.input), opts...)
		} else {
			p = parser.ParseCompilationUnit(bytes.NewReader(j.input), opts...)
		}
		if err := p.OptionError(); err != nil {
			return fmt.Errorf("%s: %w", j.displayName, err)
		}

		node := p.Finish()
		if node == nil {
			return fmt.Errorf("%s: incomplete or invalid syntax", j.displayName)
		}
		if errNode := node.FindFirstError(); errNode != nil {
			return fmt.Errorf("%s", syntaxErrorMessage(j.displayName, errNode))
		}

		if j.target == "NUL" {
			continue
		}

		output, err := renderNode(node, j.input, p.Comments(), req.astJSON)
		if err != nil {
			return fmt.Errorf("%s: format: %w", j.displayName, err)
		}
		if err := deliverOutput(cmd, output, j.target); err != nil {
			return err
		}
		if j.target != "STDOUT" {
			fmt.Fprintln(cmd.ErrOrStderr(), "Converted", j.target)
		}
	}

	return nil
}

func containsStdin(files []string) bool {
	for _, f := range files {
		if f == "STDIN" {
			return true
		}
	}
	return false
}

func defaultOutputPath(inputName string) string {
	dir := filepath.Dir(inputName)
	base := filepath.Base(inputName)
	base = strings.TrimSuffix(base, filepath.Ext(base)) + ".java"
	return filepath.Join(dir, base)
}

func renderNode(node *parser.Node, source []byte, comments []parser.Token, astJSON bool) ([]byte, error) {
	var buf bytes.Buffer
	if astJSON {
		if err := format.NewASTJSONEncoder(&buf).Encode(node); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	pp := format.NewJavaPrettyPrinter(&buf)
	if err := pp.PrintAny(node, source, comments); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func syntaxErrorMessage(displayName string, errNode *parser.Node) string {
	pos := errNode.Span.Start
	msg := "syntax error"
	if errNode.Error != nil && errNode.Error.Message != "" {
		msg = errNode.Error.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", displayName, pos.Line, pos.Column, msg)
}

func deliverOutput(cmd *cobra.Command, output []byte, target string) error {
	switch target {
	case "STDOUT":
		_, err := cmd.OutOrStdout().Write(output)
		return err
	case "NUL":
		return nil
	default:
		return os.WriteFile(target, output, 0644)
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/eaburns/pretty"

	"github.com/elricmann/typed-lisp/internal/analyzer"
	"github.com/elricmann/typed-lisp/internal/config"
	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/lexer"
	"github.com/elricmann/typed-lisp/internal/parser"
	"github.com/elricmann/typed-lisp/internal/pipeline"
	"github.com/elricmann/typed-lisp/internal/prettyprinter"
	"github.com/elricmann/typed-lisp/internal/project"
)

type options struct {
	debug   bool
	noColor bool
	print   bool
	path    string
}

func parseArgs(args []string) (options, error) {
	var opts options
	for _, arg := range args {
		switch arg {
		case "-debug", "--debug":
			opts.debug = true
		case "-no-color", "--no-color":
			opts.noColor = true
		case "-print", "--print":
			opts.print = true
		case "-help", "--help", "help":
			return opts, errUsage
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag: %s", arg)
			}
			if opts.path != "" {
				return opts, fmt.Errorf("only one input file is supported")
			}
			opts.path = arg
		}
	}
	return opts, nil
}

var errUsage = fmt.Errorf("usage")

func usage(out io.Writer) {
	fmt.Fprintf(out, "Usage: typedlisp [flags] <file%s>\n", config.SourceFileExt)
	fmt.Fprintln(out, "       typedlisp [flags]   (reads from stdin when piped)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  -debug      dump the parse tree and final substitution")
	fmt.Fprintln(out, "  -no-color   disable colorized diagnostics")
	fmt.Fprintln(out, "  -print      re-render the parse tree as canonical source")
}

func readInput(opts options) (string, error) {
	if opts.path == "" {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", errUsage
		}
		input, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(input), nil
	}

	input, err := os.ReadFile(opts.path)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(input), nil
}

// loadProjectConfig finds and loads typedlisp.yaml for the checked file.
// A missing config is not an error; a broken one is.
func loadProjectConfig(opts options) (*project.Config, error) {
	dir := "."
	if opts.path != "" {
		dir = filepath.Dir(opts.path)
	}
	path, err := project.FindConfig(dir)
	if err != nil || path == "" {
		return nil, err
	}
	return project.LoadConfig(path)
}

func run() int {
	opts, err := parseArgs(os.Args[1:])
	if err == errUsage {
		usage(os.Stdout)
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	source, err := readInput(opts)
	if err == errUsage {
		usage(os.Stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	cfg, err := loadProjectConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	ctx := pipeline.NewPipelineContext(source)
	if opts.path != "" {
		if abs, absErr := filepath.Abs(opts.path); absErr == nil {
			ctx.FilePath = abs
		} else {
			ctx.FilePath = opts.path
		}
	}
	ctx.Config = cfg

	processingPipeline := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	)

	finalCtx := processingPipeline.Run(ctx)

	if opts.print && finalCtx.AstRoot != nil {
		fmt.Println(prettyprinter.NewCodePrinter().Print(finalCtx.AstRoot))
	}

	if opts.debug {
		fmt.Fprintln(os.Stderr, "--- parse tree ---")
		fmt.Fprintln(os.Stderr, pretty.String(finalCtx.AstRoot))
		fmt.Fprintln(os.Stderr, "--- substitution ---")
		fmt.Fprintln(os.Stderr, pretty.String(finalCtx.Subst))
	}

	if len(finalCtx.Errors) == 0 {
		fmt.Println("no type errors found!")
		return 0
	}

	renderer := diagnostics.NewRenderer(os.Stderr)
	maxErrors := 0
	if cfg != nil {
		maxErrors = cfg.MaxErrors
		switch cfg.Color {
		case project.ColorAlways:
			renderer.SetColor(true)
		case project.ColorNever:
			renderer.SetColor(false)
		}
	}
	if opts.noColor {
		renderer.SetColor(false)
	}

	diags := finalCtx.Errors
	diagnostics.Sort(diags)
	renderer.RenderAll(diags, maxErrors)

	return 1
}

func main() {
	// Catch panics and show a user-friendly error.
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get a stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	os.Exit(run())
}

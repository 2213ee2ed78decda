package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox/internal/evaluator"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/resolver"
	"lox/internal/util"
	"os"
	"runtime/pprof"
	"strings"
)

var (
	// ErrStatic means scanning, parsing or resolution failed and nothing ran.
	ErrStatic = errors.New("static error")
	// ErrRuntime means execution stopped at an uncaught runtime error.
	ErrRuntime = errors.New("runtime error")
)

// EnvDumpCommand is the input that prints the global environment instead
// of being run as source.
const EnvDumpCommand = "@"

// Runner drives source text through the whole pipeline. It keeps one
// resolver and one evaluator, so state persists between calls to Run.
type Runner struct {
	config    util.Configuration
	resolver  *resolver.Resolver
	evaluator *evaluator.Evaluator
	stdout    io.Writer
	stderr    io.Writer
}

func New(config util.Configuration, stdout, stderr io.Writer) *Runner {
	return &Runner{
		config:    config,
		resolver:  resolver.New(),
		evaluator: evaluator.New(stdout, stderr),
		stdout:    stdout,
		stderr:    stderr,
	}
}

// Run executes source. Diagnostics have already been written to stderr
// when the returned error wraps ErrStatic or ErrRuntime.
func (r *Runner) Run(source string) error {
	if strings.TrimSpace(source) == EnvDumpCommand {
		fmt.Fprint(r.stdout, object.RenderEnvironment(r.evaluator.Globals()))
		return nil
	}

	static := 0

	tokens, err := lexer.New(source).ScanTokens()
	if err != nil {
		static += r.report(err)
	}

	p := parser.New(tokens)
	program := p.ParseProgram()
	for _, parseErr := range p.Errors() {
		static += r.report(parseErr)
	}

	if r.config.DebugAST {
		fmt.Fprintln(r.stdout, parser.RenderASTAsText(program, 0))
	}

	if static > 0 {
		return fmt.Errorf("%w: %d scan/parse errors", ErrStatic, static)
	}

	locals, err := r.resolver.Resolve(program.Statements)
	if err != nil {
		return fmt.Errorf("%w: %d resolution errors", ErrStatic, r.report(err))
	}
	r.evaluator.Resolve(locals)

	slog.Debug(" ---- begin ----", slog.Int("statements", len(program.Statements)))
	defer slog.Debug(" ---- done ----")

	if !r.evaluator.Interpret(program.Statements) {
		return ErrRuntime
	}
	return nil
}

// RunFile reads and runs a script. Read failures are returned unwrapped so
// the caller can tell them apart from errors in the script itself.
func (r *Runner) RunFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Optional profiling via env var: LOX_CPU_PROFILE=<path>
	if profPath := os.Getenv("LOX_CPU_PROFILE"); profPath != "" {
		stop := r.startCPUProfile(profPath)
		defer stop()
	}

	slog.Debug("running file", slog.String("path", path), slog.Int("bytes", len(source)))
	return r.Run(string(source))
}

func (r *Runner) startCPUProfile(path string) func() {
	profFile, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(r.stderr, "could not create CPU profile %q: %v\n", path, err)
		return func() {}
	}
	if err := pprof.StartCPUProfile(profFile); err != nil {
		fmt.Fprintf(r.stderr, "could not start CPU profile: %v\n", err)
		_ = profFile.Close()
		return func() {}
	}
	return func() {
		pprof.StopCPUProfile()
		_ = profFile.Close()
	}
}

// report writes each error joined into err on its own line and returns how
// many there were.
func (r *Runner) report(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs := joined.Unwrap()
		for _, e := range errs {
			fmt.Fprintln(r.stderr, e)
		}
		return len(errs)
	}
	fmt.Fprintln(r.stderr, err)
	return 1
}

package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"lox/internal/history"
	"lox/internal/runner"
	"lox/internal/util"
	"slices"
	"testing"

	"github.com/peterh/liner"
)

type scriptedReader struct {
	lines    []string
	errs     map[int]error
	calls    int
	prompts  []string
	appended []string
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if i >= len(s.lines) {
		return "", io.EOF
	}
	return s.lines[i], nil
}

func (s *scriptedReader) AppendHistory(item string) {
	s.appended = append(s.appended, item)
}

func TestLoopRunsLinesWithSharedState(t *testing.T) {
	var stdout, stderr, out bytes.Buffer
	cfg := util.DefaultConfiguration()
	cfg.Prompt = "lox> "

	reader := &scriptedReader{lines: []string{"var a = 1;", "", "print a + 1;", "print b;", "print a;"}}
	r := New(cfg, runner.New(cfg, &stdout, &stderr), reader, nil, &out)

	if err := r.Loop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stdout.String() != "2\n1\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if stderr.String() != "line 1 at 'b' Undefined variable 'b'.\n" {
		t.Errorf("unexpected errors %q", stderr.String())
	}
	if reader.prompts[0] != "lox> " {
		t.Errorf("expected configured prompt, got %q", reader.prompts[0])
	}
	if len(reader.appended) != 4 {
		t.Errorf("blank lines must not enter history, got %q", reader.appended)
	}
}

func TestLoopSkipsAbortedPrompt(t *testing.T) {
	var stdout, stderr, out bytes.Buffer
	cfg := util.DefaultConfiguration()

	reader := &scriptedReader{
		lines: []string{"", `print "after ctrl-c";`},
		errs:  map[int]error{0: liner.ErrPromptAborted},
	}
	if err := New(cfg, runner.New(cfg, &stdout, &stderr), reader, nil, &out).Loop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != "after ctrl-c\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestLoopReturnsReadErrors(t *testing.T) {
	var stdout, stderr, out bytes.Buffer
	cfg := util.DefaultConfiguration()
	failure := errors.New("terminal gone")

	reader := &scriptedReader{errs: map[int]error{0: failure}}
	err := New(cfg, runner.New(cfg, &stdout, &stderr), reader, nil, &out).Loop(context.Background())
	if !errors.Is(err, failure) {
		t.Errorf("expected wrapped read error, got %v", err)
	}
}

func TestLoopPersistsHistory(t *testing.T) {
	ctx := context.Background()
	store, err := history.Open(ctx, "sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	if err := store.Append(ctx, "print 0;"); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	var stdout, stderr, out bytes.Buffer
	cfg := util.DefaultConfiguration()
	cfg.HistoryLimit = 10

	reader := &scriptedReader{lines: []string{"print 1;", "print 2;"}}
	if err := New(cfg, runner.New(cfg, &stdout, &stderr), reader, store, &out).Loop(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(reader.appended, []string{"print 0;", "print 1;", "print 2;"}) {
		t.Errorf("expected stored history to be loaded first, got %q", reader.appended)
	}

	lines, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if !slices.Equal(lines, []string{"print 0;", "print 1;", "print 2;"}) {
		t.Errorf("unexpected stored history %q", lines)
	}
}

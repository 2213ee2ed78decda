package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox/internal/history"
	"lox/internal/runner"
	"lox/internal/util"
	"strings"

	"github.com/peterh/liner"
)

// LineReader is the part of a line editor the loop needs. *liner.State
// satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// History persists accepted lines. *history.Store satisfies it.
type History interface {
	Append(ctx context.Context, line string) error
	Recent(ctx context.Context, limit int) ([]string, error)
}

type Repl struct {
	config  util.Configuration
	runner  *runner.Runner
	reader  LineReader
	history History
	out     io.Writer
}

func New(config util.Configuration, r *runner.Runner, reader LineReader, hist History, out io.Writer) *Repl {
	return &Repl{config: config, runner: r, reader: reader, history: hist, out: out}
}

// Start runs the interactive session on the terminal until EOF. History is
// loaded from and written to the configured store unless it is disabled.
func Start(ctx context.Context, config util.Configuration, r *runner.Runner, out io.Writer) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var hist History
	if config.HistoryDriver != util.HistoryDisabled && config.HistoryDSN != "" {
		store, err := history.Open(ctx, config.HistoryDriver, config.HistoryDSN)
		if err != nil {
			// the session still works without persistent history
			slog.Warn("history unavailable", slog.Any("error", err))
		} else {
			defer store.Close()
			hist = store
		}
	}

	return New(config, r, ln, hist, out).Loop(ctx)
}

// Loop reads lines until EOF. Errors from running a line are already
// reported by the runner and do not end the session.
func (r *Repl) Loop(ctx context.Context) error {
	r.loadHistory(ctx)

	for {
		line, err := r.reader.Prompt(r.config.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return fmt.Errorf("repl: read line: %w", err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		r.remember(ctx, line)
		if err := r.runner.Run(line); err != nil {
			slog.Debug("line failed", slog.Any("error", err))
		}
	}
}

func (r *Repl) loadHistory(ctx context.Context) {
	if r.history == nil {
		return
	}
	lines, err := r.history.Recent(ctx, r.config.HistoryLimit)
	if err != nil {
		slog.Warn("could not load history", slog.Any("error", err))
		return
	}
	for _, line := range lines {
		r.reader.AppendHistory(line)
	}
}

func (r *Repl) remember(ctx context.Context, line string) {
	r.reader.AppendHistory(line)
	if r.history == nil {
		return
	}
	if err := r.history.Append(ctx, line); err != nil {
		slog.Warn("could not store history", slog.Any("error", err))
	}
}

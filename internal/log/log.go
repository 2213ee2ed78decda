package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

const LevelTrace = slog.Level(-8)

// ParseLevel maps a -log-level value onto a slog level. "none" and unknown
// values keep only errors.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Writer is the destination for the JSON log handler. When backed by a
// file it can be reopened in place so the file can be rotated externally.
type Writer struct {
	path string
	out  io.Writer
	fh   *os.File
	mu   sync.Mutex
	sigs chan os.Signal
}

// OpenWriter opens path for appending, creating parent directories as
// needed. An empty path, or any failure to open, yields a Writer on stderr.
func OpenWriter(path string) *Writer {
	w := &Writer{out: os.Stderr}
	if path == "" {
		return w
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory for '%s': %v; falling back to stderr\n", path, err)
		return w
	}
	fh, err := openLogFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file '%s': %v; falling back to stderr\n", path, err)
		return w
	}

	w.path = path
	w.fh = fh
	w.out = fh
	w.setupLogRotation()
	return w
}

func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}

// Reopen closes and reopens the log file. It is a no-op for stderr.
func (w *Writer) Reopen() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fh == nil {
		return nil
	}
	fh, err := openLogFile(w.path)
	if err != nil {
		return fmt.Errorf("could not reopen log file: %w", err)
	}
	_ = w.fh.Close()
	w.fh = fh
	w.out = fh
	return nil
}

/*
 * when logging to a file listen for SIGHUP after log rotation
 * mv lox.log lox.bak && kill -HUP <pid>
 */
func (w *Writer) setupLogRotation() {
	w.sigs = make(chan os.Signal, 1)
	signal.Notify(w.sigs, syscall.SIGHUP)
	go func() {
		for range w.sigs {
			if err := w.Reopen(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}()
}

func (w *Writer) Close() error {
	if w.sigs != nil {
		signal.Stop(w.sigs)
		close(w.sigs)
		w.sigs = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fh == nil {
		return nil
	}
	err := w.fh.Close()
	w.fh = nil
	w.out = os.Stderr
	return err
}

// Setup installs a JSON handler writing to w as the default slog logger.
func Setup(w io.Writer, level string) {
	options := &slog.HandlerOptions{
		AddSource: false,
		Level:     ParseLevel(level),
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, options)))
}

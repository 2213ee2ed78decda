package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"lox/internal/log"
	"lox/internal/repl"
	"lox/internal/runner"
	"lox/internal/util"
	"os"
	"strings"
)

const (
	exitUsage   = 64
	exitDataErr = 65
	exitNoInput = 66
)

var (
	// Version is injected at build time with -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
	help      bool
	version   bool
	// logging
	logLevel string
	logFile  string
	// config vars
	configPath string
	debugAST   bool
	prompt     string
	historyDSN string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	flag.StringVar(&configPath, "config", "", "YAML configuration file (default $LOX_CONFIG)")
	// parser config
	flag.BoolVar(&debugAST, "debug-ast", false, "Print the parsed program before running it")
	// repl config
	flag.StringVar(&prompt, "prompt", "", "REPL prompt")
	flag.StringVar(&historyDSN, "history-dsn", "", "REPL history data source ('none' disables history)")
	// log config
	flag.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if version {
		printVersion()
		return 0
	}

	if help {
		printHelp()
		return 0
	}

	config, err := loadConfiguration()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	logWriter := log.OpenWriter(config.LogFile)
	defer logWriter.Close()
	log.Setup(logWriter, config.LogLevel)

	slog.Debug("configuration loaded",
		slog.String("version", config.Version),
		slog.String("history-driver", config.HistoryDriver),
		slog.Bool("debug-ast", config.DebugAST))

	r := runner.New(config, os.Stdout, os.Stderr)

	switch flag.NArg() {
	case 0:
		if err := repl.Start(context.Background(), config, r, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	case 1:
		return runFile(r, flag.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [options] [script]")
		return exitUsage
	}
}

func runFile(r *runner.Runner, path string) int {
	err := r.RunFile(path)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, runner.ErrStatic), errors.Is(err, runner.ErrRuntime):
		// already reported
		return exitDataErr
	default:
		fmt.Fprintf(os.Stderr, "could not read '%s': %v\n", path, err)
		return exitNoInput
	}
}

// loadConfiguration layers defaults, then the YAML file, then any flag set
// on the command line.
func loadConfiguration() (util.Configuration, error) {
	config := util.DefaultConfiguration()
	config.Version = Version
	config.BuildDate = BuildDate
	config.Commit = Commit

	path := configPath
	if path == "" {
		path = os.Getenv("LOX_CONFIG")
	}
	if path != "" {
		loaded, err := util.LoadConfiguration(path, config)
		if err != nil {
			return config, err
		}
		config = loaded
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "debug-ast":
			config.DebugAST = debugAST
		case "prompt":
			config.Prompt = prompt
		case "history-dsn":
			if strings.EqualFold(historyDSN, util.HistoryDisabled) {
				config.HistoryDriver = util.HistoryDisabled
			} else {
				config.HistoryDSN = historyDSN
			}
		}
	})
	return config, nil
}

func printVersion() {
	fmt.Printf("lox version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: lox [options] [script]

Options:
  -config <path>       Load settings from a YAML file. Default is $LOX_CONFIG.
  -debug-ast           Print the parsed program before running it.
  -prompt <text>       Set the REPL prompt. Default is '> '.
  -history-dsn <dsn>   Where REPL history is stored, or 'none'. Default is ~/.lox_history.db.
  -help                Display this help information and exit.
  -version             Display version information and exit.
  -log-level <level>   Set the log level: trace, debug, info, warn, error. Default is 'error'.
  -log-file <path>     Specify a log file to write logs. Default is stderr.

Details:
Without a script lox starts an interactive session. Entering '@' prints
the global environment.

Exit codes:
  64  invalid invocation or configuration
  65  the script had a syntax, resolution or runtime error
  66  the script could not be read

Environment:
  LOX_CONFIG        Configuration file used when -config is not given.
  LOX_CPU_PROFILE   Write a CPU profile of a script run to this path.

Examples:
  lox                         Start the REPL
  lox -log-level=debug        Start with debug logging enabled
  lox script.lox              Execute the provided file

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}

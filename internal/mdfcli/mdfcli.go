// Package mdfcli parses command-line arguments for the mdfdemo binary.
package mdfcli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError carries the process exit code that should accompany an error
// returned from Parse, so main can distinguish "print this and exit 2" from
// an unexpected internal failure.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Config is the fully validated result of parsing the command line.
type Config struct {
	GraphPath  string // path to an .hcl graph description; empty selects the built-in demo
	Arg        int    // the integer argument fed to the graph's input node
	Workers    int
	LogFormat  string
	LogLevel   string
}

// Parse processes args. It returns a populated Config, a boolean indicating
// the program should exit cleanly (e.g. -h was given), or an *ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("mdfdemo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mdfdemo - runs a macro data flow graph to completion.

Usage:
  mdfdemo [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to an .hcl graph description. If unset, runs the built-in arithmetic-diamond demo.")
	argFlag := flagSet.Int("arg", 5, "Integer argument fed to the graph's input node.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for the executor.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *workersFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "workers must be >= 1"}
	}

	return &Config{
		GraphPath: *graphFlag,
		Arg:       *argFlag,
		Workers:   *workersFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	}, false, nil
}

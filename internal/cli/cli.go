// Package cli is the command-line boundary around the llm client. It owns flag
// parsing and output formatting and reports failures as an exit code; only main exits.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/GenrecAI/genrecai-client/internal/config"
	"github.com/GenrecAI/genrecai-client/internal/pkg/log"
)

const (
	exitOK      = 0
	exitFailure = 1
)

// App runs a single CLI invocation
type App struct {
	Name   string
	Stdout io.Writer
	Stderr io.Writer
	// EnvFiles are the .env files to load; empty means ./.env.
	EnvFiles []string
}

// New creates an App writing results to stdout and diagnostics to stderr.
func New(stdout, stderr io.Writer) *App {
	return &App{
		Name:   "genrecai",
		Stdout: stdout,
		Stderr: stderr,
	}
}

// Run parses args (without the program name), executes the selected command
// and returns the process exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	flags := pflag.NewFlagSet(a.Name, pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(a.Stderr)
	flags.SortFlags = false
	config.RegisterFlags(flags)
	flags.Usage = func() { a.printUsage(flags) }

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		a.printError(err)
		return exitFailure
	}

	rest := flags.Args()
	if len(rest) == 0 {
		a.printUsage(flags)
		return exitFailure
	}

	cmd, ok := lookup(rest[0])
	if !ok {
		fmt.Fprintf(a.Stderr, "unknown command %q\n\n", rest[0])
		a.printUsage(flags)
		return exitFailure
	}

	cfg, err := config.Load(flags, a.EnvFiles...)
	if err != nil {
		a.printError(err)
		return exitFailure
	}

	log.SetOutput(a.Stderr)
	log.SetVerbose(cfg.Verbose)

	ctx = log.WithRequestID(ctx, uuid.NewString())
	log.DebugWithContext(ctx, "running %s against %s", cmd.name, cfg.BaseURL)
	log.Dump("effective config", cfg)

	code, err := cmd.execute(ctx, cfg, rest[1:], a.Stdout, a.Stderr)
	if err != nil {
		log.DebugWithContext(ctx, "%s failed: %v", cmd.name, err)
		a.printError(err)
	}
	return code
}

func (a *App) printError(err error) {
	fmt.Fprintf(a.Stderr, "Error: %v\n", err)
}

func (a *App) printUsage(flags *pflag.FlagSet) {
	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s --model NAME [--base-url URL] <command> [args]\n\n", a.Name)
	b.WriteString("GenreCAI API Client\n\n")
	b.WriteString("Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(&b, "  %-32s %s\n", cmd.usage, cmd.summary)
	}
	b.WriteString("\nFlags:\n")
	b.WriteString(flags.FlagUsages())
	fmt.Fprint(a.Stderr, b.String())
}

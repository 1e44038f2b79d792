package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/GenrecAI/genrecai-client/internal/config"
	"github.com/GenrecAI/genrecai-client/internal/pkg/log"
	"github.com/GenrecAI/genrecai-client/internal/platform/llm"
)

type command struct {
	name    string
	usage   string
	summary string
	// args is the number of positional arguments the command takes.
	args  int
	flags func(*pflag.FlagSet)
	run   func(ctx context.Context, cfg *config.Config, flags *pflag.FlagSet, args []string, out io.Writer) error
}

var commands = []command{
	{
		name:    "chat",
		usage:   "chat PROMPT",
		summary: "Generate text using chat model",
		args:    1,
		run:     runChat,
	},
	{
		name:    "embed",
		usage:   "embed TEXT [--input-type TYPE]",
		summary: "Generate embeddings",
		args:    1,
		flags: func(flags *pflag.FlagSet) {
			flags.String("input-type", llm.DefaultInputType, "Input type")
		},
		run: runEmbed,
	},
	{
		name:    "models",
		usage:   "models",
		summary: "List available models",
		run:     runModels,
	},
}

func lookup(name string) (command, bool) {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd, true
		}
	}
	return command{}, false
}

// execute parses the command's own flags and positional arguments and runs it.
func (c command) execute(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) (int, error) {
	flags := pflag.NewFlagSet(c.name, pflag.ContinueOnError)
	flags.SetOutput(errOut)
	if c.flags != nil {
		c.flags(flags)
	}
	flags.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s\n\n%s\n", c.usage, c.summary)
		if usages := flags.FlagUsages(); usages != "" {
			fmt.Fprintf(errOut, "\nFlags:\n%s", usages)
		}
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK, nil
		}
		return exitFailure, err
	}

	positional := flags.Args()
	if len(positional) != c.args {
		return exitFailure, fmt.Errorf("usage: %s", c.usage)
	}

	if err := c.run(ctx, cfg, flags, positional, out); err != nil {
		return exitFailure, err
	}
	return exitOK, nil
}

func newClient(cfg *config.Config, baseURL string, mode llm.Mode) (*llm.Client, error) {
	return llm.New(llm.Config{
		BaseURL: baseURL,
		Model:   cfg.Model,
		Mode:    mode,
		Timeout: cfg.Timeout,
	})
}

func runChat(ctx context.Context, cfg *config.Config, _ *pflag.FlagSet, args []string, out io.Writer) error {
	client, err := newClient(cfg, cfg.ChatURL(), llm.ModeGeneration)
	if err != nil {
		return err
	}

	stream, err := client.Generate(ctx, args[0])
	if err != nil {
		return err
	}
	defer stream.Close()

	chunks := 0
	for stream.Next() {
		chunks++
		if _, err := io.WriteString(out, stream.Current()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return err
	}
	log.DebugWithContext(ctx, "received %d chunks", chunks)

	_, err = fmt.Fprintln(out)
	return err
}

func runEmbed(ctx context.Context, cfg *config.Config, flags *pflag.FlagSet, args []string, out io.Writer) error {
	inputType, err := flags.GetString("input-type")
	if err != nil {
		return err
	}

	client, err := newClient(cfg, cfg.EmbedURL(), llm.ModeEmbedding)
	if err != nil {
		return err
	}

	embeddings, err := client.Embed(ctx, args[0], llm.WithInputType(inputType))
	if err != nil {
		return err
	}

	if len(embeddings) == 0 {
		_, err = fmt.Fprintln(out, "Generated 0 embeddings")
		return err
	}
	_, err = fmt.Fprintf(out, "Generated %d embedding(s) of dimension %d\n", len(embeddings), len(embeddings[0]))
	return err
}

func runModels(ctx context.Context, cfg *config.Config, _ *pflag.FlagSet, _ []string, out io.Writer) error {
	chatClient, err := newClient(cfg, cfg.ChatURL(), llm.ModeGeneration)
	if err != nil {
		return err
	}
	embedClient, err := newClient(cfg, cfg.EmbedURL(), llm.ModeEmbedding)
	if err != nil {
		return err
	}

	sections := []struct {
		title  string
		client *llm.Client
	}{
		{"Available Chat Models:", chatClient},
		{"Available Embedding Models:", embedClient},
	}

	for i, section := range sections {
		models, err := section.client.ListModels(ctx)
		if err != nil {
			return err
		}
		log.DebugWithContext(ctx, "%s lists %d models", section.client.ModelsURL(), len(models))

		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, section.title)
		for _, model := range models {
			fmt.Fprintf(out, "  - %s\n", model)
		}
	}
	return nil
}

// Command mdfdemo builds and runs a small macro data flow graph, either the
// built-in arithmetic-diamond example or one loaded from an -graph HCL file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/mdfgo"
	"github.com/vk/mdfgo/internal/ctxlog"
	"github.com/vk/mdfgo/internal/hcldef"
	"github.com/vk/mdfgo/internal/mdfcli"
	"github.com/vk/mdfgo/internal/registry"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*mdfcli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	cfg, shouldExit, err := mdfcli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("mdfdemo: %w", err)
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	reg := registry.New()
	registry.RegisterBuiltins(reg)

	var tmpl *mdf.Template
	if cfg.GraphPath != "" {
		tmpl, err = hcldef.Load(cfg.GraphPath, reg)
		if err != nil {
			return fmt.Errorf("mdfdemo: %w", err)
		}
	} else {
		tmpl, err = builtinDiamond()
		if err != nil {
			return fmt.Errorf("mdfdemo: %w", err)
		}
	}

	exec := mdf.NewExecutor(cfg.Workers)
	defer exec.Shutdown()

	future, err := exec.Run(ctx, tmpl, mdf.NewToken(cfg.Arg))
	if err != nil {
		return fmt.Errorf("mdfdemo: %w", err)
	}
	tokens, err := future.Get()
	if err != nil {
		return fmt.Errorf("mdfdemo: run failed: %w", err)
	}

	for i, tok := range tokens {
		fmt.Fprintf(outW, "output[%d] = %v\n", i, tok.Value)
	}
	return nil
}

// builtinDiamond builds (x*2) + (x*2) as a split/double/double/add/identity
// pipeline, used when the caller does not pass -graph.
func builtinDiamond() (*mdf.Template, error) {
	tmpl := mdf.NewTemplate()

	double := mdf.NewFunction("double", 1, 1, func(in []mdf.Token) []mdf.Token {
		return []mdf.Token{mdf.NewToken(in[0].Value.(int) * 2)}
	})
	add := mdf.NewFunction("add", 2, 1, func(in []mdf.Token) []mdf.Token {
		return []mdf.Token{mdf.NewToken(in[0].Value.(int) + in[1].Value.(int))}
	})
	identity := mdf.NewFunction("identity", 1, 1, func(in []mdf.Token) []mdf.Token {
		return []mdf.Token{in[0]}
	})

	in, err := tmpl.AddSplitNode(2)
	if err != nil {
		return nil, err
	}
	left, err := tmpl.AddFunctionNode(double)
	if err != nil {
		return nil, err
	}
	right, err := tmpl.AddFunctionNode(double)
	if err != nil {
		return nil, err
	}
	sum, err := tmpl.AddFunctionNode(add)
	if err != nil {
		return nil, err
	}
	out, err := tmpl.AddFunctionNode(identity)
	if err != nil {
		return nil, err
	}

	if err := tmpl.AddOutput(in, left, 0); err != nil {
		return nil, err
	}
	if err := tmpl.AddOutput(in, right, 0); err != nil {
		return nil, err
	}
	if err := tmpl.AddOutput(left, sum, 0); err != nil {
		return nil, err
	}
	if err := tmpl.AddOutput(right, sum, 1); err != nil {
		return nil, err
	}
	if err := tmpl.AddOutput(sum, out, 0); err != nil {
		return nil, err
	}
	if err := tmpl.MarkAsInput(in); err != nil {
		return nil, err
	}
	if err := tmpl.MarkAsOutput(out); err != nil {
		return nil, err
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return tmpl, nil
}

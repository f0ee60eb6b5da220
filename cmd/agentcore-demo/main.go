// Package main provides agentcore-demo, a smoke-test binary exercising
// the instrumentation runtime end to end against a real (or attached)
// core agent.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/scout-apm/agentcore"
	"github.com/scout-apm/agentcore/internal/logging"
	"github.com/scout-apm/agentcore/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "agentcore-demo",
		Short:         "agentcore-demo - instrumentation runtime smoke test",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.String())
		},
	}
}

func newRunCmd() *cobra.Command {
	var name, key, socketPath string
	var launch bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Set up the engine, run a sample transaction, then tear down",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), name, key, socketPath, launch)
		},
	}

	cmd.Flags().StringVar(&name, "name", "agentcore-demo", "application name")
	cmd.Flags().StringVar(&key, "key", "", "application key")
	cmd.Flags().StringVar(&socketPath, "socket-path", "", "explicit core agent socket path (attach mode)")
	cmd.Flags().BoolVar(&launch, "launch", false, "launch a core agent process instead of attaching")

	return cmd
}

func runDemo(ctx context.Context, name, key, socketPath string, launch bool) error {
	logger := logging.NewWithComponent(logging.DefaultOptions(), "agentcore-demo")

	values := map[agentcore.Property]any{
		agentcore.PropName:            name,
		agentcore.PropKey:             key,
		agentcore.PropCoreAgentLaunch: launch,
	}
	if socketPath != "" {
		values[agentcore.PropSocketPath] = socketPath
	}

	meta := agentcore.NewMetadata(time.Now())
	meta.ApplicationName = name

	engine := agentcore.New(agentcore.Options{
		Values:   values,
		Logger:   logger,
		Metadata: meta,
		Scrubber: agentcore.PathScrubber{
			ScrubPath:       func(p string) string { return p },
			ScrubPathParams: func(p string) string { return p },
		},
		SlowRequestThresholdMs: 250,
	})

	events := engine.Subscribe()
	go func() {
		for evt := range events {
			logger.Info().Str("event", evt.Kind.String()).Str("path", evt.Path).Msg("engine event")
		}
	}()

	if err := engine.Setup(ctx); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	defer func() {
		if err := engine.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	err := engine.Transaction(ctx, "demo.request", func(reqCtx context.Context, done func()) {
		engine.AddContext(reqCtx, "user_id", 42, nil)
		if err := engine.Instrument(reqCtx, "demo.query", func(spanCtx context.Context, doneSpan func()) {
			time.Sleep(10 * time.Millisecond)
			doneSpan()
		}); err != nil {
			logger.Error().Err(err).Msg("instrument failed")
		}
		done()
	})
	if err != nil {
		return fmt.Errorf("transaction: %w", err)
	}

	logger.Info().Msg("demo transaction complete")
	return nil
}

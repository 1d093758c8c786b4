package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/patrickgunnar/galadrielcss/internal/orchestrate"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Launch the development orchestrator in the current directory",
	Long: `start watches every Nenyr source under the current directory and
recompiles the stylesheet as files change, until interrupted (Ctrl+C).`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runStart,
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg := buildConfig()
	useColors, _ := cmd.Flags().GetBool("color")
	quiet, _ := cmd.Flags().GetBool("quiet")

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	engine, clastrack, cache := buildEngine()
	orch := orchestrate.New(cwd, engine, clastrack, cache, unwiredParser{}, passthroughInjector{}, cfg)

	alertCh := runRenderer(os.Stdout, engine.Bus, useColors, quiet)
	defer engine.Bus.Unsubscribe(alertCh)

	if err := orch.WritePortFile(cfg.Port); err != nil {
		return err
	}
	defer orch.RemovePortFile()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return orch.Run(ctx)
}

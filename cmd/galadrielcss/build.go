package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrickgunnar/galadrielcss/internal/orchestrate"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run one compilation pass over every source file then exit",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, _ []string) error {
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

	if err := orch.BuildOnce(context.Background()); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if !quiet {
		fmt.Println(cache.Get())
	}

	return nil
}

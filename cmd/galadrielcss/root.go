package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "galadrielcss",
	Short: "Compile Nenyr sources into a CSS stylesheet",
	Long: `Galadriel CSS compiles Nenyr context declarations (central,
layouts, modules) into a single deterministic stylesheet, either once
(build) or continuously while watching for changes (start).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose alert output")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress all alert output")
	rootCmd.PersistentFlags().Bool("color", false, "force color output")
	rootCmd.PersistentFlags().String("config", "galadriel.config.json", "config file path")

	rootCmd.PersistentFlags().StringSlice("exclude", nil, "glob patterns to exclude from compilation")
	rootCmd.PersistentFlags().Bool("auto-naming", true, "auto-inject a construct name into unnamed Nenyr files")
	rootCmd.PersistentFlags().Bool("reset-styles", true, "emit the universal-selector reset prelude")
	rootCmd.PersistentFlags().Bool("minified-styles", true, "minify the emitted stylesheet")
	rootCmd.PersistentFlags().String("port", "0", `dev-query port registration ("*" for OS-assigned)`)

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

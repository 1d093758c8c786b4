package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default galadriel.config.json file",
	Long:  `Create a galadriel.config.json configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat("galadriel.config.json"); err == nil && !force {
			return fmt.Errorf("galadriel.config.json already exists (use --force to overwrite)")
		}

		if err := os.WriteFile("galadriel.config.json", []byte(defaultConfigJSON), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Println("Created galadriel.config.json")
		return nil
	},
}

const defaultConfigJSON = `{
  "exclude": [],
  "autoNaming": true,
  "resetStyles": true,
  "minifiedStyles": true,
  "port": "0"
}
`

func init() {
	initCmd.Flags().Bool("force", false, "overwrite existing config file")
}

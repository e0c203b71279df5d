package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sptr/internal/scenario"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the available workload scenarios",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := applyColorMode(cfg); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, sc := range scenario.All() {
			fmt.Fprintf(out, "%s\n    %s\n", color.CyanString(sc.Name), sc.Summary)
		}
		return nil
	},
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sptr/internal/snapshot"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove all saved run snapshots",
	Long:  "Remove the snapshot store under the user cache directory.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	store, err := snapshot.Open(appName)
	if err != nil {
		return err
	}
	if err := store.DropAll(); err != nil {
		return fmt.Errorf("failed to drop snapshots: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "snapshot store cleared")
	return nil
}

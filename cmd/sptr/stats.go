package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sptr/internal/snapshot"
)

var statsCmd = &cobra.Command{
	Use:   "stats [name]",
	Short: "Show a saved run report",
	Long:  `Show the saved report for the named snapshot, or the most recent one when no name is given`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Bool("list", false, "list saved snapshot names instead")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyColorMode(cfg); err != nil {
		return err
	}

	store, err := snapshot.Open(appName)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list"); list {
		names, err := store.List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(out, "no saved snapshots")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		latest, ok, err := store.Latest()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no saved snapshots, run with --save first")
		}
		name = latest
	}

	var payload snapshot.Payload
	ok, err := store.Get(name, &payload)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no snapshot named %q", name)
	}
	printPayload(out, name, &payload)
	return nil
}

func printPayload(out io.Writer, name string, payload *snapshot.Payload) {
	p := message.NewPrinter(language.English)
	p.Fprintf(out, "%s: %s, %d iterations x %d workers, saved %s\n",
		name, payload.Scenario, payload.Iterations, payload.Parallel,
		payload.SavedAt.Format("2006-01-02 15:04:05"))
	s := payload.Stats
	p.Fprintf(out, "  allocs %d  frees %d  peak live %d\n", s.Allocs, s.Frees, s.MaxLive)
	p.Fprintf(out, "  retains %d  releases %d  moves %d\n", s.Retains, s.Releases, s.Moves)
	fmt.Fprintf(out, "  total %.1f ms\n", payload.Timing.TotalMS)
	for _, leak := range payload.Leaks {
		fmt.Fprintf(out, "  leak: %s\n", leak)
	}
	for _, v := range payload.Violations {
		fmt.Fprintf(out, "  violation: %s\n", v)
	}
}

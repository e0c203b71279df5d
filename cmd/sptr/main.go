package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sptr/internal/version"
)

const appName = "sptr"

var rootCmd = &cobra.Command{
	Use:   "sptr",
	Short: "Ownership workload runner and lifetime auditor",
	Long:  `sptr drives exclusive and shared ownership handles through scripted workloads and audits every object lifetime`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cleanCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "trace output path (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "", "trace level (off|error|step|op|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "", "trace mode (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 0, "trace ring buffer size")
	rootCmd.PersistentFlags().String("trace-heartbeat", "", "trace heartbeat interval (e.g. 500ms, empty disables)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

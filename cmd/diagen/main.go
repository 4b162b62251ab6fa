package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"diagen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "diagen",
	Short: "Validate, correct and render diagram candidates",
	Long:  `diagen checks model-drafted diagram sources, repairs component names and renders the accepted ones`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of findings to collect (0 uses the configured limit)")
	rootCmd.PersistentFlags().String("config", "", "path to diagen.toml (default: discover in current directory)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

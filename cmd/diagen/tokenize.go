package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diagen/internal/diagfmt"
	"diagen/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.dg",
	Short: "Tokenize a diagram source file",
	Long:  `Tokenize breaks down a diagram source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics(cmd, cfg))
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Findings follow the requested format so json output stays
	// machine-readable on both streams.
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		switch format {
		case "json":
			err := diagfmt.JSON(os.Stderr, result.Bag, result.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
			})
			if err != nil {
				return err
			}
		default:
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
				Color:     useColor(cmd, os.Stderr),
				ShowNotes: true,
			})
		}
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

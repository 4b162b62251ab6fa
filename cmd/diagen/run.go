package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diagen/internal/logging"
	"diagen/internal/pipeline"
	"diagen/internal/render"
	"diagen/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] draft1.dg [draft2.dg ...]",
	Short: "Drive the retry pipeline over a series of drafts",
	Long: `Run feeds pre-drafted candidates through the full pipeline in order,
one file per attempt, until one validates, executes and renders or the
attempt budget runs out. This is the scripted stand-in for a live
drafting collaborator.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	runCmd.Flags().StringSlice("format", nil, "output formats (dot|png|svg|pdf), default from config")
	runCmd.Flags().String("out", "", "artifact directory, default from config")
	runCmd.Flags().String("name", "", "request description shown in the UI")
	runCmd.Flags().Int("attempts", 0, "attempt budget override (0 uses the configured limit)")
}

// fileSeriesGenerator hands out pre-drafted candidates in order. It
// ignores feedback: the next draft was written ahead of time.
type fileSeriesGenerator struct {
	paths []string
	next  int
}

func (g *fileSeriesGenerator) Generate(ctx context.Context, req pipeline.Request, fb *pipeline.Feedback) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.next >= len(g.paths) {
		return nil, fmt.Errorf("draft series exhausted after %d candidates", g.next)
	}
	src, err := os.ReadFile(g.paths[g.next])
	g.next++
	return src, err
}

func runPipeline(cmd *cobra.Command, args []string) error {
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	formatNames, _ := cmd.Flags().GetStringSlice("format")
	if len(formatNames) == 0 {
		formatNames = cfg.Render.Formats
	}
	formats := make([]render.Format, 0, len(formatNames))
	for _, name := range formatNames {
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = cfg.Render.OutDir
	}
	store, err := storage.NewFileStore(outDir)
	if err != nil {
		return err
	}

	attempts, _ := cmd.Flags().GetInt("attempts")
	if attempts <= 0 {
		attempts = cfg.Limits.MaxAttempts
	}
	if attempts > len(args) {
		attempts = len(args)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = args[0]
	}

	coord := &pipeline.Coordinator{
		Generator: &fileSeriesGenerator{paths: args},
		Registry:  reg,
		Limits: pipeline.Limits{
			MaxComponents:    cfg.Limits.MaxComponents,
			MaxRelationships: cfg.Limits.MaxRelationships,
			CountClusters:    cfg.Limits.CountClusters,
			MaxAttempts:      attempts,
			ExecTimeout:      cfg.Limits.ExecTimeout(),
			MaxDiagnostics:   maxDiagnostics(cmd, cfg),
		},
		Renderer: &render.Renderer{Engine: cfg.Render.Engine},
		Store:    store,
	}
	if quiet {
		coord.Log = logging.Nop()
	} else {
		coord.Log = logging.New()
	}

	req := pipeline.Request{Description: name, Formats: formats}

	var result pipeline.Result
	if shouldUseTUI(mode) {
		result, err = runWithUI(cmd.Context(), name, attempts, coord, req)
	} else {
		coord.Sink = pipeline.NopSink{}
		result, err = coord.Run(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	printResult(os.Stdout, result, quiet)
	if !result.Succeeded {
		return fmt.Errorf("pipeline failed after %d attempt(s)", len(result.Attempts))
	}
	return nil
}

func printResult(out *os.File, result pipeline.Result, quiet bool) {
	for _, att := range result.Attempts {
		if !quiet {
			fmt.Fprintf(out, "attempt %d: %s\n", att.Index, att.State)
		}
		if att.State == pipeline.StateSucceeded {
			continue
		}
		for _, e := range att.Report.Entries {
			if e.Line > 0 {
				fmt.Fprintf(out, "  %s:%d:%d %s %s: %s\n", e.Severity, e.Line, e.Col, e.Code, e.Category, e.Message)
				continue
			}
			fmt.Fprintf(out, "  %s %s %s: %s\n", e.Severity, e.Code, e.Category, e.Message)
		}
	}
	if result.Succeeded {
		last := result.Attempts[len(result.Attempts)-1]
		fmt.Fprintf(out, "succeeded on attempt %d with %d artifact(s)\n", last.Index, len(last.Artifacts))
	}
}

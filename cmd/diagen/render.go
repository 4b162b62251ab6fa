package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diagen/internal/diag"
	"diagen/internal/diagfmt"
	"diagen/internal/driver"
	"diagen/internal/observ"
	"diagen/internal/render"
	"diagen/internal/sandbox"
	"diagen/internal/storage"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] file.dg",
	Short: "Execute a checked candidate and render its diagrams",
	Long: `Render checks a candidate, corrects component names, executes it in
the sandbox and writes one artifact per requested format.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringSlice("format", nil, "output formats (dot|png|svg|pdf), default from config")
	renderCmd.Flags().String("out", "", "artifact directory, default from config")
	renderCmd.Flags().String("engine", "", "layout engine binary, default from config")
}

func runRender(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")

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
	engine, _ := cmd.Flags().GetString("engine")
	if engine == "" {
		engine = cfg.Render.Engine
	}

	timer := observ.NewTimer()

	phase := timer.Begin("check")
	res, err := driver.Check(filePath, checkOptions(cmd, cfg, reg, true))
	timer.End(phase, filePath)
	if err != nil {
		return err
	}
	if res.Bag.HasErrors() || res.Bag.HasWarnings() {
		res.Bag.Sort()
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
	if res.Bag.HasErrors() {
		return fmt.Errorf("candidate rejected")
	}

	scratch, err := sandbox.NewScratch()
	if err != nil {
		return err
	}
	defer scratch.Release()

	execBag := diag.NewBag(maxDiagnostics(cmd, cfg))
	rep := diag.BagReporter{Bag: execBag}

	execCtx, cancel := context.WithTimeout(cmd.Context(), cfg.Limits.ExecTimeout())
	phase = timer.Begin("execute")
	diagrams, err := sandbox.Execute(execCtx, res.File, reg, rep)
	cancel()
	timer.End(phase, fmt.Sprintf("%d diagrams", len(diagrams)))
	if err != nil {
		execBag.Sort()
		diagfmt.Pretty(os.Stderr, execBag, res.FileSet, diagfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
		return fmt.Errorf("execution failed: %w", err)
	}

	store, err := storage.NewFileStore(outDir)
	if err != nil {
		return err
	}
	renderer := render.Renderer{Engine: engine, Dir: scratch.Dir}

	phase = timer.Begin("render")
	var stored int
	for _, g := range diagrams {
		for _, art := range renderer.Render(cmd.Context(), g, formats, rep) {
			entry, err := store.Put(art)
			if err != nil {
				return err
			}
			stored++
			if !quiet {
				fmt.Fprintf(os.Stdout, "%s\n", entry.File)
			}
		}
	}
	timer.End(phase, fmt.Sprintf("%d artifacts", stored))

	if execBag.Len() > 0 {
		execBag.Sort()
		diagfmt.Pretty(os.Stderr, execBag, res.FileSet, diagfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
	}
	if timings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if stored == 0 {
		return fmt.Errorf("no artifacts produced")
	}
	return nil
}

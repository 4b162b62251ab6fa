// Package driver hosts the CLI-facing entry points: tokenize a
// candidate, run the front half of the pipeline over a file or a
// directory. Execution and rendering stay with the pipeline coordinator;
// the driver never runs a candidate.
package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"diagen/internal/ast"
	"diagen/internal/correct"
	"diagen/internal/diag"
	"diagen/internal/lexer"
	"diagen/internal/parser"
	"diagen/internal/registry"
	"diagen/internal/scan"
	"diagen/internal/source"
	"diagen/internal/validate"
)

// Options configures a check run.
type Options struct {
	Registry       *registry.Registry
	Limits         validate.Limits
	MaxDiagnostics int
	// Correct applies name correction after a clean scan.
	Correct bool
}

func (o *Options) registry() *registry.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return registry.Default()
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return 64
}

// CheckResult is the outcome of checking one candidate: parse through
// scan, plus corrections when requested and the candidate was clean.
type CheckResult struct {
	Path        string
	FileSet     *source.FileSet
	FileID      source.FileID
	File        *ast.File
	Bag         *diag.Bag
	Counts      validate.Report
	Corrections []correct.Correction
	// CorrectedSource is the printed corrected candidate, empty unless
	// corrections ran.
	CorrectedSource []byte
}

// Check loads and checks one candidate file.
func Check(path string, opts Options) (*CheckResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return checkFile(fs, id, path, opts), nil
}

// CheckBytes checks in-memory candidate text.
func CheckBytes(name string, src []byte, opts Options) *CheckResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return checkFile(fs, id, name, opts)
}

func checkFile(fs *source.FileSet, id source.FileID, path string, opts Options) *CheckResult {
	bag := diag.NewBag(opts.maxDiagnostics())
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	parsed := parser.ParseFile(fs, lx, parser.Options{Reporter: rep})

	res := &CheckResult{
		Path:    path,
		FileSet: fs,
		FileID:  id,
		File:    parsed.File,
		Bag:     bag,
	}
	if bag.HasErrors() {
		return res
	}
	res.Counts = validate.Check(parsed.File, opts.Limits, rep)
	if bag.HasErrors() {
		return res
	}
	scan.Check(parsed.File, opts.registry(), rep)
	if bag.HasErrors() {
		return res
	}
	if opts.Correct {
		res.Corrections = correct.Apply(parsed.File, opts.registry(), rep)
		res.CorrectedSource = correct.Print(parsed.File)
	}
	return res
}

// CheckDir checks every .dg file under dir in parallel. Results come
// back sorted by path so output is deterministic regardless of
// scheduling.
func CheckDir(ctx context.Context, dir string, jobs int, opts Options) ([]*CheckResult, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".dg" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, nil
	}

	if jobs < 1 {
		jobs = runtime.NumCPU()
	}
	results := make([]*CheckResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Check(path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package pipeline coordinates the full attempt chain: draft a
// candidate, validate and scan it, correct unknown names, execute the
// corrected tree in the sandbox, and render artifacts. Failures are
// packaged as structured feedback for the generator and the whole cycle
// repeats until success or attempt exhaustion. The coordinator holds no
// state between Run calls, so independent requests may run concurrently
// against the same read-only registry.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"diagen/internal/correct"
	"diagen/internal/diag"
	"diagen/internal/lexer"
	"diagen/internal/logging"
	"diagen/internal/parser"
	"diagen/internal/registry"
	"diagen/internal/render"
	"diagen/internal/sandbox"
	"diagen/internal/scan"
	"diagen/internal/source"
	"diagen/internal/storage"
	"diagen/internal/validate"
)

// Request identifies one diagram the caller wants produced.
type Request struct {
	// Description is the natural-language intent handed to the generator.
	Description string
	Formats     []render.Format
}

// Feedback packages the findings of a failed attempt for the generator.
type Feedback struct {
	Attempt int
	Entries []Entry
}

// Generator is the external drafting collaborator. It returns candidate
// source text; fb is nil on the first attempt.
type Generator interface {
	Generate(ctx context.Context, req Request, fb *Feedback) ([]byte, error)
}

// Attempt is one validate-correct-execute-render cycle.
type Attempt struct {
	Index      int
	State      State
	Trace      []State
	SourceHash string
	Excerpt    string
	Report     Report
	Artifacts  []render.Artifact
}

// Result is the outcome of one request: the ordered attempt chain and
// whether it ended in success.
type Result struct {
	Succeeded bool
	Attempts  []Attempt
}

// Limits is the subset of configuration the coordinator needs.
type Limits struct {
	MaxComponents    int
	MaxRelationships int
	CountClusters    bool
	MaxAttempts      int
	ExecTimeout      time.Duration
	MaxDiagnostics   int
}

// Coordinator drives the retry state machine for one request at a time.
type Coordinator struct {
	Generator Generator
	Registry  *registry.Registry
	Limits    Limits
	Renderer  *render.Renderer
	// Store receives artifacts on success; nil skips persistence.
	Store storage.Store
	// Sink receives progress events; nil discards them.
	Sink ProgressSink
	Log  *slog.Logger
}

// Run executes the attempt chain for req. The error is non-nil only for
// infrastructure failures (cancelled context, broken generator); a
// candidate that never validates is a clean Result with Succeeded false.
func (c *Coordinator) Run(ctx context.Context, req Request) (Result, error) {
	if c.Generator == nil {
		return Result{}, fmt.Errorf("pipeline: no generator configured")
	}
	log := c.Log
	if log == nil {
		log = logging.Nop()
	}
	maxAttempts := c.Limits.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var result Result
	var fb *Feedback
	for i := 1; i <= maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		last := i == maxAttempts
		att, err := c.attempt(ctx, req, i, fb, last, log)
		result.Attempts = append(result.Attempts, att)
		if err != nil {
			return result, err
		}
		if att.State == StateSucceeded {
			result.Succeeded = true
			return result, nil
		}
		if att.State == StateFailedTerminal {
			return result, nil
		}
		fb = &Feedback{Attempt: i, Entries: att.Report.Entries}
		log.Info("attempt failed, redrafting",
			slog.Int("attempt", i),
			slog.Int("findings", len(att.Report.Entries)))
	}
	return result, nil
}

func (c *Coordinator) attempt(ctx context.Context, req Request, idx int, fb *Feedback, last bool, log *slog.Logger) (att Attempt, err error) {
	m := newMachine()
	att = Attempt{Index: idx, State: StateDrafting}
	defer func() {
		att.State = m.state
		att.Trace = m.trace
	}()

	fail := func(stage Stage, err error) {
		if last {
			m.to(StateFailedTerminal)
		} else {
			m.to(StateFailedRetryable)
		}
		c.emit(idx, stage, StatusError, err, 0)
	}

	// Drafting.
	start := time.Now()
	c.emit(idx, StageDraft, StatusWorking, nil, 0)
	src, err := c.Generator.Generate(ctx, req, fb)
	if err != nil {
		m.to(StateFailedTerminal)
		c.emit(idx, StageDraft, StatusError, err, time.Since(start))
		return att, fmt.Errorf("pipeline: generator: %w", err)
	}
	att.SourceHash = SourceHash(src)
	att.Excerpt = excerpt(src)
	c.emit(idx, StageDraft, StatusDone, nil, time.Since(start))

	// Validating: parse, structure, size, security.
	m.to(StateValidating)
	start = time.Now()
	c.emit(idx, StageValidate, StatusWorking, nil, 0)

	fs := source.NewFileSet()
	id := fs.AddVirtual(fmt.Sprintf("attempt-%d.dg", idx), src)
	bag := diag.NewBag(c.maxDiagnostics())
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	parsed := parser.ParseFile(fs, lx, parser.Options{Reporter: rep})

	counts := validate.Report{}
	if !bag.HasErrors() {
		counts = validate.Check(parsed.File, validate.Limits{
			MaxComponents:    c.Limits.MaxComponents,
			MaxRelationships: c.Limits.MaxRelationships,
			CountClusters:    c.Limits.CountClusters,
		}, rep)
	}
	if !bag.HasErrors() {
		scan.Check(parsed.File, c.Registry, rep)
	}
	if bag.HasErrors() {
		att.Report = NewReport(fs, bag, counts, nil, att.SourceHash)
		fail(StageValidate, fmt.Errorf("candidate rejected"))
		return att, nil
	}
	c.emit(idx, StageValidate, StatusDone, nil, time.Since(start))

	// Correcting. The corrector cannot reject.
	m.to(StateCorrecting)
	start = time.Now()
	c.emit(idx, StageCorrect, StatusWorking, nil, 0)
	corrections := correct.Apply(parsed.File, c.Registry, rep)
	att.Report = NewReport(fs, bag, counts, corrections, att.SourceHash)
	att.Report.CorrectedSource = string(correct.Print(parsed.File))
	c.emit(idx, StageCorrect, StatusDone, nil, time.Since(start))

	// Executing under the wall-clock deadline.
	m.to(StateExecuting)
	start = time.Now()
	c.emit(idx, StageExecute, StatusWorking, nil, 0)

	scratch, err := sandbox.NewScratch()
	if err != nil {
		m.to(StateFailedTerminal)
		c.emit(idx, StageExecute, StatusError, err, time.Since(start))
		return att, fmt.Errorf("pipeline: %w", err)
	}
	defer scratch.Release()

	execCtx := ctx
	if c.Limits.ExecTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, c.Limits.ExecTimeout)
		defer cancel()
	}
	diagrams, err := sandbox.Execute(execCtx, parsed.File, c.Registry, rep)
	if err != nil {
		att.Report = NewReport(fs, bag, counts, corrections, att.SourceHash)
		att.Report.CorrectedSource = string(correct.Print(parsed.File))
		if ctx.Err() != nil {
			m.to(StateFailedTerminal)
			c.emit(idx, StageExecute, StatusError, err, time.Since(start))
			return att, ctx.Err()
		}
		fail(StageExecute, err)
		return att, nil
	}
	c.emit(idx, StageExecute, StatusDone, nil, time.Since(start))

	// Rendering: at least one artifact means success.
	m.to(StateRendering)
	start = time.Now()
	c.emit(idx, StageRender, StatusWorking, nil, 0)

	// Copy the renderer so concurrent requests never share a scratch dir.
	var renderer render.Renderer
	if c.Renderer != nil {
		renderer = *c.Renderer
	}
	renderer.Dir = scratch.Dir
	formats := req.Formats
	if len(formats) == 0 {
		formats = []render.Format{render.FormatDot}
	}
	for _, g := range diagrams {
		att.Artifacts = append(att.Artifacts, renderer.Render(ctx, g, formats, rep)...)
	}

	att.Report = NewReport(fs, bag, counts, corrections, att.SourceHash)
	att.Report.CorrectedSource = string(correct.Print(parsed.File))
	if len(att.Artifacts) == 0 {
		fail(StageRender, fmt.Errorf("no artifact produced"))
		return att, nil
	}
	if c.Store != nil {
		for _, a := range att.Artifacts {
			if _, err := c.Store.Put(a); err != nil {
				log.Warn("storing artifact failed",
					slog.String("diagram", a.Diagram),
					slog.String("format", string(a.Format)),
					slog.Any("error", err))
			}
		}
	}
	m.to(StateSucceeded)
	c.emit(idx, StageRender, StatusDone, nil, time.Since(start))
	return att, nil
}

func (c *Coordinator) maxDiagnostics() int {
	if c.Limits.MaxDiagnostics > 0 {
		return c.Limits.MaxDiagnostics
	}
	return 64
}

func (c *Coordinator) emit(attempt int, stage Stage, status Status, err error, elapsed time.Duration) {
	if c.Sink == nil {
		return
	}
	c.Sink.OnEvent(Event{
		Attempt: attempt,
		Stage:   stage,
		Status:  status,
		Err:     err,
		Elapsed: elapsed,
	})
}

// excerpt keeps the first lines of a candidate for the attempt history.
func excerpt(src []byte) string {
	const maxLines = 5
	lines := strings.SplitN(string(src), "\n", maxLines+1)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		return strings.Join(lines, "\n") + "\n..."
	}
	return strings.Join(lines, "\n")
}

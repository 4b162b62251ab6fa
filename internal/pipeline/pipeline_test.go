package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"diagen/internal/registry"
	"diagen/internal/render"
)

const goodSource = `
use aws

diagram "Shop" [direction: "LR"] {
    api = APIGateway("API")
    fn = Lambda("Handler")
    api >> fn
}
`

const badSyntaxSource = `diagram "Broken" {`

const forbiddenSource = `
diagram "Evil" {
    x = exec("whoami")
}
`

// scriptGen replays a fixed list of candidates and records the feedback
// it was handed. The last candidate repeats once the list runs out.
type scriptGen struct {
	sources  []string
	calls    int
	feedback []*Feedback
}

func (g *scriptGen) Generate(_ context.Context, _ Request, fb *Feedback) ([]byte, error) {
	g.feedback = append(g.feedback, fb)
	i := g.calls
	g.calls++
	if i >= len(g.sources) {
		i = len(g.sources) - 1
	}
	return []byte(g.sources[i]), nil
}

type failingGen struct{}

func (failingGen) Generate(context.Context, Request, *Feedback) ([]byte, error) {
	return nil, errors.New("model unavailable")
}

func coordinator(gen Generator) *Coordinator {
	return &Coordinator{
		Generator: gen,
		Registry:  registry.Default(),
		Limits: Limits{
			MaxComponents:    100,
			MaxRelationships: 200,
			MaxAttempts:      3,
			ExecTimeout:      5 * time.Second,
		},
	}
}

func TestRun_SucceedsFirstAttempt(t *testing.T) {
	gen := &scriptGen{sources: []string{goodSource}}
	res, err := coordinator(gen).Run(context.Background(), Request{Formats: []render.Format{render.FormatDot}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Succeeded || len(res.Attempts) != 1 {
		t.Fatalf("result = %+v", res)
	}

	att := res.Attempts[0]
	if att.State != StateSucceeded {
		t.Errorf("state = %v", att.State)
	}
	wantTrace := []State{StateDrafting, StateValidating, StateCorrecting, StateExecuting, StateRendering, StateSucceeded}
	if diff := cmp.Diff(wantTrace, att.Trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
	if len(att.Artifacts) != 1 || att.Artifacts[0].Format != render.FormatDot {
		t.Errorf("artifacts = %+v", att.Artifacts)
	}
	if !att.Report.Accepted || att.Report.Components != 2 || att.Report.Relationships != 1 {
		t.Errorf("report = %+v", att.Report)
	}
	if gen.feedback[0] != nil {
		t.Error("first attempt must get nil feedback")
	}
}

func TestRun_ExhaustsBudgetOnPersistentSyntaxError(t *testing.T) {
	gen := &scriptGen{sources: []string{badSyntaxSource}}
	res, err := coordinator(gen).Run(context.Background(), Request{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Succeeded {
		t.Fatal("must not succeed")
	}
	if len(res.Attempts) != 3 {
		t.Fatalf("attempts = %d, want exactly 3", len(res.Attempts))
	}
	for i, att := range res.Attempts[:2] {
		if att.State != StateFailedRetryable {
			t.Errorf("attempt %d state = %v", i+1, att.State)
		}
	}
	if last := res.Attempts[2]; last.State != StateFailedTerminal {
		t.Errorf("last state = %v", last.State)
	}
	// Attempts two and three got the previous findings as feedback.
	for i := 1; i < 3; i++ {
		fb := gen.feedback[i]
		if fb == nil || len(fb.Entries) == 0 || fb.Attempt != i {
			t.Errorf("feedback[%d] = %+v", i, fb)
		}
	}
}

func TestRun_RecoversOnSecondAttempt(t *testing.T) {
	gen := &scriptGen{sources: []string{badSyntaxSource, goodSource}}
	res, err := coordinator(gen).Run(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Succeeded || len(res.Attempts) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Attempts[0].State != StateFailedRetryable || res.Attempts[1].State != StateSucceeded {
		t.Errorf("states = %v, %v", res.Attempts[0].State, res.Attempts[1].State)
	}
	if res.Attempts[0].SourceHash == res.Attempts[1].SourceHash {
		t.Error("attempts must record distinct candidate hashes")
	}
}

func TestRun_ForbiddenConstructNeverExecutes(t *testing.T) {
	gen := &scriptGen{sources: []string{forbiddenSource}}
	res, err := coordinator(gen).Run(context.Background(), Request{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Succeeded {
		t.Fatal("must not succeed")
	}
	att := res.Attempts[0]
	for _, s := range att.Trace {
		if s == StateExecuting {
			t.Fatal("rejected candidate reached the sandbox")
		}
	}
	found := false
	for _, e := range att.Report.Entries {
		if e.Category == "forbidden-construct" {
			found = true
			if e.Line == 0 || e.Excerpt == "" {
				t.Errorf("entry lacks position context: %+v", e)
			}
		}
	}
	if !found {
		t.Errorf("no forbidden-construct entry in %+v", att.Report.Entries)
	}
}

func TestRun_GeneratorErrorIsTerminal(t *testing.T) {
	res, err := coordinator(failingGen{}).Run(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(res.Attempts) != 1 || res.Attempts[0].State != StateFailedTerminal {
		t.Errorf("attempts = %+v", res.Attempts)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &scriptGen{sources: []string{goodSource}}
	_, err := coordinator(gen).Run(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v", err)
	}
}

func TestRun_EmitsProgressEvents(t *testing.T) {
	ch := make(chan Event, 64)
	c := coordinator(&scriptGen{sources: []string{goodSource}})
	c.Sink = ChannelSink{Ch: ch}
	if _, err := c.Run(context.Background(), Request{}); err != nil {
		t.Fatal(err)
	}
	close(ch)

	var stages []string
	for evt := range ch {
		if evt.Status == StatusDone {
			stages = append(stages, string(evt.Stage))
		}
	}
	want := []string{"draft", "validate", "correct", "execute", "render"}
	if diff := cmp.Diff(want, stages); diff != "" {
		t.Errorf("done events (-want +got):\n%s", diff)
	}
}

func TestRun_ReportDeterministic(t *testing.T) {
	run := func() Report {
		gen := &scriptGen{sources: []string{forbiddenSource}}
		res, err := coordinator(gen).Run(context.Background(), Request{})
		if err != nil {
			t.Fatal(err)
		}
		return res.Attempts[0].Report
	}
	if diff := cmp.Diff(run(), run()); diff != "" {
		t.Errorf("reports differ (-a +b):\n%s", diff)
	}
}

func TestTransitionTable(t *testing.T) {
	allowed := []struct{ from, to State }{
		{StateDrafting, StateValidating},
		{StateValidating, StateCorrecting},
		{StateValidating, StateFailedRetryable},
		{StateValidating, StateFailedTerminal},
		{StateCorrecting, StateExecuting},
		{StateExecuting, StateRendering},
		{StateExecuting, StateFailedRetryable},
		{StateExecuting, StateFailedTerminal},
		{StateRendering, StateSucceeded},
		{StateRendering, StateFailedRetryable},
		{StateRendering, StateFailedTerminal},
	}
	for _, tr := range allowed {
		if !legal(tr.from, tr.to) {
			t.Errorf("%v -> %v should be legal", tr.from, tr.to)
		}
	}
	forbidden := []struct{ from, to State }{
		{StateDrafting, StateExecuting},
		{StateValidating, StateExecuting},
		{StateCorrecting, StateFailedRetryable},
		{StateSucceeded, StateDrafting},
		{StateFailedTerminal, StateDrafting},
		{StateRendering, StateValidating},
	}
	for _, tr := range forbidden {
		if legal(tr.from, tr.to) {
			t.Errorf("%v -> %v should be illegal", tr.from, tr.to)
		}
	}
}

func TestExcerpt(t *testing.T) {
	short := "a\nb"
	if got := excerpt([]byte(short)); got != short {
		t.Errorf("excerpt = %q", got)
	}
	long := strings.Repeat("line\n", 10)
	if got := excerpt([]byte(long)); !strings.HasSuffix(got, "...") {
		t.Errorf("long excerpt = %q", got)
	}
}

package pipeline

import "time"

// Stage describes one phase of an attempt.
type Stage string

const (
	// StageDraft is candidate generation.
	StageDraft Stage = "draft"
	// StageValidate covers parsing, structural checks and scanning.
	StageValidate Stage = "validate"
	// StageCorrect is name correction.
	StageCorrect Stage = "correct"
	// StageExecute is the sandboxed run.
	StageExecute Stage = "execute"
	// StageRender is artifact production.
	StageRender Stage = "render"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the stage is in progress.
	StatusWorking Status = "working"
	// StatusDone indicates the stage completed.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports per-attempt progress.
type Event struct {
	Attempt int
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}

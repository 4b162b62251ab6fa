package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"diagen/internal/pipeline"
	"diagen/internal/ui"
)

type runOutcome struct {
	result pipeline.Result
	err    error
}

// runWithUI executes the coordinator in the background while a
// bubbletea program consumes the progress events.
func runWithUI(ctx context.Context, title string, maxAttempts int, coord *pipeline.Coordinator, req pipeline.Request) (pipeline.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		coord.Sink = pipeline.ChannelSink{Ch: events}
		res, err := coord.Run(ctx, req)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, maxAttempts, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

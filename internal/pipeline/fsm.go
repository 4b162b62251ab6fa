package pipeline

import "fmt"

// State is one coordinator state. An attempt moves strictly forward
// through the working states and ends in exactly one terminal state.
type State uint8

const (
	// StateDrafting is waiting on the generator for a candidate.
	StateDrafting State = iota
	// StateValidating covers parse, structural checks and the scanner.
	StateValidating
	// StateCorrecting rewrites unknown names.
	StateCorrecting
	// StateExecuting is the sandboxed run.
	StateExecuting
	// StateRendering produces artifacts.
	StateRendering
	// StateSucceeded ends an attempt with at least one artifact.
	StateSucceeded
	// StateFailedRetryable ends an attempt that may be redrafted.
	StateFailedRetryable
	// StateFailedTerminal ends the whole chain.
	StateFailedTerminal
)

func (s State) String() string {
	switch s {
	case StateDrafting:
		return "drafting"
	case StateValidating:
		return "validating"
	case StateCorrecting:
		return "correcting"
	case StateExecuting:
		return "executing"
	case StateRendering:
		return "rendering"
	case StateSucceeded:
		return "succeeded"
	case StateFailedRetryable:
		return "failed-retryable"
	case StateFailedTerminal:
		return "failed-terminal"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Final reports whether the state ends an attempt.
func (s State) Final() bool {
	return s == StateSucceeded || s == StateFailedRetryable || s == StateFailedTerminal
}

// transitions is the full legal edge set.
var transitions = map[State][]State{
	StateDrafting:   {StateValidating, StateFailedTerminal},
	StateValidating: {StateCorrecting, StateFailedRetryable, StateFailedTerminal},
	StateCorrecting: {StateExecuting},
	StateExecuting:  {StateRendering, StateFailedRetryable, StateFailedTerminal},
	StateRendering:  {StateSucceeded, StateFailedRetryable, StateFailedTerminal},
}

func legal(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// machine tracks one attempt through the state graph and records the
// trace for the attempt history.
type machine struct {
	state State
	trace []State
}

func newMachine() *machine {
	return &machine{state: StateDrafting, trace: []State{StateDrafting}}
}

// to moves the machine. An illegal move is a coordinator bug, not an
// input condition, so it panics.
func (m *machine) to(next State) {
	if !legal(m.state, next) {
		panic(fmt.Sprintf("pipeline: illegal transition %v -> %v", m.state, next))
	}
	m.state = next
	m.trace = append(m.trace, next)
}

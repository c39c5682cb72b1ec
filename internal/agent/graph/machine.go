package graph

import (
	"github.com/cloudwego/eino/schema"
)

// State is a phase of the turn state machine.
type State int

const (
	// StateReasoning asks the completion provider for the next message.
	StateReasoning State = iota
	// StateActing executes the tool invocations of the last assistant message.
	StateActing
	// StateTerminal ends the turn; the last assistant message is the reply.
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateReasoning:
		return "reasoning"
	case StateActing:
		return "acting"
	case StateTerminal:
		return "terminal"
	}
	return "unknown"
}

// Transition returns the state that follows state given the message it produced.
func Transition(state State, last *schema.Message) State {
	switch state {
	case StateReasoning:
		if last != nil && last.Role == schema.Assistant && len(last.ToolCalls) > 0 {
			return StateActing
		}
		return StateTerminal
	case StateActing:
		return StateReasoning
	}
	return StateTerminal
}

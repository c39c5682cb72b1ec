package model

import (
	"github.com/cloudwego/eino/schema"
)

// TurnState is the per-turn state driven by the orchestration state machine.
// It is owned by a single goroutine for the lifetime of one turn.
type TurnState struct {
	ConversationID string
	Messages       []*schema.Message
	// Steps counts reasoning invocations performed in this turn.
	Steps int

	// Accumulated total LLM cost (USD) across model invocations for this turn
	TotalCostUSD float64
}

// Last returns the most recently appended message, or nil.
func (s *TurnState) Last() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// QueryInput represents the input for processing user queries.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

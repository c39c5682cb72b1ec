package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type ConversationRepository interface {
	// AppendMessages appends messages to the thread in order, as a single write.
	AppendMessages(ctx context.Context, conversationID string, messages ...*schema.Message) error

	// LoadHistory retrieves the full, ordered history of a thread. Unknown threads
	// yield an empty history.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []*schema.Message
}

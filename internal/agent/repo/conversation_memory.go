package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/hr-agent-core/server/internal/agent/model"
)

// MemoryConversationRepository keeps histories in process. History is lost on
// restart; use it for local runs and tests.
type MemoryConversationRepository struct {
	mu      sync.RWMutex
	threads map[string][]*schema.Message
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{threads: map[string][]*schema.Message{}}
}

func (r *MemoryConversationRepository) AppendMessages(_ context.Context, conversationID string, messages ...*schema.Message) error {
	if len(messages) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range messages {
		cp := *m
		r.threads[conversationID] = append(r.threads[conversationID], &cp)
	}
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.threads[conversationID]
	msgs := make([]*schema.Message, 0, len(stored))
	for _, m := range stored {
		cp := *m
		msgs = append(msgs, &cp)
	}
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)

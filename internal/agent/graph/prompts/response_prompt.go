package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/hr-agent-core/server/internal/agent/graph/tools"
	"github.com/hr-agent-core/server/internal/agent/model"
)

//go:embed template/response_prompt.txt
var coreSystemPrompt string

// RenderResponseSystem renders the reasoning system prompt and triggers prompt callbacks.
func RenderResponseSystem(ctx context.Context, config model.ResponsePromptConfig, toolNames string, now time.Time) (string, error) {
	role := strings.TrimSpace(config.AssistantRole)
	if role == "" {
		role = "You are helpful HR Chatbot Agent"
	}

	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(coreSystemPrompt),
	)
	vars := map[string]any{
		"ToolNames":     toolNames,
		"LookupTool":    string(tools.KindLookup),
		"AddTool":       string(tools.KindAdd),
		"UpdateTool":    string(tools.KindUpdate),
		"AssistantRole": role,
		"Now":           now.UTC().Format(time.RFC3339),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("response prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("response prompt render: empty result")
	}
	return msgs[0].Content, nil
}

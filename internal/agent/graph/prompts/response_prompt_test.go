package prompts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hr-agent-core/server/internal/agent/model"
)

func TestRenderResponseSystem(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 30, 0, 0, time.FixedZone("ICT", 7*3600))

	out, err := RenderResponseSystem(context.Background(),
		model.ResponsePromptConfig{AssistantRole: "You are the Acme HR desk"},
		"Employee_Lookup, Employee_Adding, Employee_Update", now)

	require.NoError(t, err)
	assert.Contains(t, out, "You have access to the following tools: Employee_Lookup, Employee_Adding, Employee_Update.")
	assert.Contains(t, out, "You are the Acme HR desk")
	assert.Contains(t, out, "Current time: 2024-03-09T07:30:00Z.")
	assert.NotContains(t, out, "{{")
}

func TestRenderResponseSystem_DefaultRole(t *testing.T) {
	out, err := RenderResponseSystem(context.Background(), model.ResponsePromptConfig{}, "Employee_Lookup", time.Unix(0, 0))

	require.NoError(t, err)
	assert.Contains(t, out, "You are helpful HR Chatbot Agent")
}

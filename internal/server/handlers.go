package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-agent-core/server/internal/agent/graph/observers"
	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

type handler struct {
	agent         Agent
	employees     EmployeeLister
	metrics       *observers.Metrics
	defaultThread string
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	ThreadID string `json:"threadId"`
	Response string `json:"response"`
}

// chat runs one turn.
// POST /chat and POST /chat/:threadId
func (h *handler) chat(c *fiber.Ctx) error {
	threadID := c.Params("threadId", h.defaultThread)

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message is required"})
	}

	start := time.Now()
	answer, err := h.agent.Invoke(c.UserContext(), model.QueryInput{
		ConversationID: threadID,
		Query:          req.Message,
	})
	h.observeTurn(start, err)
	if err != nil {
		logx.Error().Err(err).
			Str("thread_id", threadID).
			Str("kind", string(errx.KindOf(err))).
			Msg("Chat turn failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": errx.SystemErrorMessage})
	}

	return c.JSON(chatResponse{ThreadID: threadID, Response: answer})
}

type historyMessage struct {
	Role       string   `json:"role"`
	Content    string   `json:"content"`
	ToolCallID string   `json:"toolCallId,omitempty"`
	ToolCalls  []string `json:"toolCalls,omitempty"`
}

// messages returns the persisted history of a thread.
// GET /chat/:threadId/messages
func (h *handler) messages(c *fiber.Ctx) error {
	threadID := c.Params("threadId")
	history, err := h.agent.History(c.UserContext(), threadID)
	if err != nil {
		logx.Error().Err(err).Str("thread_id", threadID).Msg("Failed to load history")
		return c.Status(errx.StatusOf(err)).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}

	out := make([]historyMessage, 0, len(history))
	for _, m := range history {
		if m == nil {
			continue
		}
		hm := historyMessage{Role: string(m.Role), Content: m.Content, ToolCallID: m.ToolCallID}
		for _, tc := range m.ToolCalls {
			hm.ToolCalls = append(hm.ToolCalls, tc.Function.Name)
		}
		out = append(out, hm)
	}
	return c.JSON(fiber.Map{"threadId": threadID, "messages": out})
}

// listEmployees returns every employee record.
// GET /employees
func (h *handler) listEmployees(c *fiber.Ctx) error {
	employees, err := h.employees.List(c.UserContext())
	if err != nil {
		logx.Error().Err(err).Msg("Failed to fetch employees")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch employees"})
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	return c.JSON(employees)
}

func (h *handler) observeTurn(start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(errx.KindOf(err))
	}
	h.metrics.Turns.WithLabelValues(outcome).Inc()
	h.metrics.TurnLatency.Observe(time.Since(start).Seconds())
}

package server

import (
	"context"
	"strings"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hr-agent-core/server/internal/agent/graph/observers"
	"github.com/hr-agent-core/server/internal/agent/model"
)

// Agent runs turns and exposes thread history.
type Agent interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
	History(ctx context.Context, conversationID string) ([]*schema.Message, error)
}

// EmployeeLister lists the full employee directory.
type EmployeeLister interface {
	List(ctx context.Context) ([]model.Employee, error)
}

type Config struct {
	Port           string `envconfig:"PORT" default:"5000"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"https://hr-ai-agent-one.vercel.app,http://localhost:5173"`
	DefaultThread  string `envconfig:"CONVERSATION_DEFAULT_THREAD" default:"3801"`
	// MetricsService labels the HTTP metrics served at /metrics; empty disables them.
	MetricsService string `envconfig:"METRICS_SERVICE" default:"hr-agent"`
}

// Deps are the collaborators behind the HTTP routes.
type Deps struct {
	Agent     Agent
	Employees EmployeeLister
	// Metrics is optional; nil skips turn metrics.
	Metrics *observers.Metrics
}

// New builds the Fiber app with middleware and routes registered.
func New(cfg Config, deps Deps) *fiber.App {
	if cfg.DefaultThread == "" {
		cfg.DefaultThread = "3801"
	}
	app := fiber.New(fiber.Config{
		AppName:      "HR Agent Server",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	if cfg.MetricsService != "" {
		prometheus := fiberprometheus.New(cfg.MetricsService)
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.AllowedOrigins),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	h := &handler{
		agent:         deps.Agent,
		employees:     deps.Employees,
		metrics:       deps.Metrics,
		defaultThread: cfg.DefaultThread,
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("HR Agent Server")
	})
	app.Post("/chat", h.chat)
	app.Post("/chat/:threadId", h.chat)
	app.Get("/chat/:threadId/messages", h.messages)
	app.Get("/employees", h.listEmployees)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}

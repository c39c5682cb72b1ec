package tools

import (
	"context"
	"time"

	"github.com/hr-agent-core/server/internal/agent/model"
)

// EmployeeStore is the Record Store as seen by the tools.
type EmployeeStore interface {
	// FindByID returns errx.ErrNotFound when no record has the id.
	FindByID(ctx context.Context, employeeID string) (*model.Employee, error)
	Exists(ctx context.Context, employeeID string) (bool, error)
	Insert(ctx context.Context, employee *model.Employee) error
	// UpdateFields sets fields on the record keyed by employeeID in one operation.
	UpdateFields(ctx context.Context, employeeID string, fields map[string]any) error
	SimilaritySearch(ctx context.Context, vector []float32, n int) ([]model.ScoredEmployee, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Deps are the collaborators shared by all tools.
type Deps struct {
	Store    EmployeeStore
	Embedder Embedder
	// StoreTimeout bounds each store or embedding call; zero disables it.
	StoreTimeout time.Duration
	// Now and Rand3 are replaceable in tests.
	Now   func() time.Time
	Rand3 func() int
}

func (d *Deps) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.StoreTimeout)
}

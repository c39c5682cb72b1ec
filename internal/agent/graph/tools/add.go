package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hr-agent-core/server/internal/agent/graph/parsers"
	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

// maxIDAttempts bounds how many synthesized ids are tried after a collision.
const maxIDAttempts = 5

var employeeArgsSchema = parsers.MustCompile(EmployeeSchema())

// AddArgs are the arguments of Employee_Adding: a complete record.
type AddArgs struct {
	Employee model.Employee
}

type addTool struct {
	deps *Deps
}

func (t *addTool) definition() Definition {
	s := EmployeeSchema()
	return Definition{
		Name:        string(KindAdd),
		Description: "Add an employee document to the HR database. " + FormatInstructions(s),
		Parameters:  s,
	}
}

func (t *addTool) decode(raw string) (any, error) {
	m, err := parsers.DecodeObject(raw)
	if err != nil {
		return nil, err
	}
	for _, k := range protectedFields {
		if k != "employee_id" {
			delete(m, k)
		}
	}
	if err := employeeArgsSchema.Validate(m); err != nil {
		return nil, err
	}
	var e model.Employee
	if err := parsers.Bind(m, &e); err != nil {
		return nil, err
	}
	e.EmployeeID = strings.TrimSpace(e.EmployeeID)
	if e.EmployeeID == "" {
		return nil, errx.Validation("employee_id must not be blank")
	}
	return AddArgs{Employee: e}, nil
}

func (t *addTool) run(ctx context.Context, a any) Result {
	args, ok := a.(AddArgs)
	if !ok {
		return Fail("Employee_Adding: unexpected arguments %T", a)
	}
	e := args.Employee
	logx.Debug().Str("employee_id", e.EmployeeID).Msg("Employee Adding Tool called")

	if err := t.add(ctx, &e); err != nil {
		logx.Error().Err(err).Str("employee_id", e.EmployeeID).Msg("Error creating employee")
		return Fail("Error creating employee: %v", err)
	}
	return Ok(fmt.Sprintf("Successfully added employee: %s (ID %s)", e.FullName(), e.EmployeeID))
}

func (t *addTool) add(ctx context.Context, e *model.Employee) error {
	ctx, cancel := t.deps.withTimeout(ctx)
	defer cancel()

	requested := e.EmployeeID
	id, err := t.availableID(ctx, requested)
	if err != nil {
		return err
	}
	// A concurrent insert can take the id between the check and the write; the
	// store reports that as a conflict and a fresh id is tried.
	for attempt := 0; ; attempt++ {
		if id != requested {
			logx.Info().Str("requested_id", requested).Str("employee_id", id).Msg("Duplicate ID detected, using new ID")
		}
		e.EmployeeID = id
		err = t.insert(ctx, e)
		if err == nil || !errors.Is(err, errx.ErrConflict) {
			return err
		}
		if attempt >= maxIDAttempts {
			return fmt.Errorf("could not find a free employee id after %d attempts: %w", maxIDAttempts, err)
		}
		if id, err = t.freshID(ctx); err != nil {
			return err
		}
	}
}

// insert derives the summary and embedding for e's current id and stores it.
func (t *addTool) insert(ctx context.Context, e *model.Employee) error {
	e.EmbeddingText = Summarize(e)
	vector, err := t.deps.Embedder.Embed(ctx, e.EmbeddingText)
	if err != nil {
		return fmt.Errorf("embed summary: %w", err)
	}
	e.Embedding = vector
	return t.deps.Store.Insert(ctx, e)
}

// availableID returns requested when unused, otherwise a fresh id.
func (t *addTool) availableID(ctx context.Context, requested string) (string, error) {
	exists, err := t.deps.Store.Exists(ctx, requested)
	if err != nil {
		return "", fmt.Errorf("check existing employee: %w", err)
	}
	if !exists {
		return requested, nil
	}
	return t.freshID(ctx)
}

// freshID returns a synthesized id that is not in the store at the time of the check.
func (t *addTool) freshID(ctx context.Context) (string, error) {
	for range maxIDAttempts {
		candidate := synthesizeID(t.deps.Now(), t.deps.Rand3())
		exists, err := t.deps.Store.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check synthesized id: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find a free employee id after %d attempts", maxIDAttempts)
}

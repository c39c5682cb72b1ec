package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hr-agent-core/server/internal/agent/graph/parsers"
	"github.com/hr-agent-core/server/internal/agent/model"
	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

// protectedFields may never be written through an update payload.
var protectedFields = []string{"embedding", "embedding_text", "summary_change", "_id", "employee_id"}

var updateArgsSchema = parsers.MustCompile(updateSchema())

// UpdateArgs are the arguments of Employee_Update after protected fields are removed.
type UpdateArgs struct {
	EmployeeID string
	Updates    map[string]json.RawMessage
	// Stripped lists protected keys that were present and removed.
	Stripped []string
}

type updateTool struct {
	deps *Deps
}

func (t *updateTool) definition() Definition {
	s := updateSchema()
	return Definition{
		Name: string(KindUpdate),
		Description: "Update existing employee information. Extract the employee ID from the query. " +
			"Only include the top-level fields that change; nested objects such as job_details are replaced whole, so send them complete. " +
			FormatInstructions(s),
		Parameters: s,
	}
}

func (t *updateTool) decode(raw string) (any, error) {
	m, err := parsers.DecodeObject(raw)
	if err != nil {
		return nil, err
	}
	var stripped []string
	if updates, ok := m["updates"].(map[string]any); ok {
		for _, k := range protectedFields {
			if _, present := updates[k]; present {
				delete(updates, k)
				stripped = append(stripped, k)
			}
		}
		for k, v := range updates {
			if v == nil && k != "reporting_manager" {
				delete(updates, k)
			}
		}
	}
	if err := updateArgsSchema.Validate(m); err != nil {
		return nil, err
	}

	var args struct {
		EmployeeID string                     `json:"employee_id"`
		Updates    map[string]json.RawMessage `json:"updates"`
	}
	if err := parsers.Bind(m, &args); err != nil {
		return nil, err
	}
	employeeID := strings.TrimSpace(args.EmployeeID)
	if employeeID == "" {
		return nil, errx.Validation("employee_id must not be blank")
	}
	return UpdateArgs{
		EmployeeID: employeeID,
		Updates:    args.Updates,
		Stripped:   stripped,
	}, nil
}

func (t *updateTool) run(ctx context.Context, a any) Result {
	args, ok := a.(UpdateArgs)
	if !ok {
		return Fail("Employee_Update: unexpected arguments %T", a)
	}
	logx.Debug().Str("employee_id", args.EmployeeID).Strs("stripped", args.Stripped).Msg("Employee Update Tool called")

	res, err := t.update(ctx, args)
	if err != nil {
		logx.Error().Err(err).Str("employee_id", args.EmployeeID).Msg("Error updating employee")
		return Fail("Error updating employee: %v", err)
	}
	return res
}

func (t *updateTool) update(ctx context.Context, args UpdateArgs) (Result, error) {
	ctx, cancel := t.deps.withTimeout(ctx)
	defer cancel()

	current, err := t.deps.Store.FindByID(ctx, args.EmployeeID)
	if errors.Is(err, errx.ErrNotFound) {
		return Ok(fmt.Sprintf("Employee with ID %s not found.", args.EmployeeID)), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("load employee: %w", err)
	}

	if len(args.Updates) == 0 {
		return Ok(fmt.Sprintf("No changes detected for employee %s", args.EmployeeID)), nil
	}

	merged, err := merge(current, args.Updates)
	if err != nil {
		return Result{}, err
	}
	if sameRecord(current, merged) {
		return Ok(fmt.Sprintf("No changes detected for employee %s", args.EmployeeID)), nil
	}

	fields := make(map[string]any, len(args.Updates)+2)
	for key := range args.Updates {
		v, ok := merged.FieldValue(key)
		if !ok {
			return Result{}, fmt.Errorf("field %q cannot be updated", key)
		}
		fields[key] = v
	}

	summary := Summarize(merged)
	vector, err := t.deps.Embedder.Embed(ctx, summary)
	if err != nil {
		return Result{}, fmt.Errorf("embed summary: %w", err)
	}
	fields["embedding_text"] = summary
	fields["embedding"] = vector

	if err := t.deps.Store.UpdateFields(ctx, args.EmployeeID, fields); err != nil {
		return Result{}, err
	}
	return Ok(fmt.Sprintf("Successfully updated employee %s and refreshed embeddings", args.EmployeeID)), nil
}

// merge overwrites top-level fields of current with updates.
func merge(current *model.Employee, updates map[string]json.RawMessage) (*model.Employee, error) {
	base, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("encode employee: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(base, &doc); err != nil {
		return nil, fmt.Errorf("decode employee: %w", err)
	}
	for k, v := range updates {
		doc[k] = v
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode merged employee: %w", err)
	}
	var merged model.Employee
	if err := json.Unmarshal(b, &merged); err != nil {
		return nil, fmt.Errorf("decode merged employee: %w", err)
	}
	return &merged, nil
}

// sameRecord compares structured fields only; derived fields are ignored.
func sameRecord(a, b *model.Employee) bool {
	return cmp.Equal(a, b,
		cmpopts.IgnoreFields(model.Employee{}, "EmbeddingText", "Embedding"),
		cmpopts.EquateEmpty(),
	)
}

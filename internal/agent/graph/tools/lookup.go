package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hr-agent-core/server/internal/agent/graph/parsers"
	"github.com/hr-agent-core/server/internal/agent/model"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

const (
	defaultLookupResults = 10
	maxLookupResults     = 50
)

var lookupArgsSchema = parsers.MustCompile(lookupSchema())

// LookupArgs are the arguments of Employee_Lookup.
type LookupArgs struct {
	Query string `json:"query"`
	N     int    `json:"n,omitempty"`
}

type lookupTool struct {
	deps *Deps
}

func (t *lookupTool) definition() Definition {
	return Definition{
		Name:        string(KindLookup),
		Description: "Gather employee details from the HR database using semantic search. Returns the closest matching employee records with a similarity score.",
		Parameters:  lookupSchema(),
	}
}

func (t *lookupTool) decode(raw string) (any, error) {
	m, err := parsers.DecodeObject(raw)
	if err != nil {
		return nil, err
	}
	if err := lookupArgsSchema.Validate(m); err != nil {
		return nil, err
	}
	var args LookupArgs
	if err := parsers.Bind(m, &args); err != nil {
		return nil, err
	}
	args.Query = strings.TrimSpace(args.Query)
	if args.N == 0 {
		args.N = defaultLookupResults
	}
	args.N = clampInt(args.N, 1, maxLookupResults)
	return args, nil
}

// lookupHit is the serialized form of a search hit; the vector is left out.
type lookupHit struct {
	Employee model.Employee `json:"employee"`
	Score    float64        `json:"score"`
}

// run fails closed: any embedding or search failure yields an empty result set.
func (t *lookupTool) run(ctx context.Context, a any) Result {
	args, ok := a.(LookupArgs)
	if !ok {
		return Fail("Employee_Lookup: unexpected arguments %T", a)
	}
	logx.Debug().Str("query", args.Query).Int("n", args.N).Msg("Employee Lookup Tool called")

	hits, err := t.search(ctx, args)
	if err != nil {
		logx.Error().Err(err).Str("query", args.Query).Msg("employee lookup failed; returning empty result")
		hits = nil
	}

	out := make([]lookupHit, 0, len(hits))
	for _, h := range hits {
		e := h.Employee
		e.Embedding = nil
		out = append(out, lookupHit{Employee: e, Score: h.Score})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return Ok("[]")
	}
	return Ok(string(b))
}

func (t *lookupTool) search(ctx context.Context, args LookupArgs) ([]model.ScoredEmployee, error) {
	ctx, cancel := t.deps.withTimeout(ctx)
	defer cancel()

	vector, err := t.deps.Embedder.Embed(ctx, args.Query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return t.deps.Store.SimilaritySearch(ctx, vector, args.N)
}

// clampInt returns v limited to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

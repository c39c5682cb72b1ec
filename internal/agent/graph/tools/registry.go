package tools

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/jsonschema-go/jsonschema"

	logx "github.com/hr-agent-core/server/pkg/logger"
)

// Kind enumerates the tools the reasoning step may request.
type Kind string

const (
	KindLookup Kind = "Employee_Lookup"
	KindAdd    Kind = "Employee_Adding"
	KindUpdate Kind = "Employee_Update"
)

// Kinds lists every tool in a stable order.
var Kinds = []Kind{KindLookup, KindAdd, KindUpdate}

// Result is the outcome of one invocation. Failed results are still delivered
// to the model as tool messages.
type Result struct {
	Content string
	Failed  bool
}

func Ok(content string) Result { return Result{Content: content} }

func Fail(format string, args ...any) Result {
	return Result{Content: fmt.Sprintf(format, args...), Failed: true}
}

// Invocation is a decoded, validated tool call. Args is LookupArgs, AddArgs or UpdateArgs.
type Invocation struct {
	ID   string
	Kind Kind
	Args any
}

// Definition describes a tool to a completion provider.
type Definition struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
}

// ToolInfo converts the definition into an eino tool info.
func (d Definition) ToolInfo() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        d.Name,
		Desc:        d.Description,
		ParamsOneOf: toParamsOneOf(d.Parameters),
	}
}

type entry struct {
	def    Definition
	decode func(args string) (any, error)
	run    func(ctx context.Context, args any) Result
}

// Registry is the dispatch table for all tools.
type Registry struct {
	deps    *Deps
	entries map[Kind]entry
}

// NewRegistry wires the three employee tools to their collaborators.
func NewRegistry(deps Deps) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand3 == nil {
		deps.Rand3 = func() int { return rand.IntN(1000) }
	}
	r := &Registry{deps: &deps}

	lookup := &lookupTool{deps: r.deps}
	add := &addTool{deps: r.deps}
	update := &updateTool{deps: r.deps}

	r.entries = map[Kind]entry{
		KindLookup: {def: lookup.definition(), decode: lookup.decode, run: lookup.run},
		KindAdd:    {def: add.definition(), decode: add.decode, run: add.run},
		KindUpdate: {def: update.definition(), decode: update.decode, run: update.run},
	}
	return r
}

// Definitions returns tool definitions in Kinds order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(Kinds))
	for _, k := range Kinds {
		defs = append(defs, r.entries[k].def)
	}
	return defs
}

// ToolInfos returns eino tool infos in Kinds order.
func (r *Registry) ToolInfos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(Kinds))
	for _, d := range r.Definitions() {
		infos = append(infos, d.ToolInfo())
	}
	return infos
}

// Names returns the tool names joined for prompts.
func (r *Registry) Names() string {
	names := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// Decode validates a tool call into an Invocation.
func (r *Registry) Decode(call schema.ToolCall) (Invocation, error) {
	kind := Kind(strings.TrimSpace(call.Function.Name))
	e, ok := r.entries[kind]
	if !ok {
		return Invocation{}, fmt.Errorf("unknown tool %q", call.Function.Name)
	}
	args, err := e.decode(call.Function.Arguments)
	if err != nil {
		return Invocation{}, err
	}
	return Invocation{ID: call.ID, Kind: kind, Args: args}, nil
}

// Call decodes and executes one tool call. It never returns an error: unknown
// tools and invalid arguments become failed results and the tool is not run.
func (r *Registry) Call(ctx context.Context, call schema.ToolCall) Result {
	inv, err := r.Decode(call)
	if err != nil {
		if _, ok := r.entries[Kind(strings.TrimSpace(call.Function.Name))]; !ok {
			logx.Warn().Str("tool_name", call.Function.Name).Str("arguments", call.Function.Arguments).
				Msg("Unknown or invalid tool call; returning fallback result")
			return Fail(`{"error":"unknown_tool","name":%q,"note":"available tools: %s"}`, call.Function.Name, r.Names())
		}
		logx.Debug().Err(err).Str("tool_name", call.Function.Name).Msg("Tool arguments rejected")
		return Fail("Invalid arguments for %s: %v", call.Function.Name, err)
	}
	return r.Execute(ctx, inv)
}

// Execute runs a decoded invocation.
func (r *Registry) Execute(ctx context.Context, inv Invocation) Result {
	e, ok := r.entries[inv.Kind]
	if !ok {
		return Fail("unknown tool %q", inv.Kind)
	}
	return e.run(ctx, inv.Args)
}

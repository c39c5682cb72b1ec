package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/jsonschema-go/jsonschema"

	errx "github.com/hr-agent-core/server/internal/core/error"
	logx "github.com/hr-agent-core/server/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxArgumentsLen = 64 * 1024
	maxErrSnippet   = 200
)

// Schema is a resolved JSON Schema that tool arguments are validated against.
type Schema struct {
	resolved *jsonschema.Resolved
}

// Compile resolves s once so it can validate many payloads.
func Compile(s *jsonschema.Schema) (*Schema, error) {
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema: %w", err)
	}
	return &Schema{resolved: resolved}, nil
}

// MustCompile is Compile for package-level schemas.
func MustCompile(s *jsonschema.Schema) *Schema {
	c, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks an already decoded JSON value against the schema.
func (s *Schema) Validate(v map[string]any) error {
	if err := s.resolved.Validate(v); err != nil {
		return errx.Validation("%s", safeSnippet(err.Error()))
	}
	return nil
}

// DecodeObject parses raw tool arguments into a JSON object. Keys whose value is
// null are dropped so optional fields may be sent as null.
func DecodeObject(raw string) (map[string]any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return map[string]any{}, nil
	}
	if len(raw) > maxArgumentsLen {
		logx.Warn().Int("max_len", maxArgumentsLen).Int("len", len(raw)).Msg("tool arguments too large")
		return nil, errx.Validation("arguments exceed %d bytes", maxArgumentsLen)
	}
	if !utf8.ValidString(raw) {
		return nil, errx.Validation("arguments are not valid utf8")
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, errx.Validation("arguments are not a JSON object: %s", safeSnippet(err.Error()))
	}
	if m == nil {
		return map[string]any{}, nil
	}
	DropNulls(m)
	return m, nil
}

// DropNulls removes top-level keys whose value is null.
func DropNulls(m map[string]any) {
	for k, v := range m {
		if v == nil {
			delete(m, k)
		}
	}
}

// Bind re-encodes a validated object into a typed value.
func Bind(m map[string]any, out any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return errx.Validation("re-encode arguments: %s", err.Error())
	}
	if err := json.Unmarshal(b, out); err != nil {
		return errx.Validation("bind arguments: %s", safeSnippet(err.Error()))
	}
	return nil
}

func safeSnippet(s string) string {
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet] + "..."
}

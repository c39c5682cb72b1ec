package parsers

import (
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/hr-agent-core/server/internal/core/error"
)

func testSchema() *Schema {
	min := 1.0
	return MustCompile(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"query": {Type: "string"},
			"n":     {Type: "integer", Minimum: &min},
		},
		Required: []string{"query"},
	})
}

func TestDecodeObject(t *testing.T) {
	m, err := DecodeObject(`{"query":"python","n":3,"manager":null}`)
	require.NoError(t, err)
	assert.Equal(t, "python", m["query"])
	assert.NotContains(t, m, "manager")

	m, err = DecodeObject("  ")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestDecodeObjectRejectsGarbage(t *testing.T) {
	for _, raw := range []string{`not json`, `[1,2]`, `"text"`, strings.Repeat("a", maxArgumentsLen+1)} {
		_, err := DecodeObject(raw)
		assert.ErrorIs(t, err, errx.ErrValidation, raw[:min(len(raw), 10)])
	}
}

func TestValidate(t *testing.T) {
	s := testSchema()

	assert.NoError(t, s.Validate(map[string]any{"query": "x", "n": float64(2)}))

	err := s.Validate(map[string]any{"n": float64(2)})
	assert.ErrorIs(t, err, errx.ErrValidation)
	assert.Equal(t, errx.KindValidation, errx.KindOf(err))

	assert.Error(t, s.Validate(map[string]any{"query": "x", "n": float64(0)}))
	assert.Error(t, s.Validate(map[string]any{"query": 12.0}))
}

func TestBind(t *testing.T) {
	var out struct {
		Query string `json:"query"`
		N     int    `json:"n"`
	}
	require.NoError(t, Bind(map[string]any{"query": "q", "n": float64(4)}, &out))
	assert.Equal(t, "q", out.Query)
	assert.Equal(t, 4, out.N)
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		in   string
		want Environment
	}{
		{"production", Production},
		{" PROD ", Production},
		{"staging", Staging},
		{"test", Testing},
		{"", Development},
		{"whatever", Development},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnvironment(tt.in))
		})
	}
}

func TestEnvironmentDecode(t *testing.T) {
	var e Environment
	assert.NoError(t, e.Decode("Production"))
	assert.True(t, e.IsProduction())
}

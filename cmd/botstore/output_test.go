package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput(t *testing.T) {
	t.Parallel()

	v := map[string]any{"name": "signup", "id": 3}

	tests := []struct {
		format string
		want   string
	}{
		{formatJSON, "{\n  \"id\": 3,\n  \"name\": \"signup\"\n}\n"},
		{formatYAML, "id: 3\nname: signup\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeOutput(&buf, tt.format, v))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	var buf bytes.Buffer
	assert.Error(t, writeOutput(&buf, "csv", v))
	assert.Empty(t, buf.String())
}

func TestNormalizeHandle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice", normalizeHandle("@alice"))
	assert.Equal(t, "alice", normalizeHandle("alice"))
	assert.Equal(t, "", normalizeHandle(""))
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := SetupWithWriter("production", &buf)
	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Info().Str("component", "planner").Msg("visible")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "visible", line["message"])
	assert.Equal(t, "planner", line["component"])

	buf.Reset()
	logger = SetupWithWriter("development", &buf)
	logger.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

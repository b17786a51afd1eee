package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("production", &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("recipe_id", "r1").Msg("loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, "r1", entry["recipe_id"])
	assert.Equal(t, "bitebot", entry["service"])
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewWithWriterDevelopmentIsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("development", &buf)
	logger.Debug().Msg("visible")
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	assert.Contains(t, buf.String(), "visible")
}

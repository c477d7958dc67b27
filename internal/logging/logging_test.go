package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ButyrinIA/posts/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LogConfig{Level: "info", Format: "json"}, &buf)

		logger.Info("запуск", "port", "5002")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "запуск", record["msg"])
		assert.Equal(t, "5002", record["port"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)

		logger.Info("не должно попасть в лог")
		assert.Empty(t, buf.String())

		logger.Warn("предупреждение")
		assert.Contains(t, buf.String(), "предупреждение")
	})
}

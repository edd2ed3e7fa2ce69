// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Foyer Contributors

package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyerhq/foyer/internal/logging"
)

func TestSetup(t *testing.T) {
	t.Run("json format emits service and version attrs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("foyer", "1.2.3", "json", slog.LevelInfo, &buf)

		logger.InfoContext(context.Background(), "hello", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "foyer", record["service"])
		assert.Equal(t, "1.2.3", record["version"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("defaults to text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("foyer", "dev", "", slog.LevelInfo, &buf)

		logger.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
		assert.Contains(t, buf.String(), "service=foyer")
	})

	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := logging.Setup("foyer", "dev", "text", slog.LevelWarn, &buf)

		logger.Info("suppressed")
		assert.Empty(t, buf.String())

		logger.Warn("visible")
		assert.Contains(t, buf.String(), "visible")
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, logging.ParseLevel(tt.in), "input %q", tt.in)
	}
}

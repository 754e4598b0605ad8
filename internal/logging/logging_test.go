package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, FormatJSON, slog.LevelInfo))
	log.Info("chat relay", "status", 200)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "chat relay", line["msg"])
	require.EqualValues(t, 200, line["status"])
}

func TestNewHandler_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "xml", slog.LevelInfo)).Info("hello")
	require.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNewHandler_Console(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, FormatConsole, slog.LevelInfo)).Info("hello")
	require.Contains(t, buf.String(), "hello")
}

func TestNewHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, FormatJSON, slog.LevelWarn))
	log.Info("dropped")
	require.Empty(t, buf.String())
	log.Warn("kept")
	require.Contains(t, buf.String(), "kept")
}

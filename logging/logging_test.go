package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cmrx/logging"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := logging.ParseLevel("loud")
	require.ErrorIs(t, err, logging.ErrUnknownLevel)
}

func TestNew_JSONCarriesServiceAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "warn", JSON: true, Service: "cmrx", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	require.Zero(t, buf.Len())

	logger.Warn("shown", slog.Int("n", 3))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "shown", rec["msg"])
	require.Equal(t, "cmrx", rec["service"])
	require.EqualValues(t, 3, rec["n"])
}

func TestNew_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Output: &buf})
	require.NoError(t, err)
	logger.Info("hello")
	require.Contains(t, buf.String(), "msg=hello")
	require.NotContains(t, buf.String(), "service=")
}

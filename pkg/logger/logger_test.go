package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Service: "farmacia-api", Output: &buf})

	l.Info().Msg("no debe salir")
	l.Component("notify").Warn().Str("site_id", "b1").Msg("sin destinatario")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "farmacia-api", entry["service"])
	assert.Equal(t, "notify", entry["component"])
	assert.Equal(t, "b1", entry["site_id"])
}

func TestNop_NoPanica(t *testing.T) {
	l := Nop()
	l.Error().Msg("descartado")
	l.Component("x").Warn().Msg("descartado")
}

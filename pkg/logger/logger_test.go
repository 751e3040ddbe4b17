package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-builder-api/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "invoice-builder", Out: &buf})

	log.Component("storage").Info().Str("driver", "memory").Msg("listo")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev), "en production la salida es JSON")
	assert.Equal(t, "invoice-builder", ev["service"])
	assert.Equal(t, "storage", ev["component"])
	assert.Equal(t, "memory", ev["driver"])
	assert.Equal(t, "info", ev["level"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: " WARN ", Out: &buf})

	log.Info().Msg("descartado")
	assert.Empty(t, buf.String(), "info no debe salir con nivel warn")

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Component("x").Error().Msg("nada") })
}

package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)
	log.Info().Str("file", "stmt.csv").Msg("parsed")

	out := buf.String()
	assert.Contains(t, out, `"file":"stmt.csv"`)
	assert.Contains(t, out, `"message":"parsed"`)
}

func TestNop(t *testing.T) {
	log := Nop()
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestNew_Level(t *testing.T) {
	log := New(zerolog.WarnLevel)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
}

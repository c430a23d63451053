package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  zerolog.Level
	}{
		{name: "пустая строка", input: "", want: zerolog.InfoLevel},
		{name: "debug", input: "debug", want: zerolog.DebugLevel},
		{name: "регистр и пробелы", input: "  WARN ", want: zerolog.WarnLevel},
		{name: "неизвестный уровень", input: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", &buf)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("k", "v").Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "WARN")
}

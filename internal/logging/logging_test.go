package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zap.DebugLevel,
		"info":    zap.InfoLevel,
		"WARN":    zap.WarnLevel,
		"error":   zap.ErrorLevel,
		"verbose": zap.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in).Level(), in)
	}
}

func TestNew(t *testing.T) {
	for _, level := range []string{"debug", "info", "error"} {
		l, err := New(level)
		require.NoError(t, err, level)
		assert.Equal(t, level == "debug", l.Core().Enabled(zap.DebugLevel), level)
		assert.Equal(t, level != "error", l.Core().Enabled(zap.InfoLevel), level)
	}
}

package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfig_ZapLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for level, want := range tests {
		assert.Equal(t, want, Config{Level: level}.ZapLevel(), level)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("LOG_FORMAT", "Console")
	t.Setenv("LOG_OUTPUT_FILE", "")

	cfg := ConfigFromEnv()
	assert.Equal(t, Config{Level: "debug", Format: "console", Output: "stdout"}, cfg)
	assert.True(t, cfg.console())
}

func TestConfig_OutputPaths(t *testing.T) {
	assert.Equal(t, []string{"stderr"}, Config{Output: "stderr"}.outputPaths())

	file := filepath.Join(t.TempDir(), "logs", "app.log")
	assert.Equal(t, []string{file, "stdout"}, Config{Output: file}.outputPaths())
	assert.DirExists(t, filepath.Dir(file))
}

func TestNamedAndWithKeepConfig(t *testing.T) {
	l := New(Config{Level: "warn", Output: "stderr"})
	named := l.Named("feed").With()
	assert.Same(t, l.config, named.config)
	require.Equal(t, "json", named.config.Format)
	assert.False(t, named.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, named.Core().Enabled(zapcore.WarnLevel))
}

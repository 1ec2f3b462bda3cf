package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Config selects the level, encoding and destination of a Logger.
type Config struct {
	Level  string // debug, info, warn, error or fatal
	Format string // json, or console/text for human output
	Output string // stdout, stderr or a file path
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE. Unset or
// blank variables fall back to info, json and stdout.
func ConfigFromEnv() Config {
	return Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
		Output: os.Getenv("LOG_OUTPUT_FILE"),
	}.normalized()
}

func (c Config) normalized() Config {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Output = strings.TrimSpace(c.Output)
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	return c
}

// ZapLevel maps Level onto zap. Unknown levels log at info.
func (c Config) ZapLevel() zapcore.Level {
	if c.Level == "warning" {
		return zapcore.WarnLevel
	}
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func (c Config) console() bool {
	return c.Format == "console" || c.Format == "text"
}

// outputPaths tees a log file to stdout. If the file's directory cannot be
// created the logger writes to stdout only.
func (c Config) outputPaths() []string {
	switch c.Output {
	case "stdout", "stderr":
		return []string{c.Output}
	}
	dir := filepath.Dir(c.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "logger: cannot create %s, writing to stdout: %v\n", dir, err)
		return []string{"stdout"}
	}
	return []string{c.Output, "stdout"}
}

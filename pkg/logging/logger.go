// Package logging builds the hclog loggers shared by every csteg component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment knobs. A --log-level flag takes precedence over the level
// variable; JSON output is strictly opt-in.
const (
	envLogLevel = "CSTEG_LOG_LEVEL"
	envJSONLog  = "CSTEG_JSON_LOG"

	defaultLevel = "warn"
)

// NewLogger constructs a named logger writing to output, or stderr when
// output is nil. Human-readable lines carry an emoji prefix so csteg
// diagnostics stand out among other tool output; CSTEG_JSON_LOG=1 drops the
// prefix and emits JSON lines for log shippers instead. Timestamps are
// always UTC.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	jsonFormat := os.Getenv(envJSONLog) == "1"
	if !jsonFormat {
		output = NewPrefixWriter("🖼️ ", output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn:     func() time.Time { return time.Now().UTC() },
	})
}

// GetLogLevel resolves the log level from the environment. The default is
// warn so a bare CLI run stays quiet unless something is actually wrong.
func GetLogLevel() string {
	if level := os.Getenv(envLogLevel); level != "" {
		return level
	}
	return defaultLevel
}

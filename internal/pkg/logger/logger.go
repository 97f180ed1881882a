// Package logger holds the process-wide zerolog logger. Entries go to stderr
// unless told otherwise, because stdout belongs to the console menus.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is a level name as written in the configuration
type LogLevel string

// Levels understood by Configure. Store commands are logged at debug.
const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// Config selects level, format and destination
type Config struct {
	Level   LogLevel
	Pretty  bool      // console format instead of JSON lines
	Output  io.Writer // os.Stderr when nil
	Session string    // added to every entry when set
}

var current zerolog.Logger

// Configure replaces the process logger. Unknown levels fall back to info.
func Configure(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(string(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	fields := zerolog.New(out).With().Timestamp()
	if cfg.Session != "" {
		fields = fields.Str("session", cfg.Session)
	}
	current = fields.Logger()
	log.Logger = current
}

// Debug starts a debug entry
func Debug() *zerolog.Event { return current.Debug() }

// Info starts an info entry
func Info() *zerolog.Event { return current.Info() }

// Warn starts a warning entry
func Warn() *zerolog.Event { return current.Warn() }

// Error starts an error entry
func Error() *zerolog.Event { return current.Error() }

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is shared by both binaries. It discards everything until Init runs.
var Logger = zerolog.Nop()

// Init points the shared logger at stdout
func Init(level, format string) {
	InitWithWriter(os.Stdout, level, format)
}

// InitWithWriter points the shared logger at w. The notes CLI passes stderr so
// tables printed on stdout can be piped.
func InitWithWriter(w io.Writer, level, format string) {
	zerolog.SetGlobalLevel(parseLogLevel(level))

	Logger = New(w, format)
	log.Logger = Logger
}

// New builds a timestamped logger writing JSON lines, or colored console
// output for any other format
func New(w io.Writer, format string) zerolog.Logger {
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

// parseLogLevel accepts zerolog level names plus "warning". Unknown or empty
// names mean info.
func parseLogLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

func GetLogger() zerolog.Logger {
	return Logger
}

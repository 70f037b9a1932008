package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// InitLogging configures the process logger. Output goes to stderr — stdout
// belongs to the MCP stdio transport — with an optional mirror to a log file
// when logFilePath is non-empty.
func InitLogging(logFilePath string) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}

	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", logFilePath, err)
		} else {
			writers = append(writers, f)
		}
	}

	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	log.Info().Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	log.Error().Msg(fmt.Sprintf(format, args...))
}

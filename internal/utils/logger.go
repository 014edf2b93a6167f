package utils

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// belowLevelWriter only passes entries under the given level.
type belowLevelWriter struct {
	zerolog.LevelWriter
	level zerolog.Level
}

func (w belowLevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	if l >= w.level {
		return len(p), nil
	}
	return w.LevelWriter.WriteLevel(l, p)
}

// NewLogger builds the process logger. Entries at error level and above go
// to errOut, the rest to out. Unknown level names fall back to info.
func NewLogger(out, errOut io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		errOut = zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.RFC3339}
	}

	writer := zerolog.MultiLevelWriter(
		belowLevelWriter{
			LevelWriter: zerolog.LevelWriterAdapter{Writer: out},
			level:       zerolog.ErrorLevel,
		},
		&zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: errOut},
			Level:  zerolog.ErrorLevel,
		},
	)

	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

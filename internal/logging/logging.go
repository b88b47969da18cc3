package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger: an append-only session log file
// under dir plus a console writer that only surfaces warnings and
// errors. The logger is constructed once by the entry point and passed
// to each component; nothing touches the global zerolog state.
func Setup(dir, level string) (zerolog.Logger, string, error) {
	return setup(dir, level, os.Stderr)
}

func setup(dir, level string, console io.Writer) (zerolog.Logger, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), "", fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("tradebot_%s.log", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), "", fmt.Errorf("failed to open log file: %w", err)
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	consoleWriter := &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{Out: console}},
		Level:  zerolog.WarnLevel,
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(file, consoleWriter)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	logger.Info().
		Str("log_file", path).
		Str("log_level", lvl.String()).
		Msg("Trading session started")

	return logger, path, nil
}

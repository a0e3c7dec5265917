// Package logging builds the zerolog logger used by fwinspect and adapts it
// to firmware.Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/moffa90/go-fwimage/firmware"
	"github.com/moffa90/go-fwimage/internal/config"
)

// EnvLevel overrides logs.level when set.
const EnvLevel = "FWIMAGE_LOG_LEVEL"

// FileName is the log file written inside logs.directory.
const FileName = "fwinspect.log"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger writing to out in the configured format and, when
// cfg.Directory is set, JSON lines to a rotating file in that directory.
// Close the returned io.Closer to release the file.
func New(cfg config.Logs, out io.Writer) (zerolog.Logger, io.Closer, error) {
	levelName := cfg.Level
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		levelName = env
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var w io.Writer = out
	if cfg.Format == config.FormatConsole {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: !isTerminal(out)}
	}

	var closer io.Closer = nopCloser{}
	if cfg.Directory != "" {
		if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Directory, FileName),
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
		}
		w = zerolog.MultiLevelWriter(w, rotator)
		closer = rotator
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Str("app", "fwinspect").Logger()
	return logger, closer, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// ParseLevel accepts debug, info, warn, error or disabled, in any case.
// An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Adapter exposes a zerolog.Logger as a firmware.Logger.
type Adapter struct {
	logger zerolog.Logger
}

var _ firmware.Logger = (*Adapter)(nil)

// NewAdapter wraps logger.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Debug implements firmware.Logger.
func (a *Adapter) Debug(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(keysAndValues).Msg(msg)
}

// Info implements firmware.Logger.
func (a *Adapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info().Fields(keysAndValues).Msg(msg)
}

// Error implements firmware.Logger.
func (a *Adapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error().Fields(keysAndValues).Msg(msg)
}

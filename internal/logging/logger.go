// Package logging builds the zerolog logger shared by every component.
//
// Console output is human-readable (zerolog.ConsoleWriter on stdout, colored
// when [term.Enabled]); when a log file is configured the same events are
// appended to it as JSON lines.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/backmassage/aniconvert/internal/config"
	"github.com/backmassage/aniconvert/internal/term"
)

// Canonical field names.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldFile      = "file"
	FieldState     = "state"
	FieldOutput    = "output"
)

// Logger is a zerolog.Logger that owns its optional file sink.
// Call Close when done if a log file was configured.
type Logger struct {
	zerolog.Logger

	mu   sync.Mutex
	file *os.File
}

// New configures terminal colors from cfg and returns a logger writing to
// stdout and, when cfg.Logging.File is set, to that file.
func New(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.Logging.Color)
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit console writer. Color state is
// taken from [term.Enabled] as already configured.
func NewWithWriter(cfg *config.Config, console io.Writer) (*Logger, error) {
	l := &Logger{}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		NoColor:    !term.Enabled(),
		TimeFormat: time.DateTime,
	}}

	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, f)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return l, nil
}

// Nop returns a logger that discards everything. Used by tests and by
// commands that run before configuration is loaded.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithComponent returns a child logger annotated with the given component name.
func (l *Logger) WithComponent(component string) zerolog.Logger {
	return l.With().Str(FieldComponent, component).Logger()
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

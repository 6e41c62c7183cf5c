package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the rotating log file inside the logs folder.
const LogFileName = "mc-forecast.log"

// Options controls the global logger sinks.
type Options struct {
	Verbose bool
	// Console mirrors log lines to stderr. The one-shot forecast commands
	// leave it off unless verbose so their report output stays clean.
	Console bool
	// Dir is the folder of the rotating log file, normally config.LogDir().
	Dir string
}

// Init initializes the global logger with up to two sinks: os.Stderr and a rotating file.
func Init(opts Options) error {
	// 1. Determine log level
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// 2. Setup File Writer (Rotating)
	logDir := opts.Dir
	if logDir == "" {
		logDir = "logs"
	}

	fileWriter, err := newFileWriter(logDir)
	if err != nil {
		return err
	}

	writers := []io.Writer{fileWriter}

	// 3. Setup Stderr Writer (Console)
	if opts.Console || opts.Verbose {
		isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !isTerminal,
		})
	}

	// 4. Set Global Logger
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
	return nil
}

func newFileWriter(logDir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	// MkdirAll success is a good indicator, but a read-only mount still passes it.
	testFile := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(testFile)

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, LogFileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}, nil
}

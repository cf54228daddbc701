// Package logging provides the shared logging system for heft, built on
// charmbracelet/log with per-component level overrides.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Close()
//
//	logger := logging.Get("scanner")
//	logger.Info("scan started", "root", "/home/user/proj")
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Level represents a logging level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// toCharmLevel converts our Level to a charmbracelet/log level.
func (l Level) toCharmLevel() log.Level {
	switch l {
	case LevelDebug:
		return log.DebugLevel
	case LevelInfo:
		return log.InfoLevel
	case LevelWarn:
		return log.WarnLevel
	case LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// Config configures the logging system.
type Config struct {
	// Level is the default log level (debug, info, warn, error).
	Level string

	// Path is an optional log file path. Empty logs to stderr.
	Path string

	// Components maps component names to level overrides.
	Components map[string]string
}

// state holds the global logging state.
type state struct {
	mu          sync.RWMutex
	initialized bool
	writer      io.Writer
	file        *os.File
	level       Level
	components  map[string]Level
	loggers     map[string]*log.Logger
}

var globalState = &state{
	writer:     io.Discard,
	components: make(map[string]Level),
	loggers:    make(map[string]*log.Logger),
}

// Init initializes the logging system. Before Init is called, all loggers
// write to io.Discard.
func Init(cfg Config) error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	components := make(map[string]Level, len(cfg.Components))
	for comp, lvl := range cfg.Components {
		parsed, err := ParseLevel(lvl)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		components[comp] = parsed
	}

	writer := io.Writer(os.Stderr)
	var file *os.File
	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		file, err = os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		writer = file
	}

	if globalState.file != nil {
		_ = globalState.file.Close()
	}

	globalState.level = level
	globalState.components = components
	globalState.writer = writer
	globalState.file = file
	globalState.loggers = make(map[string]*log.Logger)
	globalState.initialized = true

	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.file != nil {
		err := globalState.file.Close()
		globalState.file = nil
		globalState.writer = io.Discard
		globalState.initialized = false
		return err
	}
	return nil
}

// Get returns the logger for a component, honoring any per-component level
// override from the config.
func Get(component string) *log.Logger {
	globalState.mu.RLock()
	if logger, ok := globalState.loggers[component]; ok {
		globalState.mu.RUnlock()
		return logger
	}
	globalState.mu.RUnlock()

	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if logger, ok := globalState.loggers[component]; ok {
		return logger
	}

	level := globalState.level
	if override, ok := globalState.components[component]; ok {
		level = override
	}

	logger := log.NewWithOptions(globalState.writer, log.Options{
		Prefix:          component,
		Level:           level.toCharmLevel(),
		ReportTimestamp: true,
	})
	globalState.loggers[component] = logger
	return logger
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides the structured logging the recognizer engine
// uses for its destroy, destroyed-state and stale-pass diagnostics (the
// demo server logs through log/slog directly). It's a thin typed wrapper around log/slog: a stable Level
// type and a Config the engine's zero-value defaulting can populate,
// rather than exposing slog.Level/slog.Logger directly at every call
// site.
//
//	logger := logging.Default()
//	logger.Info("pass started", "mode", "realtime", "pass_id", passID)
//	logger.Error("plugin failed", "plugin", name, "error", err)
//
// # Security Considerations
//
// This package does not redact sensitive data. Recognized entity values
// can themselves be sensitive (an email address, a phone number);
// callers logging plugin diagnostics should log spans and kinds, not
// raw matched text, unless that's intentional:
//
//	// BAD: logs the matched text verbatim
//	logger.Info("entity matched", "text", candidate.Text)
//
//	// GOOD: log shape, not content
//	logger.Info("entity matched", "kind", candidate.Kind, "span_len", candidate.Span.Len())
package logging

import (
	"log/slog"
	"os"
)

// Level represents log severity, ordered Debug < Info < Warn < Error to
// match slog's convention. Setting a minimum level filters out anything
// below it.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config configures a Logger. A zero-value Config produces a Debug-level
// (LevelDebug is the zero Level), text-format logger writing to stderr.
type Config struct {
	// Level sets the minimum level; messages below it are discarded.
	Level Level

	// Service is attached to every log entry as the "service" attribute.
	// Recommended values: "recognizer", "recognize-server".
	Service string

	// JSON selects JSON output instead of human-readable text.
	JSON bool

	// Quiet discards all output. Useful in tests that only care about
	// logging not panicking, not about what gets written.
	Quiet bool
}

// Logger wraps slog.Logger with the engine's Level type and Config shape.
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger from config.
func New(config Config) *Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	if config.Quiet {
		handler = slog.NewTextHandler(discard{}, opts)
	} else if config.JSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String("service", config.Service)})
	}

	return &Logger{slog: slog.New(handler)}
}

// Default returns an Info-level, text-format logger writing to stderr
// with Service set to "semrec". Suitable for an in-process recognizer
// that hasn't been given an explicit Config.
func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "semrec"})
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a new Logger that includes args on every subsequent call,
// for scoping a logger to a single pass or request without repeating
// its identifying attributes at every call site.
//
//	passLogger := logger.With("pass_id", passID, "mode", mode)
//	passLogger.Info("pass started")
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// Slog returns the underlying slog.Logger for callers that need direct
// access to slog features this wrapper doesn't expose.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

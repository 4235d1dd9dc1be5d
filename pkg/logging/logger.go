// Package logging provides structured logging for the collision pipeline.
// It wraps Go's standard slog package so every record carries the run and
// tick it was emitted from, and so geometry values render the same way in
// every log line.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// LevelEnvVar selects the minimum log level.
const LevelEnvVar = "COLLIDE_LOG_LEVEL"

// Logger wraps slog.Logger with context-aware helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger instance with JSON output on stdout.
// The log level can be controlled via the COLLIDE_LOG_LEVEL environment variable.
// Valid levels: DEBUG, INFO, WARN, ERROR. Defaults to INFO.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout, getLogLevelFromEnv())
}

// NewLoggerWithWriter creates a JSON Logger writing to w at the given level.
func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: formatAttributes,
	})
	return &Logger{slog.New(handler)}
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return NewLoggerWithWriter(io.Discard, slog.LevelError+1)
}

// LogWithContext logs a message, adding the run id and tick found in ctx.
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if runID := GetRunID(ctx); runID != "" {
		args = append(args, "run_id", runID)
	}
	if tick, ok := GetTick(ctx); ok {
		args = append(args, "tick", tick)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs an informational message with context.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message with context and proper error formatting.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs a debug message with context.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type runIDKey struct{}

type tickKey struct{}

// WithRunID tags ctx with a simulation run id, generating one if empty.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		runID = GenerateRunID()
	}
	return context.WithValue(ctx, runIDKey{}, runID)
}

// GetRunID returns the run id in ctx, or "" if there is none.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateRunID creates a new random run id.
func GenerateRunID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// WithTick tags ctx with the current simulation tick.
func WithTick(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, tickKey{}, tick)
}

// GetTick returns the tick in ctx.
func GetTick(ctx context.Context) (uint64, bool) {
	tick, ok := ctx.Value(tickKey{}).(uint64)
	return tick, ok
}

// getLogLevelFromEnv determines the log level from environment variables.
func getLogLevelFromEnv() slog.Level {
	levelStr := strings.ToUpper(os.Getenv(LevelEnvVar))
	switch levelStr {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// formatAttributes renders geometry values as compact strings. The JSON
// encoder rejects NaN inside arrays, and a NaN pose is exactly what a
// log line needs to show.
func formatAttributes(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	switch v := a.Value.Any().(type) {
	case physics.Vec2:
		return slog.String(a.Key, FormatVec(v))
	case physics.Group:
		return slog.String(a.Key, v.String())
	case physics.Shape:
		return slog.String(a.Key, FormatShape(v))
	}
	return a
}

// FormatVec renders v as "(x, y)".
func FormatVec(v physics.Vec2) string {
	return "(" + strconv.FormatFloat(float64(v[0]), 'g', -1, 32) +
		", " + strconv.FormatFloat(float64(v[1]), 'g', -1, 32) + ")"
}

// FormatShape renders s as e.g. "rect(8x4)" or "circle(2)".
func FormatShape(s physics.Shape) string {
	switch s.Kind {
	case physics.RectKind:
		return fmt.Sprintf("rect(%gx%g)", s.Width, s.Height)
	case physics.CircleKind:
		return fmt.Sprintf("circle(%g)", s.Radius)
	default:
		return s.Kind.String()
	}
}

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm/logger"
)

// DBLogger implements gorm's logger.Interface on top of the global slog
// logger, so query logs share the application's output format.
type DBLogger struct {
	level     logger.LogLevel
	slowAfter time.Duration
}

// NewDBLogger creates a gorm logger adapter. Queries slower than
// slowAfter are logged at warn level.
func NewDBLogger(level logger.LogLevel, slowAfter time.Duration) *DBLogger {
	return &DBLogger{level: level, slowAfter: slowAfter}
}

// LogMode returns a copy of the logger at the given level
func (l *DBLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *DBLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		Log.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *DBLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		Log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *DBLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		Log.Error(fmt.Sprintf(msg, args...))
	}
}

// Trace logs one executed statement with its timing and row count
func (l *DBLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	took := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.Duration("took", took),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}

	switch {
	case err != nil && l.level >= logger.Error:
		Log.Error("query failed", append(attrs, slog.String("error", err.Error()))...)
	case l.slowAfter > 0 && took > l.slowAfter && l.level >= logger.Warn:
		Log.Warn("slow query", attrs...)
	case l.level >= logger.Info:
		Log.Info("query", attrs...)
	}
}

package gamedata

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/gamedata/collection"
)

// Logger wraps slog.Logger with dataset-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithDataset adds the dataset name to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// WithFeatureShard adds the feature shard id to the logger.
func (l *Logger) WithFeatureShard(shardID string) *Logger {
	return &Logger{
		Logger: l.Logger.With("feature_shard", shardID),
	}
}

// LogBuild logs a dataset build.
func (l *Logger) LogBuild(ctx context.Context, shardID string, numFeatures int, validated bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset build failed",
			"feature_shard", shardID,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset built",
		"feature_shard", shardID,
		"num_features", numFeatures,
		"validated", validated,
	)
}

// LogScoreUpdate logs the planning of a score-offset update.
func (l *Logger) LogScoreUpdate(name, shardID string, emptyScores bool) {
	l.Debug("score offsets planned",
		"dataset", name,
		"feature_shard", shardID,
		"empty_scores", emptyScores,
	)
}

// LogPersist logs a persist request.
func (l *Logger) LogPersist(name string, level collection.StorageLevel, alreadyCached bool) {
	if alreadyCached {
		l.Debug("dataset already persisted",
			"dataset", name,
			"level", level.String(),
		)
		return
	}
	l.Debug("dataset persisted",
		"dataset", name,
		"level", level.String(),
	)
}

// LogUnpersist logs a cache release.
func (l *Logger) LogUnpersist(ctx context.Context, name string, err error) {
	if err != nil {
		l.WarnContext(ctx, "dataset unpersist incomplete",
			"dataset", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "dataset unpersisted",
		"dataset", name,
	)
}

// LogMaterialize logs a forced evaluation.
func (l *Logger) LogMaterialize(ctx context.Context, name string, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dataset materialize failed",
			"dataset", name,
			"duration", duration,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dataset materialized",
		"dataset", name,
		"duration", duration,
	)
}

// LogSummary logs a computed summary.
func (l *Logger) LogSummary(ctx context.Context, s Summary) {
	l.InfoContext(ctx, "dataset summary",
		"dataset", s.Name,
		"feature_shard", s.FeatureShardID,
		"num_samples", s.NumSamples,
		"weight_sum", s.WeightSum,
		"response_sum", s.ResponseSum,
		"num_features", s.NumFeatures,
	)
}

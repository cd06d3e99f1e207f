package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PlaybookMediaEngineering/tesseract-engineering/core"
)

func (g *Gateway) observeOperation(
	ctx context.Context,
	startedAt time.Time,
	operation string,
	err error,
	fields map[string]any,
) {
	if g == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}

	contextFields := cloneFields(fields)
	contextFields["event_type"] = operation
	contextFields["status"] = status
	contextFields["duration_ms"] = time.Since(startedAt).Milliseconds()
	if err != nil {
		contextFields["error"] = err.Error()
	}

	tags := map[string]string{
		"operation": operation,
		"status":    status,
	}
	if value := strings.TrimSpace(fmt.Sprint(contextFields["provider"])); value != "" && value != "<nil>" {
		tags["provider"] = value
	}

	g.recordCounter(ctx, "engine."+operation+".total", 1, tags)
	g.recordHistogram(ctx, "engine."+operation+".duration_ms", float64(time.Since(startedAt).Milliseconds()), tags)

	if err != nil {
		g.logError(ctx, operation+" failed", contextFields)
		return
	}
	g.logInfo(ctx, operation+" succeeded", contextFields)
}

func (g *Gateway) logInfo(ctx context.Context, message string, fields map[string]any) {
	g.logWithLevel(ctx, "info", message, fields)
}

func (g *Gateway) logError(ctx context.Context, message string, fields map[string]any) {
	g.logWithLevel(ctx, "error", message, fields)
}

func (g *Gateway) logWithLevel(ctx context.Context, level string, message string, fields map[string]any) {
	if g == nil || g.logger == nil {
		return
	}
	logger := g.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(core.FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	args := flattenFields(fields)
	switch level {
	case "error":
		logger.Error(message, args...)
	default:
		logger.Info(message, args...)
	}
}

func (g *Gateway) recordCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if g == nil || g.metricsRecorder == nil {
		return
	}
	g.metricsRecorder.IncCounter(ctx, name, value, tags)
}

func (g *Gateway) recordHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if g == nil || g.metricsRecorder == nil {
		return
	}
	g.metricsRecorder.ObserveHistogram(ctx, name, value, tags)
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}

func flattenFields(fields map[string]any) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(keys)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}
	return args
}

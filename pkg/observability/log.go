package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline, cache and HTTP events as debug log lines.
// Register it with all three setters to trace a run with --verbose.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, engine string, sourceBytes int) {
	h.Logger.Debug("layout start", "engine", engine, "bytes", sourceBytes)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, engine string, nodeCount int, d time.Duration, err error) {
	h.Logger.Debug("layout done", "engine", engine, "nodes", nodeCount, "took", d, "err", err)
}

func (h *LogHooks) OnScoreStart(_ context.Context, nodeCount, linkCount int) {
	h.Logger.Debug("score start", "nodes", nodeCount, "links", linkCount)
}

func (h *LogHooks) OnScoreComplete(_ context.Context, crossingPairs int, d time.Duration, err error) {
	h.Logger.Debug("score done", "pairs", crossingPairs, "took", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path, requestID string) {
	h.Logger.Debug("request", "method", method, "path", path, "id", requestID)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "took", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path string, err error) {
	h.Logger.Warn("request failed", "method", method, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)

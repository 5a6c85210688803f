package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/readability/pkg/cache"
	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/errors"
	"github.com/matzehuels/readability/pkg/layout"
	"github.com/matzehuels/readability/pkg/observability"
	"github.com/matzehuels/readability/pkg/readability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout = "layout"
	keyTypeScore  = "score"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ExecuteFile reads path and runs the pipeline on its contents. The format
// is taken from opts.Format, or detected from the extension.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if opts.Format == "" {
		f, err := drawing.DetectFormat(path)
		if err != nil {
			return nil, err
		}
		opts.Format = string(f)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	src, err := ReadSource(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r.Execute(ctx, src, opts)
}

// Execute runs load → (layout) → score on src.
func (r *Runner) Execute(ctx context.Context, src []byte, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = string(drawing.FormatJSON)
	}
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	format, _ := drawing.ParseFormat(opts.Format)

	result := &Result{
		ID:         uuid.NewString(),
		SourceHash: cache.Hash(src),
	}
	logger := opts.Logger.With("run", result.ID[:8])

	// Stage 1 and 2: obtain a positioned drawing
	start := time.Now()
	var d *drawing.Drawing
	var err error
	if format == drawing.FormatDOT {
		d, result.CacheInfo.LayoutHit, err = r.LayoutWithCacheInfo(ctx, src, opts)
		if err != nil {
			return nil, fmt.Errorf("layout: %w", err)
		}
		result.Timing.LayoutTime = time.Since(start)
		logger.Info("computed layout",
			"engine", opts.Engine,
			"nodes", len(d.Nodes),
			"cached", result.CacheInfo.LayoutHit,
			"duration", result.Timing.LayoutTime)
	} else {
		d, err = drawing.Read(bytes.NewReader(src), format)
		if err != nil {
			return nil, fmt.Errorf("load: %w", err)
		}
		result.Timing.LoadTime = time.Since(start)
		logger.Debug("loaded drawing", "format", format, "nodes", len(d.Nodes), "links", len(d.Links))
	}
	result.Drawing = d

	// Stage 3: score
	start = time.Now()
	report, hit, err := r.ScoreWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}
	result.Report = report
	result.Stats = report.Stats
	if opts.Clamp {
		result.Stats = report.Stats.Clamp()
	}
	result.Timing.ScoreTime = time.Since(start)
	result.CacheInfo.ScoreHit = hit

	logger.Info("scored drawing",
		"nodes", report.Nodes,
		"links", report.Links,
		"cached", hit,
		"duration", result.Timing.ScoreTime)

	return result, nil
}

// LayoutWithCacheInfo positions a DOT graph with caching and returns cache
// hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, dot []byte, opts Options) (*drawing.Drawing, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	cacheKey := r.Keyer.LayoutKey(cache.Hash(dot), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if d, ok := r.cachedDrawing(ctx, cacheKey); ok {
			return d, true, nil
		}
	}

	hooks.OnLayoutStart(ctx, opts.Engine, len(dot))
	start := time.Now()
	d, err := layout.Layout(ctx, dot, opts.LayoutOptions())
	nodes := 0
	if d != nil {
		nodes = len(d.Nodes)
	}
	hooks.OnLayoutComplete(ctx, opts.Engine, nodes, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(d); err == nil {
		r.store(ctx, keyTypeLayout, cacheKey, data, opts.TTL)
	}
	return d, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, dot []byte, opts Options) (*drawing.Drawing, error) {
	d, _, err := r.LayoutWithCacheInfo(ctx, dot, opts)
	return d, err
}

// ScoreWithCacheInfo evaluates d with caching and returns cache hit info.
// The cache key covers the drawing content and the options that change the
// result, but not Workers, which never does.
func (r *Runner) ScoreWithCacheInfo(ctx context.Context, d *drawing.Drawing, opts Options) (*readability.Report, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()

	canonical, err := json.Marshal(d)
	if err != nil {
		return nil, false, fmt.Errorf("serialize drawing for cache key: %w", err)
	}
	cacheKey := r.Keyer.ScoreKey(cache.Hash(canonical), opts.ScoreKeyOpts())

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil {
			r.Logger.Warn("cache read failed", "type", keyTypeScore, "err", err)
		}
		if err == nil && hit {
			var report readability.Report
			if err := json.Unmarshal(data, &report); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeScore)
				return &report, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeScore)
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	nodes, links, err := d.Inputs()
	if err != nil {
		return nil, false, err
	}
	g, err := readability.Prepare(nodes, links, readability.IndexKey)
	if err != nil {
		return nil, false, err
	}

	hooks.OnScoreStart(ctx, g.NodeCount(), g.LinkCount())
	start := time.Now()
	report := readability.Evaluate(g, opts.ScoreOptions()...)
	hooks.OnScoreComplete(ctx, g.CrossingPairs(), time.Since(start), nil)
	opts.Logger.Debug("evaluated",
		"pairs", g.CrossingPairs(),
		"crossings", report.Crossings/2,
		"resolved", report.ResolvedNodes)

	if data, err := json.Marshal(report); err == nil {
		r.store(ctx, keyTypeScore, cacheKey, data, opts.TTL)
	}
	return report, false, nil
}

// Score is a convenience wrapper that calls ScoreWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Score(ctx context.Context, d *drawing.Drawing, opts Options) (*readability.Report, error) {
	report, _, err := r.ScoreWithCacheInfo(ctx, d, opts)
	return report, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cachedDrawing(ctx context.Context, key string) (*drawing.Drawing, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return nil, false
	}
	var d drawing.Drawing
	if err := json.Unmarshal(data, &d); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeLayout)
	return &d, true
}

// store writes a cache entry. Cache failures are logged, never fatal.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// ReadSource reads pipeline input from rd, enforcing MaxSourceBytes.
func ReadSource(rd io.Reader) ([]byte, error) {
	src, err := io.ReadAll(io.LimitReader(rd, MaxSourceBytes+1))
	if err != nil {
		return nil, err
	}
	if len(src) > MaxSourceBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "input exceeds %d bytes", MaxSourceBytes)
	}
	return src, nil
}

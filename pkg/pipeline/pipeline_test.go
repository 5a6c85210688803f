package pipeline

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/readability/pkg/errors"
	"github.com/matzehuels/readability/pkg/observability"
)

const squareJSON = `{
  "nodes": [{"x": 0, "y": 0}, {"x": 1, "y": 0}, {"x": 1, "y": 1}, {"x": 0, "y": 1}],
  "links": [{"source": 0, "target": 2}, {"source": 1, "target": 3}]
}`

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// brokenCache fails every read, like an unreachable redis.
type brokenCache struct{ *memCache }

func (c *brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New(errors.ErrCodeInternal, "connection refused")
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	mu     sync.Mutex
	scores int
	hits   int
	misses int
}

func (h *recordingHooks) OnScoreStart(context.Context, int, int) {
	h.mu.Lock()
	h.scores++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheHit(context.Context, string) {
	h.mu.Lock()
	h.hits++
	h.mu.Unlock()
}

func (h *recordingHooks) OnCacheMiss(context.Context, string) {
	h.mu.Lock()
	h.misses++
	h.mu.Unlock()
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"yaml", false},
		{"yml", false},
		{"dot", false},
		{"svg", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.IdealAngle != DefaultIdealAngle {
		t.Errorf("IdealAngle = %v, want %v", opts.IdealAngle, DefaultIdealAngle)
	}
	if opts.Divisor != DefaultDivisor {
		t.Errorf("Divisor = %q, want %q", opts.Divisor, DefaultDivisor)
	}
	if opts.Engine != DefaultEngine {
		t.Errorf("Engine = %q, want %q", opts.Engine, DefaultEngine)
	}
	if opts.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", opts.Workers)
	}
	if opts.TTL != DefaultTTL {
		t.Errorf("TTL = %v, want %v", opts.TTL, DefaultTTL)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Explicit values survive
	custom := Options{IdealAngle: 90, Divisor: "2d-2", Workers: 3}
	custom.SetDefaults()
	if custom.IdealAngle != 90 || custom.Divisor != "2d-2" || custom.Workers != 3 {
		t.Errorf("SetDefaults overrode explicit values: %+v", custom)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"Defaults", Options{}, ""},
		{"BadFormat", Options{Format: "svg"}, errors.ErrCodeInvalidFormat},
		{"AngleTooLarge", Options{IdealAngle: 120}, errors.ErrCodeInvalidOption},
		{"NegativeAngle", Options{IdealAngle: -5}, errors.ErrCodeInvalidOption},
		{"BadDivisor", Options{Divisor: "half"}, errors.ErrCodeInvalidOption},
		{"BadEngine", Options{Engine: "osage"}, errors.ErrCodeInvalidOption},
		{"NegativeWorkers", Options{Workers: -1}, errors.ErrCodeInvalidOption},
		{"NegativeScale", Options{Scale: -1}, errors.ErrCodeInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestScoreKeyOptsIgnoresWorkers(t *testing.T) {
	a := Options{Workers: 1}
	b := Options{Workers: 8}
	a.SetDefaults()
	b.SetDefaults()
	if a.ScoreKeyOpts() != b.ScoreKeyOpts() {
		t.Error("worker count must not change the score cache key")
	}

	c := Options{Divisor: "2D-2"}
	d := Options{Divisor: "2d-2"}
	c.SetDefaults()
	d.SetDefaults()
	if c.ScoreKeyOpts() != d.ScoreKeyOpts() {
		t.Error("divisor spelling must not change the score cache key")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))

	res, err := r.Execute(context.Background(), []byte(squareJSON), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.ID == "" || len(res.SourceHash) != 64 {
		t.Errorf("ID = %q, SourceHash = %q", res.ID, res.SourceHash)
	}
	if math.Abs(res.Stats.Crossing-(-1)) > 1e-9 {
		t.Errorf("Crossing = %v, want -1", res.Stats.Crossing)
	}
	if res.Report.Links != 2 {
		t.Errorf("Links = %d, want 2", res.Report.Links)
	}

	clamped, err := r.Execute(context.Background(), []byte(squareJSON), Options{Clamp: true})
	if err != nil {
		t.Fatalf("Execute clamp: %v", err)
	}
	if clamped.Stats.Crossing != 0 {
		t.Errorf("clamped Crossing = %v, want 0", clamped.Stats.Crossing)
	}
	if clamped.Report.Stats.Crossing >= 0 {
		t.Error("the report keeps the unclamped scores")
	}
	if clamped.ID == res.ID {
		t.Error("every run gets its own ID")
	}
}

func TestExecuteIndexRefsIgnoreIDs(t *testing.T) {
	r := NewRunner(nil, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))

	tests := []struct {
		name string
		src  string
	}{
		{"HashID", `{"nodes": [{"id": "#1", "x": 0, "y": 0}, {"x": 1, "y": 0}], "links": [{"source": 0, "target": 1}]}`},
		{"DuplicateID", `{"nodes": [{"id": "a", "x": 0, "y": 0}, {"id": "a", "x": 1, "y": 0}], "links": [{"source": 0, "target": 1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Execute(context.Background(), []byte(tt.src), Options{})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if res.Report.Links != 1 {
				t.Errorf("Links = %d, want 1", res.Report.Links)
			}
		})
	}
}

func TestExecuteCacheReadFailure(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(&brokenCache{newMemCache()}, nil, log.NewWithOptions(&buf, log.Options{}))

	res, err := r.Execute(context.Background(), []byte(squareJSON), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.ScoreHit {
		t.Error("a failed read is not a hit")
	}
	if !strings.Contains(buf.String(), "cache read failed") {
		t.Errorf("log = %q, want a cache read warning", buf.String())
	}
}

func TestExecuteYAML(t *testing.T) {
	src := "nodes: [{x: 0, y: 0}, {x: 1, y: 0}]\nlinks: [{source: 0, target: 1}]\n"
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), []byte(src), Options{Format: "yaml"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Crossing != 1 || res.Stats.AngularResolutionDev != 1 {
		t.Errorf("single link should be perfect, got %+v", res.Stats)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		code errors.Code
	}{
		{"Malformed", `{"nodes": [`, Options{}, errors.ErrCodeInvalidFormat},
		{"UnknownEndpoint", `{"nodes": [{"id": "a"}], "links": [{"source": "a", "target": "b"}]}`, Options{}, errors.ErrCodeEndpointNotFound},
		{"IndexOutOfRange", `{"nodes": [{}], "links": [{"source": 0, "target": 4}]}`, Options{}, errors.ErrCodeEndpointNotFound},
		{"BadOption", squareJSON, Options{IdealAngle: 200}, errors.ErrCodeInvalidOption},
	}

	r := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), []byte(tt.src), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteCaching(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c := newMemCache()
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, []byte(squareJSON), Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ScoreHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(ctx, []byte(squareJSON), Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ScoreHit {
		t.Error("second run should hit the cache")
	}
	if second.Stats != first.Stats {
		t.Errorf("cached stats %+v differ from computed %+v", second.Stats, first.Stats)
	}

	refreshed, err := r.Execute(ctx, []byte(squareJSON), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.ScoreHit {
		t.Error("Refresh should bypass the cache")
	}

	if _, err := r.Execute(ctx, []byte(squareJSON), Options{IdealAngle: 90}); err != nil {
		t.Fatal(err)
	}

	if hooks.scores != 3 {
		t.Errorf("OnScoreStart called %d times, want 3", hooks.scores)
	}
	if hooks.hits != 1 || hooks.misses != 2 {
		t.Errorf("cache hooks: %d hits, %d misses; want 1 and 2", hooks.hits, hooks.misses)
	}
}

func TestExecuteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.json")
	if err := os.WriteFile(path, []byte(squareJSON), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	res, err := r.ExecuteFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("ExecuteFile: %v", err)
	}
	if res.Report.Nodes != 4 {
		t.Errorf("Nodes = %d, want 4", res.Report.Nodes)
	}

	_, err = r.ExecuteFile(context.Background(), filepath.Join(dir, "missing.json"), Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}

	_, err = r.ExecuteFile(context.Background(), filepath.Join(dir, "drawing.txt"), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown extension: got %v, want INVALID_FORMAT", err)
	}

	_, err = r.ExecuteFile(context.Background(), "../escape.json", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("traversal: got %v, want INVALID_PATH", err)
	}
}

func TestReadSourceLimit(t *testing.T) {
	if _, err := ReadSource(strings.NewReader("small")); err != nil {
		t.Errorf("ReadSource small: %v", err)
	}
	big := strings.NewReader(strings.Repeat("x", MaxSourceBytes+1))
	if _, err := ReadSource(big); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadSource oversized: got %v, want INVALID_INPUT", err)
	}
}

func TestExecuteDOT(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the graphviz engine")
	}

	c := newMemCache()
	r := NewRunner(c, nil, nil)
	dot := []byte(`graph { a -- b; b -- c; c -- d; d -- a; a -- c; b -- d }`)

	first, err := r.Execute(context.Background(), dot, Options{Format: "dot"})
	if err != nil {
		t.Fatalf("Execute dot: %v", err)
	}
	if first.Report.Nodes != 4 || first.Report.Links != 6 {
		t.Errorf("got %d nodes and %d links, want 4 and 6", first.Report.Nodes, first.Report.Links)
	}
	if first.CacheInfo.LayoutHit {
		t.Error("first layout should miss the cache")
	}

	second, err := r.Execute(context.Background(), dot, Options{Format: "dot"})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.ScoreHit {
		t.Errorf("second run cache info = %+v, want both hits", second.CacheInfo)
	}
}

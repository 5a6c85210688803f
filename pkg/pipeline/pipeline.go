// Package pipeline provides the scoring pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// The pipeline has up to three stages:
//
//  1. Load: decode a drawing (JSON or YAML) from bytes or a file
//  2. Layout: for DOT input only, position the graph with Graphviz
//  3. Score: evaluate the four readability metrics
//
// Layout and score results are cached under content-hash keys, so scoring
// the same file twice with the same options is a cache hit.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.ExecuteFile(ctx, "drawing.json", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Crossing)
//
// Run individual stages:
//
//	d, err := runner.Layout(ctx, dot, opts)
//	report, err := runner.Score(ctx, d, opts)
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/readability/pkg/cache"
	"github.com/matzehuels/readability/pkg/drawing"
	"github.com/matzehuels/readability/pkg/errors"
	"github.com/matzehuels/readability/pkg/layout"
	"github.com/matzehuels/readability/pkg/readability"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultIdealAngle is the ideal crossing angle in degrees.
	DefaultIdealAngle = readability.DefaultIdealAngle

	// DefaultDivisor names the angular deviation divisor.
	DefaultDivisor = "degree"

	// DefaultEngine is the Graphviz engine used for DOT input.
	DefaultEngine = string(layout.DefaultEngine)

	// DefaultTTL is how long layout and score results stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// MaxSourceBytes bounds the input accepted by the pipeline.
	MaxSourceBytes = 32 << 20
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options
	Format string `json:"format,omitempty"` // json, yaml or dot; detected from the path when empty

	// Layout options (DOT input only)
	Engine string  `json:"engine,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	// Score options
	IdealAngle float64 `json:"ideal_angle,omitempty"`
	Divisor    string  `json:"divisor,omitempty"`
	Workers    int     `json:"workers,omitempty"`
	Clamp      bool    `json:"clamp,omitempty"`

	// Cache options
	Refresh bool          `json:"refresh,omitempty"` // Ignore cached results and overwrite them
	TTL     time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID string `json:"id" yaml:"id"`

	// SourceHash is the content hash of the input bytes.
	SourceHash string `json:"source_hash" yaml:"source_hash"`

	// Stats holds the scores, clamped when Options.Clamp is set.
	Stats readability.Stats `json:"stats" yaml:"stats"`

	// Report is the unclamped evaluation with raw counts.
	Report *readability.Report `json:"report" yaml:"report"`

	// Drawing is the scored drawing. For DOT input it carries the layout.
	Drawing *drawing.Drawing `json:"-" yaml:"-"`

	// Timing contains per-stage durations.
	Timing Timing `json:"timing" yaml:"timing"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache" yaml:"cache"`
}

// Timing contains pipeline execution statistics.
type Timing struct {
	LoadTime   time.Duration `json:"load_ns" yaml:"load_ns"`
	LayoutTime time.Duration `json:"layout_ns" yaml:"layout_ns"`
	ScoreTime  time.Duration `json:"score_ns" yaml:"score_ns"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit" yaml:"layout_hit"` // Whether the layout came from cache
	ScoreHit  bool `json:"score_hit" yaml:"score_hit"`   // Whether the report came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format name is valid.
func ValidateFormat(format string) error {
	_, err := drawing.ParseFormat(format)
	return err
}

// ValidateDivisor checks that a divisor name is valid.
func ValidateDivisor(divisor string) error {
	_, err := readability.ParseDivisor(divisor)
	return err
}

// ValidateEngine checks that a layout engine name is valid.
func ValidateEngine(engine string) error {
	_, err := layout.ParseEngine(engine)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset fields. It never overrides explicit values.
func (o *Options) SetDefaults() {
	if o.IdealAngle == 0 {
		o.IdealAngle = DefaultIdealAngle
	}
	if o.Divisor == "" {
		o.Divisor = DefaultDivisor
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks every option.
func (o *Options) Validate() error {
	o.SetDefaults()
	if o.Format != "" {
		if err := ValidateFormat(o.Format); err != nil {
			return err
		}
	}
	if err := errors.ValidateAngle(o.IdealAngle); err != nil {
		return err
	}
	if err := ValidateDivisor(o.Divisor); err != nil {
		return err
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "workers must not be negative, got %d", o.Workers)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must not be negative, got %v", o.Scale)
	}
	return nil
}

// ScoreOptions converts the options to readability options. Call after
// Validate.
func (o *Options) ScoreOptions() []readability.Option {
	d, _ := readability.ParseDivisor(o.Divisor)
	return []readability.Option{
		readability.WithIdealAngle(o.IdealAngle),
		readability.WithDivisor(d),
		readability.WithWorkers(o.Workers),
	}
}

// LayoutOptions converts the options to layout options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{Engine: layout.Engine(o.Engine), Scale: o.Scale}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Engine: o.Engine, Scale: o.Scale}
}

// ScoreKeyOpts returns cache key options for scoring.
func (o *Options) ScoreKeyOpts() cache.ScoreKeyOpts {
	d, _ := readability.ParseDivisor(o.Divisor)
	return cache.ScoreKeyOpts{IdealAngle: o.IdealAngle, Divisor: d.String()}
}

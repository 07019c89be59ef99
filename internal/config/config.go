// Package config loads and validates tickwake run configuration.
//
// Config files are YAML. Decoding rejects unknown fields; the decoded
// value is then unified against an embedded CUE schema for bounds the type
// system cannot express (non-negative durations, non-empty names).
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tickwake/internal/platform"
)

//go:embed schema.cue
var schemaCUE string

// Timer configures one scheduled event.
type Timer struct {
	Name     string `yaml:"name" json:"name"`
	OffsetMS int64  `yaml:"offset_ms" json:"offset_ms"`
	PeriodMS int64  `yaml:"period_ms" json:"period_ms"` // 0 = one-shot
}

// Offset returns the timer's first due time as an interval from run start.
func (t Timer) Offset() platform.Interval {
	return platform.Interval(t.OffsetMS * 1_000_000)
}

// Period returns the repeat interval; zero means one-shot.
func (t Timer) Period() platform.Interval {
	return platform.Interval(t.PeriodMS * 1_000_000)
}

// Config is a full run configuration.
type Config struct {
	// SpinThresholdNS is the duration below which the sleep engine
	// busy-polls. Zero disables spinning. Defaults to 1000 when omitted.
	SpinThresholdNS int64 `yaml:"spin_threshold_ns" json:"spin_threshold_ns"`

	// TimeoutMS bounds the run; zero runs until the queue empties.
	TimeoutMS int64 `yaml:"timeout_ms" json:"timeout_ms"`

	// TraceDB, when non-empty, is the SQLite path the run's trace is
	// written to.
	TraceDB string `yaml:"trace_db" json:"trace_db"`

	Timers []Timer `yaml:"timers" json:"timers"`
}

// SpinThreshold returns the configured spin threshold as an interval.
func (c *Config) SpinThreshold() platform.Interval {
	return platform.Interval(c.SpinThresholdNS)
}

// Timeout returns the configured run bound; zero means unbounded.
func (c *Config) Timeout() platform.Interval {
	return platform.Interval(c.TimeoutMS * 1_000_000)
}

// Load reads, decodes, and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "config file not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: err.Error()}
	}

	// Omitted fields keep their defaults; explicit values override them.
	cfg := Config{SpinThresholdNS: int64(platform.DefaultSpinThreshold)}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
	}
	if cfg.Timers == nil {
		cfg.Timers = []Timer{}
	}

	if err := Validate(&cfg); err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return &cfg, nil
}

// Validate unifies the config with the embedded CUE schema and applies the
// checks the schema cannot express (duplicate timer names).
func Validate(cfg *Config) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Config: %w", err)
	}

	val := ctx.Encode(cfg)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := def.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeInvalid, Message: cueerrors.Details(err, nil)}
	}

	seen := make(map[string]bool, len(cfg.Timers))
	for _, timer := range cfg.Timers {
		if seen[timer.Name] {
			return &LoadError{
				Code:    ErrCodeInvalid,
				Message: fmt.Sprintf("duplicate timer name %q", timer.Name),
			}
		}
		seen[timer.Name] = true
	}

	return nil
}

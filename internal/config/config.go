package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fieldtrace/internal/bounds"
	"github.com/san-kum/fieldtrace/internal/field"
	"github.com/san-kum/fieldtrace/internal/trace"
)

const (
	DefaultField     = "rotation"
	DefaultMethod    = "rk4"
	DefaultDirection = "both"
	DefaultDt        = 0.01
	DefaultSteps     = 1000
)

var ErrInvalid = errors.New("config: invalid trace job")

// Config describes one trace job. Either Field names a library field or
// Expr lists one expression per axis.
type Config struct {
	Name      string             `yaml:"name,omitempty"`
	Field     string             `yaml:"field,omitempty" validate:"required_without=Expr,excluded_with=Expr"`
	Expr      []string           `yaml:"expr,omitempty" validate:"dive,required"`
	Params    map[string]float64 `yaml:"params,omitempty" validate:"dive,finite"`
	Method    string             `yaml:"method" validate:"required"`
	Direction string             `yaml:"direction" validate:"direction"`
	Dt        float64            `yaml:"dt" validate:"gt=0,finite"`
	Steps     int                `yaml:"steps" validate:"gte=1"`
	Seed      []float64          `yaml:"seed,omitempty" validate:"dive,finite"`
	Bounds    *BoundsConfig      `yaml:"bounds,omitempty"`
}

// BoundsConfig is either a box (lo/hi per axis, or one value each for a
// radial range) or a radial range given by min/max.
type BoundsConfig struct {
	Lo  []float64 `yaml:"lo,omitempty"`
	Hi  []float64 `yaml:"hi,omitempty"`
	Min *float64  `yaml:"min,omitempty"`
	Max *float64  `yaml:"max,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Field:     DefaultField,
		Method:    DefaultMethod,
		Direction: DefaultDirection,
		Dt:        DefaultDt,
		Steps:     DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a job over the defaults.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return DefaultConfig(), nil
	}
	return ParseNode(doc.Content[0])
}

// ParseNode decodes one job mapping over the defaults. An expression job
// that does not name a field does not inherit the default field.
func ParseNode(node *yaml.Node) (*Config, error) {
	cfg := DefaultConfig()
	if err := node.Decode(cfg); err != nil {
		return nil, err
	}
	var probe struct {
		Field *string `yaml:"field"`
	}
	if err := node.Decode(&probe); err != nil {
		return nil, err
	}
	if len(cfg.Expr) > 0 && probe.Field == nil {
		cfg.Field = ""
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Expr = append([]string(nil), c.Expr...)
	out.Seed = append([]float64(nil), c.Seed...)
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	if c.Bounds != nil {
		b := *c.Bounds
		b.Lo = append([]float64(nil), c.Bounds.Lo...)
		b.Hi = append([]float64(nil), c.Bounds.Hi...)
		out.Bounds = &b
	}
	return &out
}

// Validate checks the job's own fields. Names of fields and methods are
// resolved later against the registries.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}
	if _, err := c.BoundsSpec(); err != nil {
		return err
	}
	return nil
}

func (c *Config) TraceDirection() (trace.Direction, error) {
	return trace.ParseDirection(c.Direction)
}

// SeedPosition returns the configured seed, or nil when none is set.
func (c *Config) SeedPosition() field.Position {
	if len(c.Seed) == 0 {
		return nil
	}
	return field.Position(c.Seed).Clone()
}

// BoundsSpec converts the bounds block. Limit order and arity are checked
// later against the seed dimension.
func (c *Config) BoundsSpec() (bounds.Spec, error) {
	b := c.Bounds
	if b == nil {
		return bounds.None(), nil
	}

	pair := len(b.Lo) > 0 || len(b.Hi) > 0
	radial := b.Min != nil || b.Max != nil
	switch {
	case pair && radial:
		return bounds.Spec{}, fmt.Errorf("%w: bounds take lo/hi or min/max, not both", ErrInvalid)
	case pair:
		return bounds.FromPair(b.Lo, b.Hi), nil
	case radial:
		lo, hi := 0.0, math.Inf(1)
		if b.Min != nil {
			lo = *b.Min
		}
		if b.Max != nil {
			hi = *b.Max
		}
		return bounds.Range(lo, hi), nil
	default:
		return bounds.None(), nil
	}
}

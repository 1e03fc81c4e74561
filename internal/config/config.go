package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pelletier/go-toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Load for file extensions it cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Duration wraps time.Duration so configuration files can use human readable
// strings such as "16ms". Numbers are read as nanoseconds.
type Duration time.Duration

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON encodes the duration using the canonical string representation.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON decodes a duration from either a string (e.g. "250ms") or a
// numeric value representing nanoseconds. Empty strings and null values decode
// to zero.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("duration: empty value")
	}
	if string(b) == "null" {
		*d = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("duration: decode string: %w", err)
		}
		return d.UnmarshalText([]byte(s))
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*d = Duration(time.Duration(f))
		return nil
	}
	return fmt.Errorf("duration: invalid value %s", string(b))
}

// UnmarshalText parses strings accepted by time.ParseDuration.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration: parse %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: line %d: expected a scalar", node.Line)
	}
	if node.Tag == "!!int" {
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("duration: line %d: %w", node.Line, err)
		}
		*d = Duration(time.Duration(n))
		return nil
	}
	return d.UnmarshalText([]byte(node.Value))
}

// Config captures everything needed to boot the engine host.
type Config struct {
	World      WorldConfig   `json:"world" yaml:"world"`
	Generation PoolConfig    `json:"generation" yaml:"generation"`
	Meshing    PoolConfig    `json:"meshing" yaml:"meshing"`
	Raycast    RaycastConfig `json:"raycast" yaml:"raycast"`
	Host       HostConfig    `json:"host" yaml:"host"`
	Logging    LoggingConfig `json:"logging" yaml:"logging"`
}

type WorldConfig struct {
	// Seed is either a decimal number or a phrase that gets hashed.
	Seed           string       `json:"seed" yaml:"seed"`
	Generator      string       `json:"generator" yaml:"generator"`
	InitialExtent  ExtentConfig `json:"initialExtent" yaml:"initialExtent"`
	AdjacentRadius int          `json:"adjacentRadius" yaml:"adjacentRadius"`
	Tiers          TierConfig   `json:"tiers" yaml:"tiers"`
}

// SeedValue turns Seed into the generator seed. Decimal numbers are used as
// is; any other text is hashed with xxhash.
func (w WorldConfig) SeedValue() uint64 {
	s := strings.TrimSpace(w.Seed)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n
	}
	return xxhash.Sum64String(s)
}

// ExtentConfig is a box size in chunks.
type ExtentConfig struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	Depth  int `json:"depth" yaml:"depth"`
}

// TierConfig holds the chunk distances that separate generation priorities.
type TierConfig struct {
	Highest float64 `json:"highest" yaml:"highest"`
	Normal  float64 `json:"normal" yaml:"normal"`
	Low     float64 `json:"low" yaml:"low"`
}

type PoolConfig struct {
	Workers int `json:"workers" yaml:"workers"`
}

type RaycastConfig struct {
	MaxDistance float32 `json:"maxDistance" yaml:"maxDistance"`
}

type HostConfig struct {
	FrameInterval Duration   `json:"frameInterval" yaml:"frameInterval"` // e.g. "16ms"
	Frames        int        `json:"frames" yaml:"frames"`               // 0 runs until interrupted
	Focus         [3]float32 `json:"focus" yaml:"focus"`
	FocusVelocity [3]float32 `json:"focusVelocity" yaml:"focusVelocity"` // blocks per frame
	PreviewDir    string     `json:"previewDir" yaml:"previewDir"`
}

type LoggingConfig struct {
	Level       string `json:"level" yaml:"level"`
	Development bool   `json:"development" yaml:"development"`
	Encoding    string `json:"encoding" yaml:"encoding"` // "json" or "console"
}

// Build creates the process logger.
func (l LoggingConfig) Build() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if l.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if l.Level != "" {
		level, err := zap.ParseAtomicLevel(l.Level)
		if err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}
		zc.Level = level
	}
	if l.Encoding != "" {
		zc.Encoding = l.Encoding
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Load reads configuration from a YAML, TOML or JSON file, chosen by
// extension. An empty path returns defaults. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := decode(filepath.Ext(path), data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func decode(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		// TOML is normalised through the JSON decoder so both share tags
		// and Duration parsing.
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(tree.ToMap())
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, cfg)
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}
}

func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:           "1337",
			Generator:      "standard",
			InitialExtent:  ExtentConfig{Width: 4, Height: 2, Depth: 4},
			AdjacentRadius: 2,
			Tiers:          TierConfig{Highest: 3, Normal: 6, Low: 10},
		},
		Generation: PoolConfig{Workers: 8},
		Meshing:    PoolConfig{Workers: 8},
		Raycast:    RaycastConfig{MaxDistance: 64},
		Host: HostConfig{
			FrameInterval: Duration(16 * time.Millisecond),
			Focus:         [3]float32{8, 24, 8},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}

func (c *Config) Validate() error {
	if c.World.Generator == "" {
		return errors.New("world.generator must be set")
	}
	extent := c.World.InitialExtent
	if extent.Width < 0 || extent.Height < 0 || extent.Depth < 0 {
		return errors.New("world.initialExtent cannot be negative")
	}
	if c.World.AdjacentRadius < 0 {
		return errors.New("world.adjacentRadius cannot be negative")
	}
	tiers := c.World.Tiers
	if tiers.Highest <= 0 || tiers.Normal < tiers.Highest || tiers.Low < tiers.Normal {
		return errors.New("world.tiers must be positive and ascending")
	}
	if c.Generation.Workers <= 0 || c.Meshing.Workers <= 0 {
		return errors.New("generation and meshing workers must be positive")
	}
	if c.Raycast.MaxDistance <= 0 {
		return errors.New("raycast.maxDistance must be positive")
	}
	if c.Host.FrameInterval < 0 {
		return errors.New("host.frameInterval cannot be negative")
	}
	if c.Host.Frames < 0 {
		return errors.New("host.frames cannot be negative")
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.encoding %q must be json or console", c.Logging.Encoding)
	}
	return nil
}

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing generator",
			mutate:  func(cfg *Config) { cfg.World.Generator = "" },
			wantErr: "world.generator must be set",
		},
		{
			name:    "negative extent",
			mutate:  func(cfg *Config) { cfg.World.InitialExtent.Depth = -1 },
			wantErr: "world.initialExtent cannot be negative",
		},
		{
			name:    "descending tiers",
			mutate:  func(cfg *Config) { cfg.World.Tiers.Low = 2 },
			wantErr: "world.tiers must be positive and ascending",
		},
		{
			name:    "no meshing workers",
			mutate:  func(cfg *Config) { cfg.Meshing.Workers = 0 },
			wantErr: "generation and meshing workers must be positive",
		},
		{
			name:    "zero raycast distance",
			mutate:  func(cfg *Config) { cfg.Raycast.MaxDistance = 0 },
			wantErr: "raycast.maxDistance must be positive",
		},
		{
			name:    "negative frames",
			mutate:  func(cfg *Config) { cfg.Host.Frames = -3 },
			wantErr: "host.frames cannot be negative",
		},
		{
			name:    "unknown log encoding",
			mutate:  func(cfg *Config) { cfg.Logging.Encoding = "xml" },
			wantErr: `logging.encoding "xml" must be json or console`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error %q", tt.wantErr)
			}
			if err.Error() != tt.wantErr {
				t.Fatalf("unexpected error: got %q want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadJSON(t *testing.T) {
	cfg := Default()
	cfg.World.Seed = "hello world"
	cfg.World.Generator = "tower"
	cfg.Host.FrameInterval = Duration(5 * time.Millisecond)
	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	got, err := Load(writeFile(t, "engine.json", string(data)))
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadYAMLKeepsDefaultsForMissingFields(t *testing.T) {
	path := writeFile(t, "engine.yaml", strings.Join([]string{
		"world:",
		"  seed: glacier",
		"  generator: rolling",
		"  initialExtent: {width: 2, height: 1, depth: 2}",
		"host:",
		"  frameInterval: 20ms",
		"  frames: 30",
		"  focus: [1, 2, 3]",
		"logging:",
		"  level: debug",
	}, "\n"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "rolling", cfg.World.Generator)
	assert.Equal(t, ExtentConfig{Width: 2, Height: 1, Depth: 2}, cfg.World.InitialExtent)
	assert.Equal(t, 20*time.Millisecond, cfg.Host.FrameInterval.Duration())
	assert.Equal(t, 30, cfg.Host.Frames)
	assert.Equal(t, [3]float32{1, 2, 3}, cfg.Host.Focus)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, Default().Generation, cfg.Generation)
	assert.Equal(t, Default().World.Tiers, cfg.World.Tiers)
}

func TestLoadYAMLNumericDuration(t *testing.T) {
	cfg, err := Load(writeFile(t, "engine.yml", "host:\n  frameInterval: 1000000\n"))
	require.NoError(t, err)
	assert.Equal(t, time.Millisecond, cfg.Host.FrameInterval.Duration())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "engine.toml", strings.Join([]string{
		"[world]",
		`seed = "42"`,
		`generator = "flat"`,
		"adjacentRadius = 3",
		"",
		"[world.tiers]",
		"highest = 2.0",
		"normal = 4.0",
		"low = 8.0",
		"",
		"[meshing]",
		"workers = 2",
		"",
		"[host]",
		`frameInterval = "33ms"`,
	}, "\n"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "flat", cfg.World.Generator)
	assert.Equal(t, uint64(42), cfg.World.SeedValue())
	assert.Equal(t, 3, cfg.World.AdjacentRadius)
	assert.Equal(t, TierConfig{Highest: 2, Normal: 4, Low: 8}, cfg.World.Tiers)
	assert.Equal(t, 2, cfg.Meshing.Workers)
	assert.Equal(t, Default().Generation.Workers, cfg.Generation.Workers)
	assert.Equal(t, 33*time.Millisecond, cfg.Host.FrameInterval.Duration())
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load(writeFile(t, "engine.ini", "seed=1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoadInvalidConfiguration(t *testing.T) {
	_, err := Load(writeFile(t, "engine.json", `{"raycast": {"maxDistance": -4}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raycast.maxDistance must be positive")

	_, err = Load(writeFile(t, "engine.json", `{"host": {"frameInterval": "soon"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soon")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSeedValue(t *testing.T) {
	assert.Equal(t, uint64(0), WorldConfig{}.SeedValue())
	assert.Equal(t, uint64(1337), WorldConfig{Seed: " 1337 "}.SeedValue())
	assert.Equal(t, xxhash.Sum64String("voxel"), WorldConfig{Seed: "voxel"}.SeedValue())
	assert.Equal(t, WorldConfig{Seed: "-5"}.SeedValue(), xxhash.Sum64String("-5"))
}

func TestDurationJSONForms(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"1.5s"`), &d))
	assert.Equal(t, 1500*time.Millisecond, d.Duration())
	require.NoError(t, json.Unmarshal([]byte(`2000`), &d))
	assert.Equal(t, 2*time.Microsecond, d.Duration())
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Zero(t, d)

	out, err := json.Marshal(Duration(250 * time.Millisecond))
	require.NoError(t, err)
	assert.JSONEq(t, `"250ms"`, string(out))
}

func TestLoggingBuild(t *testing.T) {
	logger, err := LoggingConfig{Level: "warn", Encoding: "json"}.Build()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = LoggingConfig{Level: "chatty"}.Build()
	assert.Error(t, err)
}

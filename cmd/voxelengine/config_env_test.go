package main

import (
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelengine/internal/config"
)

func TestWriteConfigFromEnvJSON(t *testing.T) {
	t.Setenv(envConfigYAMLB64, "")
	t.Setenv(envConfigJSON, `{"world": {"generator": "tower", "seed": "json-config"}}`)

	path := filepath.Join(t.TempDir(), "nested", "engine.json")
	wrote, err := writeConfigFromEnv(path)
	if err != nil {
		t.Fatalf("writeConfigFromEnv: %v", err)
	}
	if !wrote {
		t.Fatalf("expected config to be written")
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.World.Generator != "tower" || cfg.World.Seed != "json-config" {
		t.Fatalf("unexpected world config: %+v", cfg.World)
	}
	if cfg.Meshing != config.Default().Meshing {
		t.Fatalf("missing fields should keep defaults, got %+v", cfg.Meshing)
	}
}

func TestWriteConfigFromEnvYAML(t *testing.T) {
	yamlDoc := "world:\n  generator: rolling\nhost:\n  frames: 12\n  frameInterval: 5ms\n"
	t.Setenv(envConfigJSON, "")
	t.Setenv(envConfigYAMLB64, base64.StdEncoding.EncodeToString([]byte(yamlDoc)))

	path := filepath.Join(t.TempDir(), "engine.json")
	wrote, err := writeConfigFromEnv(path)
	if err != nil {
		t.Fatalf("writeConfigFromEnv: %v", err)
	}
	if !wrote {
		t.Fatalf("expected config to be written")
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.World.Generator != "rolling" || cfg.Host.Frames != 12 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestWriteConfigFromEnvRejectsInvalidPayloads(t *testing.T) {
	t.Setenv(envConfigYAMLB64, "")
	t.Setenv(envConfigJSON, `{"raycast": {"maxDistance": 0}}`)
	if _, err := writeConfigFromEnv(filepath.Join(t.TempDir(), "engine.json")); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := writeConfigFromEnv(""); err == nil {
		t.Fatalf("expected error without a config path")
	}
	if _, err := writeConfigFromEnv(filepath.Join(t.TempDir(), "engine.yaml")); err == nil {
		t.Fatalf("expected error for a non-json target")
	}
}

func TestWriteConfigFromEnvNoPayload(t *testing.T) {
	t.Setenv(envConfigJSON, "")
	t.Setenv(envConfigYAMLB64, "")

	wrote, err := writeConfigFromEnv(filepath.Join(t.TempDir(), "unused.json"))
	if err != nil {
		t.Fatalf("writeConfigFromEnv: %v", err)
	}
	if wrote {
		t.Fatalf("expected no config to be written")
	}
}

func TestFocusPathMovesLinearly(t *testing.T) {
	focus := focusPath(config.HostConfig{
		Focus:         [3]float32{8, 24, 8},
		FocusVelocity: [3]float32{0.5, 0, -1},
	})
	if got := focus(0); got != (mgl32.Vec3{8, 24, 8}) {
		t.Fatalf("frame 0 focus = %v", got)
	}
	if got := focus(10); got != (mgl32.Vec3{13, 24, -2}) {
		t.Fatalf("frame 10 focus = %v", got)
	}
}

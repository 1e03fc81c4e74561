package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"voxelengine/internal/config"
	"voxelengine/internal/engine"
	"voxelengine/internal/mesh"
)

func main() {
	var (
		cfgPath    string
		frames     int
		previewDir string
	)
	flag.StringVar(&cfgPath, "config", "", "path to engine configuration file (json, yaml or toml)")
	flag.IntVar(&frames, "frames", -1, "number of frames to run, 0 runs until interrupted (overrides config)")
	flag.StringVar(&previewDir, "preview", "", "directory for chunk preview PNGs written on exit (overrides config)")
	flag.Parse()

	if _, err := writeConfigFromEnv(cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "sync config: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if frames >= 0 {
		cfg.Host.Frames = frames
	}
	if previewDir != "" {
		cfg.Host.PreviewDir = previewDir
	}

	logger, err := cfg.Logging.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("engine exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	renderer := mesh.NewHeadless(0)
	e, err := engine.New(cfg, renderer, logger)
	if err != nil {
		return fmt.Errorf("initialise engine: %w", err)
	}
	defer e.Close()

	queued := e.Reset()
	logger.Info("world reset",
		zap.String("generator", cfg.World.Generator),
		zap.Uint64("seed", cfg.World.SeedValue()),
		zap.Int("queued", queued))

	ctx, cancel := signalContext(logger)
	defer cancel()

	err = e.Run(ctx, focusPath(cfg.Host))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := renderer.Stats()
	logger.Info("renderer totals",
		zap.Int("meshes", stats.Meshes),
		zap.Int("vertices", stats.Vertices),
		zap.Int("triangles", stats.Triangles),
		zap.Int("draws", stats.Draws))

	if cfg.Host.PreviewDir != "" {
		written, err := e.SavePreviews(cfg.Host.PreviewDir)
		logger.Info("chunk previews written", zap.String("dir", cfg.Host.PreviewDir), zap.Int("count", written))
		if err != nil {
			return fmt.Errorf("save previews: %w", err)
		}
	}
	return nil
}

// focusPath moves the focus in a straight line from its configured start.
func focusPath(host config.HostConfig) engine.FocusFunc {
	start := mgl32.Vec3(host.Focus)
	velocity := mgl32.Vec3(host.FocusVelocity)
	return func(frame uint64) mgl32.Vec3 {
		return start.Add(velocity.Mul(float32(frame)))
	}
}

func signalContext(logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			logger.Info("shutting down", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(10*time.Second, func() {
			logger.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}

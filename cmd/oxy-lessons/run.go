package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/demos"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"go.uber.org/zap"
)

func runLesson(ctx context.Context, lesson demos.Lesson, cfg sessionConfig, out io.Writer) error {
	logger, err := common.NewLogger(cfg.LogLevel, cfg.Development)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("lesson", lesson.Name))

	backend, err := cfg.backend()
	if err != nil {
		return err
	}
	if backend == renderer.BackendTypeSoftware {
		return runHeadless(ctx, lesson, cfg, logger, out)
	}
	return runWindowed(ctx, lesson, cfg, logger)
}

func engineOptions(lesson demos.Lesson, cfg sessionConfig, logger *zap.Logger) []engine.EngineBuilderOption {
	options := []engine.EngineBuilderOption{
		engine.WithLogger(logger),
		engine.WithSize(cfg.Width, cfg.Height),
		engine.WithPixelRatio(cfg.PixelRatio, cfg.MaxPixelRatio),
		engine.WithProfiling(cfg.Profile),
	}
	return append(options, lesson.EngineOptions()...)
}

// runHeadless steps a manual source so every frame is rendered, regardless of wall time.
func runHeadless(ctx context.Context, lesson demos.Lesson, cfg sessionConfig, logger *zap.Logger, out io.Writer) (err error) {
	src := driver.NewManualSource(time.Second / time.Duration(cfg.FPS))
	e, err := engine.NewEngine(append(engineOptions(lesson, cfg, logger), engine.WithRefreshSource(src))...)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, e.Close()) }()

	soft, ok := e.Backend().(*renderer.SoftwareBackend)
	if !ok {
		return fmt.Errorf("headless run got a %T backend", e.Backend())
	}
	if cfg.Out != "" {
		if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
			return fmt.Errorf("snapshot dir: %w", err)
		}
	}

	if err := lesson.Setup(e); err != nil {
		return fmt.Errorf("setup %s: %w", lesson.Name, err)
	}
	if err := e.Start(ctx); err != nil {
		return err
	}

	for frame := 1; frame <= cfg.Frames; frame++ {
		if !src.Tick() {
			logger.Info("loop stopped early", zap.Int("frame", frame))
			break
		}
		if cfg.Out == "" {
			continue
		}
		if frame == cfg.Frames || (cfg.SnapshotEvery > 0 && frame%cfg.SnapshotEvery == 0) {
			path := filepath.Join(cfg.Out, fmt.Sprintf("%s-%04d.png", lesson.Name, frame))
			if err := soft.SavePNG(path); err != nil {
				return err
			}
			fmt.Fprintln(out, path)
		}
	}

	s := e.Driver().Stats()
	if s.Errors > 0 {
		return fmt.Errorf("%s: %d frame errors in %d frames", lesson.Name, s.Errors, s.Frames)
	}
	return nil
}

func runWindowed(ctx context.Context, lesson demos.Lesson, cfg sessionConfig, logger *zap.Logger) (err error) {
	win, err := window.NewWindow(
		window.WithTitle("oxy-lessons: "+lesson.Name),
		window.WithSize(cfg.Width, cfg.Height),
	)
	if err != nil {
		return err
	}
	e, err := engine.NewEngine(append(engineOptions(lesson, cfg, logger),
		engine.WithWindow(win),
		engine.WithFPS(cfg.FPS),
	)...)
	if err != nil {
		_ = win.Close()
		return err
	}
	defer func() { err = errors.Join(err, e.Close()) }()

	if err := lesson.Setup(e); err != nil {
		return fmt.Errorf("setup %s: %w", lesson.Name, err)
	}
	if cfg.Frames > 0 {
		limit := uint64(cfg.Frames)
		e.AddUpdate("frame-limit", func(f driver.FrameInfo) error {
			if f.Frame >= limit {
				e.Stop()
			}
			return nil
		})
	}
	logger.Info("running", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height), zap.Int("fps", cfg.FPS))
	return e.Run(ctx)
}

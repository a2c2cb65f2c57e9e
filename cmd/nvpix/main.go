// Command nvpix shows the images of a directory or archive one at a time.
//
//	nvpix [-config file] [-log-level level] [-metrics-addr host:port] [-snapshot out.png] [path]
//
// path may be an image, a directory or an archive; it defaults to the current
// directory. With -snapshot no window opens: the first image is rendered at
// the configured window size and written to out.png.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/app"
	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/logging"
	"github.com/nekomimist/nvpix/internal/metrics"
	"github.com/nekomimist/nvpix/internal/viewer"
)

// snapshotTimeout bounds how long -snapshot waits for the image to decode.
const snapshotTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "nvpix:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.Path(), "settings file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. localhost:9090")
	snapshot := flag.String("snapshot", "", "render the image headless into this PNG file and exit")
	flag.Parse()

	loaded := config.LoadFromPath(*configPath, nil)
	cfg := loaded.Config

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logger, err := logging.New(logging.Config{Level: level, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	for _, w := range loaded.Warnings {
		logger.Warn("config", zap.String("path", *configPath), zap.String("detail", w))
	}
	logger.Info("config loaded", zap.String("path", *configPath), zap.String("status", loaded.Status))

	m := metrics.New()
	if *metricsAddr != "" {
		srv := &http.Server{Addr: *metricsAddr, Handler: m.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		logger.Info("serving metrics", zap.String("addr", *metricsAddr))
	}

	vctx := viewer.NewContext(cfg, logger, m)
	vctx.ConfigStatus = loaded.Status
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	vctx.Start(ctx)
	defer vctx.Close()

	v := viewer.New(vctx, app.NewDesktop(logger))
	path := "."
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}
	if err := v.Open(path); err != nil {
		if *snapshot != "" {
			return err
		}
		// The viewer shows the error; keep the window open so it can be read.
		logger.Warn("open failed", zap.String("path", path), zap.Error(err))
	}

	if *snapshot != "" {
		if err := app.Snapshot(v, cfg.WindowWidth, cfg.WindowHeight, *snapshot, snapshotTimeout); err != nil {
			return err
		}
		logger.Info("snapshot written", zap.String("path", *snapshot))
		return nil
	}

	game, err := app.NewGame(v, cfg, logger)
	if err != nil {
		return err
	}
	if err := game.Run(); err != nil {
		return err
	}

	if loaded.HasError {
		// Keep the broken file for the user to fix.
		return nil
	}
	cfg.WindowWidth, cfg.WindowHeight = game.WindowSize()
	cfg.Fullscreen = v.Fullscreen()
	config.SaveToPath(cfg, *configPath, logger)
	return nil
}

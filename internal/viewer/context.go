// Package viewer drives navigation between images: it asks the cache and the
// decode pool for frames, follows the generation of the current request and
// assembles the widget tree that shows the result.
package viewer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/cache"
	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/decode"
	"github.com/nekomimist/nvpix/internal/metrics"
	"github.com/nekomimist/nvpix/internal/navigator"
	"github.com/nekomimist/nvpix/internal/worker"
)

// Context holds the long-lived collaborators built once at startup and shared
// by every component.
type Context struct {
	Config       config.Config
	ConfigStatus string
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	Navigator    *navigator.Navigator
	Registry     *decode.Registry
	Cache        *cache.Cache
	Pool         *worker.Pool
}

// NewContext wires the navigator, decoders, cache and decode pool from cfg.
// The pool is not started.
func NewContext(cfg config.Config, logger *zap.Logger, m *metrics.Metrics) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Context{
		Config:       cfg,
		ConfigStatus: config.StatusDefault,
		Logger:       logger,
		Metrics:      m,
		Navigator:    navigator.New(navigator.GetSortStrategy(cfg.SortMethod), logger.Named("navigator")),
		Registry:     decode.DefaultRegistry(),
		Cache:        cache.New(cfg.CacheBudget(), logger.Named("cache"), m),
	}
	c.Pool = worker.New(worker.Config{
		Workers:    cfg.DecodeWorkers,
		QueueDepth: cfg.QueueDepth,
	}, c.Decode, logger.Named("worker"), m)
	return c
}

// Decode reads the image named by req and runs it through the registry.
// Read failures are reported as decode errors of kind IO wrapping the
// navigator's IoError.
func (c *Context) Decode(ctx context.Context, req worker.Request) (*decode.FrameSequence, error) {
	data, err := navigator.ReadImage(req.Path)
	if err != nil {
		return nil, &decode.Error{Kind: decode.KindIO, Path: req.Path.Path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Registry.Decode(req.Path.Path, data, decode.Options{
		ScaleHint:        req.ScaleHint,
		MinFrameDuration: c.Config.MinFrameDuration(),
		MaxBytes:         c.Config.CacheBudget(),
	})
}

// Start launches the decode workers until ctx is done.
func (c *Context) Start(ctx context.Context) {
	c.Pool.Start(ctx)
}

// Close stops the decode workers and waits for them.
func (c *Context) Close() {
	c.Pool.Stop()
	s := c.Pool.Stats()
	c.Logger.Debug("decode pool stopped",
		zap.Int("completed", s.Completed),
		zap.Int("failed", s.Failed),
		zap.Int("dropped", s.Dropped))
}

// errorKind names the failure shown to the user.
func errorKind(err error) string {
	var ioErr *navigator.IoError
	if errors.As(err, &ioErr) {
		return decode.KindIO.String()
	}
	return decode.KindOf(err).String()
}

package container

import (
	"context"
	"fmt"

	"adspend/adapters/coercer"
	"adspend/adapters/excel"
	"adspend/app"
	"adspend/internal"
	"adspend/internal/cache"
	"adspend/internal/config"
	"adspend/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data access
	Loader  *excel.Loader
	Cache   *cache.DatasetCache
	Watcher *cache.WorkbookWatcher

	// Application
	Dashboard *app.DashboardService
	Server    *ui.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level))
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.initData()
	c.initApplication()
	return c, nil
}

// initData wires the workbook loader behind the memoizing cache
func (c *Container) initData() {
	loaderConfig := excel.DefaultLoaderConfig()
	loaderConfig.Layout.Sheet = c.Config.Data.Sheet
	loaderConfig.Layout.HeaderRow = c.Config.Data.HeaderRow
	if c.Config.Data.LenientNumbers {
		loaderConfig.CoercionConfig = coercer.LenientCoercionConfig()
	}

	c.Loader = excel.NewLoader(loaderConfig, c.Logger)
	c.Cache = cache.NewDatasetCache(c.Loader, c.Logger)
}

// initApplication wires the dashboard service and HTTP server
func (c *Container) initApplication() {
	c.Dashboard = app.NewDashboardService(c.Cache, c.Config.Data.WorkbookPath, c.Config.Data.TopN, c.Logger)
	c.Server = ui.NewServer(c.Dashboard, c.Cache, c.Logger)
	c.Server.SetShutdownTimeout(c.Config.Server.ShutdownTimeout)
}

// StartWatcher begins invalidating the cache on workbook changes, if enabled.
// A watcher that cannot start is logged and skipped; mtime checks still apply.
func (c *Container) StartWatcher(ctx context.Context) {
	if !c.Config.Data.WatchWorkbook {
		return
	}

	watcher, err := cache.NewWorkbookWatcher(c.Config.Data.WorkbookPath, c.Cache, c.Logger)
	if err != nil {
		c.Logger.Warn("[Container] Workbook watcher unavailable: %v", err)
		return
	}
	if err := watcher.Start(ctx); err != nil {
		c.Logger.Warn("[Container] Workbook watcher failed to start: %v", err)
		watcher.Stop()
		return
	}
	c.Watcher = watcher
}

// Warm loads the workbook once so the first request is served from cache.
// Failures are logged; requests report them again with their own status.
func (c *Container) Warm(ctx context.Context) {
	ds, err := c.Dashboard.Dataset(ctx)
	if err != nil {
		c.Logger.Warn("[Container] Initial workbook load failed: %v", err)
		return
	}
	c.Logger.Info("[Container] Loaded %d rows from %s", ds.Len(), ds.Source)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	c.Logger.Info("[Container] Shutting down")
	if c.Watcher != nil {
		c.Watcher.Stop()
	}
	c.Cache.Clear()
	return nil
}

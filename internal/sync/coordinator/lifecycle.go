package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
)

// Start runs the startup build and, when a refresh interval is set, the
// periodic refresh loop. It returns without waiting for the first build.
func (c *DefaultCoordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelFunc != nil {
		return errors.New("coordinator already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.runCtx = runCtx
	c.cancelFunc = cancel

	logger.Infof("Starting build coordinator (build on startup: %t, refresh interval: %s)",
		c.buildOnStartup, c.refreshInterval)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.loop(runCtx)
	}()

	return nil
}

func (c *DefaultCoordinator) loop(ctx context.Context) {
	if c.buildOnStartup {
		c.runBuild(ctx, "startup")
	}

	if c.refreshInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Build coordinator refresh loop stopped")
			return
		case <-ticker.C:
			c.runBuild(ctx, "refresh")
		}
	}
}

// Trigger starts a build in the background. It does not wait for the build.
func (c *DefaultCoordinator) Trigger() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelFunc == nil {
		return ErrNotStarted
	}
	if c.building.Load() {
		return ErrBuildInProgress
	}

	// Stop clears runCtx under the lock; the goroutine must not read the field
	ctx := c.runCtx
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.runBuild(ctx, "manual")
	}()
	return nil
}

func (c *DefaultCoordinator) runBuild(ctx context.Context, trigger string) {
	result := c.EnsureUpToDate(ctx, func(p Progress) {
		logger.Debugf("Build progress (%s): %s: %s", trigger, p.Stage, p.Message)
	})

	switch {
	case !result.Success:
		logger.Errorf("Build %s (%s) failed: %s", result.BuildID, trigger, result.Error)
	case result.Deferred:
		logger.Debugf("Build %s (%s) deferred to the running build", result.BuildID, trigger)
	case result.Skipped:
		logger.Infof("Build %s (%s): decoration database is up to date (%d entries)",
			result.BuildID, trigger, result.TotalEntries)
	default:
		logger.Infof("Build %s (%s): decoration database rebuilt with %d entries in %s",
			result.BuildID, trigger, result.TotalEntries, result.Duration)
	}
}

// Stop cancels any running build and waits for background goroutines to exit.
// The coordinator can be started again afterwards.
func (c *DefaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.cancelFunc = nil
	c.runCtx = nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}

	logger.Info("Stopping build coordinator")
	cancel()
	c.wg.Wait()
	return nil
}

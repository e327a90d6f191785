// Package cached provides a DecorationService that keeps the stored database in memory
package cached

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Girbilcannon/DecoToolsHelper/internal/decorations"
	"github.com/Girbilcannon/DecoToolsHelper/internal/logger"
	"github.com/Girbilcannon/DecoToolsHelper/internal/service"
	"github.com/Girbilcannon/DecoToolsHelper/internal/status"
	"github.com/Girbilcannon/DecoToolsHelper/internal/store"
	"github.com/Girbilcannon/DecoToolsHelper/internal/sync/coordinator"
)

// DefaultCacheDuration is how long a loaded database is served before the file is re-read
const DefaultCacheDuration = 5 * time.Second

// Trigger starts a background build
type Trigger interface {
	Trigger() error
}

// decoSvc implements the DecorationService interface
type decoSvc struct {
	mu        sync.RWMutex // Protects db, lastFetch
	db        *decorations.Database
	lastFetch time.Time

	store             store.Store
	trigger           Trigger
	statusPersistence status.StatusPersistence
	cacheDuration     time.Duration
}

var _ service.DecorationService = (*decoSvc)(nil)

// Option is a functional option for configuring the service
type Option func(*decoSvc)

// WithCacheDuration sets a custom cache duration for the database
func WithCacheDuration(duration time.Duration) Option {
	return func(s *decoSvc) {
		s.cacheDuration = duration
	}
}

// WithTrigger enables TriggerRebuild
func WithTrigger(t Trigger) Option {
	return func(s *decoSvc) {
		s.trigger = t
	}
}

// WithStatusPersistence enables GetBuildStatus
func WithStatusPersistence(p status.StatusPersistence) Option {
	return func(s *decoSvc) {
		s.statusPersistence = p
	}
}

// New creates a service reading from st. A database that is absent at start
// is not an error; the service reports not ready until one appears.
func New(ctx context.Context, st store.Store, opts ...Option) (service.DecorationService, error) {
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}

	s := &decoSvc{
		store:         st,
		cacheDuration: DefaultCacheDuration,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.load(ctx); err != nil {
		logger.Infof("No decoration database at %s yet", st.Path())
	}
	return s, nil
}

// load returns the cached database, re-reading the file when the cache expired
// or nothing was loaded yet. A stale copy is kept when the re-read fails.
func (s *decoSvc) load(ctx context.Context) (*decorations.Database, error) {
	s.mu.RLock()
	db, fresh := s.db, time.Since(s.lastFetch) <= s.cacheDuration
	s.mu.RUnlock()
	if db != nil && fresh {
		return db, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if s.db != nil && time.Since(s.lastFetch) <= s.cacheDuration {
		return s.db, nil
	}

	loaded, ok := s.store.TryLoad(ctx)
	if !ok {
		if s.db != nil {
			logger.Warnf("Failed to reload decoration database from %s, serving cached copy", s.store.Path())
			return s.db, nil
		}
		return nil, service.ErrNotReady
	}

	if s.db == nil || !loaded.GeneratedAtUTC.Equal(s.db.GeneratedAtUTC) {
		logger.Infof("Loaded decoration database with %d entries (generated %s)",
			len(loaded.Decorations), loaded.GeneratedAtUTC.Format(time.RFC3339))
	}
	s.db = loaded
	s.lastFetch = time.Now()
	return loaded, nil
}

// CheckReadiness implements DecorationService.CheckReadiness
func (s *decoSvc) CheckReadiness(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

// GetDatabase implements DecorationService.GetDatabase
func (s *decoSvc) GetDatabase(ctx context.Context) (*decorations.Database, error) {
	return s.load(ctx)
}

// LookupDecoration implements DecorationService.LookupDecoration
func (s *decoSvc) LookupDecoration(ctx context.Context, name string) (decorations.Entry, error) {
	db, err := s.load(ctx)
	if err != nil {
		return decorations.Entry{}, err
	}
	entry, ok := db.Lookup(name)
	if !ok {
		return decorations.Entry{}, fmt.Errorf("%w: %q", service.ErrDecorationNotFound, name)
	}
	return entry, nil
}

// TriggerRebuild implements DecorationService.TriggerRebuild
func (s *decoSvc) TriggerRebuild(_ context.Context) error {
	if s.trigger == nil {
		return fmt.Errorf("rebuild is not available")
	}
	err := s.trigger.Trigger()
	if errors.Is(err, coordinator.ErrBuildInProgress) {
		return service.ErrRebuildInProgress
	}
	return err
}

// GetBuildStatus implements DecorationService.GetBuildStatus
func (s *decoSvc) GetBuildStatus(ctx context.Context) (*status.BuildStatus, error) {
	if s.statusPersistence == nil {
		return &status.BuildStatus{}, nil
	}
	return s.statusPersistence.LoadStatus(ctx)
}

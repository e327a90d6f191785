// Package service provides the read side of the decoration database for the front door.
package service

import (
	"context"
	"errors"

	"github.com/Girbilcannon/DecoToolsHelper/internal/decorations"
	"github.com/Girbilcannon/DecoToolsHelper/internal/status"
)

var (
	// ErrNotReady is returned while no usable decoration database is stored
	ErrNotReady = errors.New("decoration database is not ready")
	// ErrDecorationNotFound is returned when a loaded database has no entry for a name
	ErrDecorationNotFound = errors.New("decoration not found")
	// ErrRebuildInProgress is returned when a rebuild is requested while one is running
	ErrRebuildInProgress = errors.New("rebuild already in progress")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=service.go DecorationService

// DecorationService defines the operations the front door exposes
type DecorationService interface {
	// CheckReadiness returns ErrNotReady until a database can be loaded
	CheckReadiness(ctx context.Context) error

	// GetDatabase returns the stored database or ErrNotReady
	GetDatabase(ctx context.Context) (*decorations.Database, error)

	// LookupDecoration finds an entry by name, ignoring case and surrounding whitespace
	LookupDecoration(ctx context.Context, name string) (decorations.Entry, error)

	// TriggerRebuild starts a build in the background
	TriggerRebuild(ctx context.Context) error

	// GetBuildStatus returns the persisted outcome of the last build
	GetBuildStatus(ctx context.Context) (*status.BuildStatus, error)
}

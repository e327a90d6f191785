package app

import (
	"github.com/Girbilcannon/DecoToolsHelper/internal/service"
	"github.com/Girbilcannon/DecoToolsHelper/internal/store"
	"github.com/Girbilcannon/DecoToolsHelper/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Coordinator runs decoration database builds
	Coordinator coordinator.Coordinator

	// Service serves the stored database to the front door
	Service service.DecorationService

	// Store is where the database is persisted
	Store store.Store
}

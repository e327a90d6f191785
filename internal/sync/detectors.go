package sync

import (
	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
	"github.com/Girbilcannon/DecoToolsHelper/internal/decorations"
)

// ChangeDetector decides whether a stored database is still current
type ChangeDetector interface {
	// Evaluate compares existing (nil when nothing is stored) with freshly fetched identifier sets
	Evaluate(existing *decorations.Database, guild, homestead catalog.IDSet) Reason
}

// DefaultChangeDetector implements ChangeDetector using set equality
type DefaultChangeDetector struct{}

// Evaluate applies the rebuild rules in order; the first matching rule wins.
func (DefaultChangeDetector) Evaluate(existing *decorations.Database, guild, homestead catalog.IDSet) Reason {
	if existing == nil {
		return ReasonNoDatabase
	}
	if existing.Version != decorations.FormatVersion {
		return ReasonFormatChanged
	}
	if !existing.SourceSnapshot.GuildUpgradeIDs.Equal(guild) {
		return ReasonGuildCatalogChanged
	}
	if !existing.SourceSnapshot.HomesteadIDs.Equal(homestead) {
		return ReasonHomesteadCatalogChanged
	}
	return ReasonUpToDate
}

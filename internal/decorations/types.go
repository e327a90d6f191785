// Package decorations defines the merged decoration dataset and the merge
// engine that builds it from the two catalogs.
package decorations

import (
	"slices"
	"strings"
	"time"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
)

// FormatVersion is the on-disk format of Database. Bumping it forces every
// installation to rebuild on the next run.
const FormatVersion = 1

// Snapshot records the identifier sets a database was built from.
type Snapshot struct {
	GuildUpgradeIDs catalog.IDSet `json:"guildUpgradeIds"`
	HomesteadIDs    catalog.IDSet `json:"homesteadIds"`
}

// Equal reports whether both identifier sets match.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.GuildUpgradeIDs.Equal(other.GuildUpgradeIDs) && s.HomesteadIDs.Equal(other.HomesteadIDs)
}

// Entry is one merged row, keyed by normalized name.
type Entry struct {
	Name           string `json:"name"`
	HomesteadID    *int   `json:"homesteadId,omitempty"`
	GuildUpgradeID *int   `json:"guildUpgradeId,omitempty"`
}

// Key returns the normalized lookup key of the entry.
func (e Entry) Key() string {
	return NormalizeName(e.Name)
}

// Database is the persisted, merged dataset.
type Database struct {
	Version        int       `json:"version"`
	GeneratedAtUTC time.Time `json:"generatedAtUtc"`
	SourceSnapshot Snapshot  `json:"sourceSnapshot"`
	Decorations    []Entry   `json:"decorations"`
}

// NewDatabase stamps entries with the current format version and generation time.
func NewDatabase(snapshot Snapshot, entries []Entry, generatedAt time.Time) *Database {
	if entries == nil {
		entries = []Entry{}
	}
	return &Database{
		Version:        FormatVersion,
		GeneratedAtUTC: generatedAt.UTC(),
		SourceSnapshot: snapshot,
		Decorations:    entries,
	}
}

// Lookup finds an entry by name, ignoring case and surrounding whitespace.
func (d *Database) Lookup(name string) (Entry, bool) {
	key := NormalizeName(name)
	if d == nil || key == "" {
		return Entry{}, false
	}
	// entries are sorted by key
	i, found := slices.BinarySearchFunc(d.Decorations, key, func(e Entry, k string) int {
		return strings.Compare(e.Key(), k)
	})
	if !found {
		return Entry{}, false
	}
	return d.Decorations[i], true
}

// NormalizeName is the merge key: trimmed and lower-cased.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

package decorations

import (
	"slices"
	"strings"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
)

// Merge folds guild and homestead records into entries keyed by normalized
// name, sorted ascending by that key.
//
// Guild records are applied before homestead records. When two records of the
// same catalog normalize to the same name, the later record's identifier
// replaces the earlier one. The display name of an entry is taken from the
// first record that produced it, so casing is stable for an unchanged input
// order.
func Merge(guild, homestead []catalog.Record) []Entry {
	index := make(map[string]*Entry, len(guild)+len(homestead))

	upsert := func(rec catalog.Record) *Entry {
		key := NormalizeName(rec.Name)
		entry, ok := index[key]
		if !ok {
			entry = &Entry{Name: strings.TrimSpace(rec.Name)}
			index[key] = entry
		}
		return entry
	}

	for _, rec := range guild {
		if NormalizeName(rec.Name) == "" {
			continue
		}
		id := rec.ID
		upsert(rec).GuildUpgradeID = &id
	}
	for _, rec := range homestead {
		if NormalizeName(rec.Name) == "" {
			continue
		}
		id := rec.ID
		upsert(rec).HomesteadID = &id
	}

	entries := make([]Entry, 0, len(index))
	for _, entry := range index {
		entries = append(entries, *entry)
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Key(), b.Key())
	})
	return entries
}

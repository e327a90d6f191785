package catalog

import (
	"context"
	"encoding/json"
	"slices"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/Girbilcannon/DecoToolsHelper/internal/catalog Fetcher

// Kind identifies one of the remote catalogs.
type Kind string

const (
	// KindGuild is the guild hall upgrade catalog
	KindGuild Kind = "guild"

	// KindHomestead is the homestead decoration catalog
	KindHomestead Kind = "homestead"
)

// MaxBatchSize is the largest number of identifiers a catalog accepts in one bulk query.
const MaxBatchSize = 50

// guildDecorationType is the type tag of guild upgrades that are decorations
const guildDecorationType = "Decoration"

// Source describes where a catalog lives.
type Source struct {
	Kind     Kind
	Endpoint string
}

// Record is one descriptive record returned by a catalog.
type Record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// Type is only populated by the guild catalog
	Type string `json:"type,omitempty"`
}

// Fetcher reads identifiers and records from a catalog.
type Fetcher interface {
	// FetchIDs returns every valid identifier the catalog currently knows.
	FetchIDs(ctx context.Context, src Source) (IDSet, error)

	// FetchRecords returns the filtered records for ids, querying in batches.
	FetchRecords(ctx context.Context, src Source, ids IDSet) ([]Record, error)
}

// IDSet is a sorted set of positive identifiers.
// The zero value is an empty set.
type IDSet []int

// NewIDSet builds a set from ids, dropping duplicates and non-positive values.
func NewIDSet(ids ...int) IDSet {
	set := make(IDSet, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			set = append(set, id)
		}
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// Len returns the number of identifiers in the set.
func (s IDSet) Len() int { return len(s) }

// Contains reports whether id is in the set.
func (s IDSet) Contains(id int) bool {
	_, found := slices.BinarySearch(s, id)
	return found
}

// Equal reports set equality.
func (s IDSet) Equal(other IDSet) bool {
	return slices.Equal(s, other)
}

// Diff returns the identifiers only in s and only in other.
func (s IDSet) Diff(other IDSet) (added, removed IDSet) {
	for _, id := range s {
		if !other.Contains(id) {
			added = append(added, id)
		}
	}
	for _, id := range other {
		if !s.Contains(id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// MarshalJSON always emits an array, never null.
func (s IDSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(s))
}

// UnmarshalJSON normalizes whatever was stored back into set form.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []int
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

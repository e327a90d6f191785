package decorations

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "red lantern", NormalizeName("  Red Lantern\t"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestDatabaseLookup(t *testing.T) {
	t.Parallel()

	db := NewDatabase(Snapshot{}, Merge(
		[]catalog.Record{{ID: 1, Name: "Bench"}, {ID: 2, Name: "Anvil"}},
		[]catalog.Record{{ID: 9, Name: "candle"}},
	), time.Now())

	entry, ok := db.Lookup(" BENCH ")
	require.True(t, ok)
	assert.Equal(t, intPtr(1), entry.GuildUpgradeID)

	_, ok = db.Lookup("Chest")
	assert.False(t, ok)

	_, ok = db.Lookup("")
	assert.False(t, ok)

	var nilDB *Database
	_, ok = nilDB.Lookup("Bench")
	assert.False(t, ok)
}

func TestDatabaseLookup_Boundaries(t *testing.T) {
	t.Parallel()

	db := NewDatabase(Snapshot{}, Merge(
		[]catalog.Record{{ID: 1, Name: "Bench"}, {ID: 2, Name: "Anvil"}, {ID: 3, Name: "Lantern"}},
		nil,
	), time.Now())

	for _, name := range []string{"anvil", "Bench", "LANTERN"} {
		entry, ok := db.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, NormalizeName(name), entry.Key())
	}

	// before the first key, between keys and after the last key
	for _, name := range []string{"Altar", "Chest", "Zither"} {
		_, ok := db.Lookup(name)
		assert.False(t, ok, name)
	}

	empty := NewDatabase(Snapshot{}, nil, time.Now())
	_, ok := empty.Lookup("Bench")
	assert.False(t, ok)
}

func TestNewDatabase(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, loc)

	db := NewDatabase(Snapshot{}, nil, at)

	assert.Equal(t, FormatVersion, db.Version)
	assert.Equal(t, time.UTC, db.GeneratedAtUTC.Location())
	assert.True(t, at.Equal(db.GeneratedAtUTC))
	assert.NotNil(t, db.Decorations)
}

func TestDatabaseJSONLayout(t *testing.T) {
	t.Parallel()

	db := NewDatabase(
		Snapshot{GuildUpgradeIDs: catalog.NewIDSet(10), HomesteadIDs: catalog.NewIDSet(20)},
		[]Entry{{Name: "Chair", GuildUpgradeID: intPtr(10)}},
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	)

	data, err := json.Marshal(db)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"version": 1,
		"generatedAtUtc": "2026-01-02T03:04:05Z",
		"sourceSnapshot": {"guildUpgradeIds": [10], "homesteadIds": [20]},
		"decorations": [{"name": "Chair", "guildUpgradeId": 10}]
	}`, string(data))
}

func TestSnapshotEqual(t *testing.T) {
	t.Parallel()

	a := Snapshot{GuildUpgradeIDs: catalog.NewIDSet(1, 2), HomesteadIDs: catalog.NewIDSet(3)}
	b := Snapshot{GuildUpgradeIDs: catalog.NewIDSet(2, 1), HomesteadIDs: catalog.NewIDSet(3)}
	c := Snapshot{GuildUpgradeIDs: catalog.NewIDSet(1, 2), HomesteadIDs: catalog.NewIDSet(3, 4)}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type primaryRow struct {
	ID     int64
	FK     *int64
	Joined *secondaryRow
}

type secondaryRow struct {
	Key  int64
	Name string
}

func fk(p primaryRow) (int64, bool) {
	if p.FK == nil {
		return 0, false
	}
	return *p.FK, true
}

func ptr(v int64) *int64 { return &v }

func TestKeys_DistinctAndOrdered(t *testing.T) {
	rows := []primaryRow{
		{ID: 1, FK: ptr(10)},
		{ID: 2, FK: ptr(20)},
		{ID: 3, FK: ptr(10)},
		{ID: 4, FK: nil},
		{ID: 5, FK: ptr(30)},
	}

	keys := Keys(rows, fk)
	assert.Equal(t, []int64{10, 20, 30}, keys)
}

func TestKeys_Empty(t *testing.T) {
	keys := Keys(nil, fk)
	assert.Empty(t, keys)
}

func TestIndex_LaterDuplicateWins(t *testing.T) {
	secondaries := []secondaryRow{
		{Key: 1, Name: "first"},
		{Key: 1, Name: "second"},
	}

	idx := Index(secondaries, func(s secondaryRow) int64 { return s.Key })
	require.Len(t, idx, 1)
	assert.Equal(t, "second", idx[1].Name)
}

func TestAttach_MissingSecondaryGetsNil(t *testing.T) {
	rows := []primaryRow{
		{ID: 1, FK: ptr(10)},
		{ID: 2, FK: ptr(20)}, // no matching secondary
		{ID: 3, FK: nil},     // no foreign key at all
		{ID: 4, FK: ptr(10)},
	}
	secondaries := []secondaryRow{{Key: 10, Name: "alice"}}

	Attach(rows, secondaries, fk,
		func(s secondaryRow) int64 { return s.Key },
		func(p *primaryRow, s *secondaryRow) { p.Joined = s },
	)

	// Every row survives, misses are nil, matches are attached.
	require.Len(t, rows, 4)
	require.NotNil(t, rows[0].Joined)
	assert.Equal(t, "alice", rows[0].Joined.Name)
	assert.Nil(t, rows[1].Joined)
	assert.Nil(t, rows[2].Joined)
	require.NotNil(t, rows[3].Joined)
	assert.Equal(t, "alice", rows[3].Joined.Name)
}

func TestAttach_AttachedRecordsAreIndependent(t *testing.T) {
	rows := []primaryRow{
		{ID: 1, FK: ptr(10)},
		{ID: 2, FK: ptr(10)},
	}
	secondaries := []secondaryRow{{Key: 10, Name: "alice"}}

	Attach(rows, secondaries, fk,
		func(s secondaryRow) int64 { return s.Key },
		func(p *primaryRow, s *secondaryRow) { p.Joined = s },
	)

	rows[0].Joined.Name = "changed"
	assert.Equal(t, "alice", rows[1].Joined.Name)
}

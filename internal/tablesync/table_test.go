package tablesync_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/tablesync"
)

// attendeeTable builds a table of n attendees named "a0".."a{n-1}".
func attendeeTable(n int) tablesync.Table[domain.Attendee] {
	values := make([]domain.Attendee, n)
	for i := range values {
		values[i] = domain.Attendee{Name: fmt.Sprintf("a%d", i)}
	}
	return tablesync.FromValues(values)
}

func names(t *tablesync.Table[domain.Attendee]) []string {
	var out []string
	for _, v := range t.Values() {
		out = append(out, v.Name)
	}
	return out
}

func TestTable_Append(t *testing.T) {
	var tbl tablesync.Table[domain.TimeSlot]

	id1 := tbl.Append()
	id2 := tbl.Append()

	require.Equal(t, 2, tbl.Len())
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, domain.TimeSlot{}, tbl.Values()[1])
}

func TestTable_EditCell(t *testing.T) {
	tbl := attendeeTable(2)

	assert.True(t, tbl.EditCell(1, domain.FieldPosition, "과장"))
	assert.Equal(t, "과장", tbl.Values()[1].Position)
	assert.Empty(t, tbl.Values()[0].Position)
}

func TestTable_EditCell_OutOfRangeIsNoop(t *testing.T) {
	tbl := attendeeTable(2)
	before := tbl.Values()

	assert.False(t, tbl.EditCell(2, domain.FieldName, "x"))
	assert.False(t, tbl.EditCell(-1, domain.FieldName, "x"))
	assert.False(t, tbl.EditCell(0, "bogus", "x"))
	assert.Equal(t, before, tbl.Values())
}

// TestTable_RemoveRow_EditsFollowNewIndices checks every (N, i) pair: after
// deleting index i, an edit addressed to j-1 reaches the element originally
// at j and nothing else.
func TestTable_RemoveRow_EditsFollowNewIndices(t *testing.T) {
	for n := 2; n <= 6; n++ {
		for i := 0; i < n; i++ {
			t.Run(fmt.Sprintf("n=%d/i=%d", n, i), func(t *testing.T) {
				for j := i + 1; j < n; j++ {
					tbl := attendeeTable(n)
					require.True(t, tbl.RemoveRow(i))
					require.Equal(t, n-1, tbl.Len())

					require.True(t, tbl.EditCell(j-1, domain.FieldWork, "edited"))

					for k, v := range tbl.Values() {
						if v.Name == fmt.Sprintf("a%d", j) {
							assert.Equal(t, "edited", v.Work, "row %d", k)
						} else {
							assert.Empty(t, v.Work, "row %d (%s) must be untouched", k, v.Name)
						}
					}
				}
			})
		}
	}
}

func TestTable_RemoveRow_LastRowGuard(t *testing.T) {
	tbl := attendeeTable(1)

	assert.False(t, tbl.RemoveRow(0))
	assert.Equal(t, 1, tbl.Len())
	assert.Equal(t, []string{"a0"}, names(&tbl))
}

func TestTable_RemoveRow_OutOfRangeIsNoop(t *testing.T) {
	tbl := attendeeTable(3)

	assert.False(t, tbl.RemoveRow(3))
	assert.Equal(t, 3, tbl.Len())
}

func TestTable_ThreeAttendees_DeleteMiddle(t *testing.T) {
	tbl := attendeeTable(3)

	require.True(t, tbl.RemoveRow(1))
	require.Equal(t, 2, tbl.Len())

	require.True(t, tbl.EditCell(1, domain.FieldPosition, "부장"))

	got := tbl.Values()
	assert.Equal(t, "a2", got[1].Name)
	assert.Equal(t, "부장", got[1].Position)
	assert.Equal(t, "a0", got[0].Name)
	assert.Empty(t, got[0].Position)
}

func TestTable_IDsAreStableAcrossRemovals(t *testing.T) {
	tbl := attendeeTable(4)
	lastID := tbl.Rows[3].ID

	require.True(t, tbl.RemoveRow(0))
	require.True(t, tbl.RemoveRow(0))

	assert.Equal(t, 1, tbl.IndexOf(lastID))
	assert.True(t, tbl.EditByID(lastID, domain.FieldName, "renamed"))
	assert.Equal(t, []string{"a2", "renamed"}, names(&tbl))

	assert.True(t, tbl.RemoveByID(lastID))
	assert.Equal(t, -1, tbl.IndexOf(lastID))
	assert.False(t, tbl.EditByID(lastID, domain.FieldName, "gone"))
}

func TestTable_AppendAfterRemoveNeverReusesID(t *testing.T) {
	tbl := attendeeTable(2)
	removed := tbl.Rows[1].ID
	require.True(t, tbl.RemoveRow(1))

	id := tbl.Append()

	assert.Greater(t, id, removed)
}

func TestTable_Numbered(t *testing.T) {
	tbl := attendeeTable(3)
	require.True(t, tbl.RemoveRow(0))

	rows := tbl.Numbered()

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].No)
	assert.Equal(t, "a1", rows[0].Value.Name)
	assert.Equal(t, 2, rows[1].No)
	assert.Equal(t, "a2", rows[1].Value.Name)
}

func TestTable_EnsureRow(t *testing.T) {
	var tbl tablesync.Table[domain.TimeSlot]

	assert.True(t, tbl.EnsureRow())
	assert.False(t, tbl.EnsureRow())
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_Clone(t *testing.T) {
	tbl := attendeeTable(2)

	c := tbl.Clone()
	require.True(t, c.EditCell(0, domain.FieldName, "changed"))
	c.Append()

	assert.Equal(t, []string{"a0", "a1"}, names(&tbl))
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, tbl.LastID+1, c.LastID)
}

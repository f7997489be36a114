// Package tablesync keeps an ordered list of sub-records (time slots,
// attendees) consistent with a table the user edits row by row.
//
// Rows can be addressed two ways. The index API mirrors what a rendered table
// sees: positions shift down after a removal, so callers must re-read indices
// after every structural change. The ID API addresses rows by a synthetic id
// assigned on append that never changes, which is what the HTTP layer uses.
package tablesync

// Cell is implemented by row values (through their pointer) that accept
// field-level edits. SetField reports false for an unknown field.
type Cell interface {
	SetField(field, value string) bool
}

// Row pairs a value with its stable id.
type Row[T any] struct {
	ID    int64 `json:"id"`
	Value T     `json:"value"`
}

// Numbered is a row as displayed, with its 1-based ordinal.
type Numbered[T any] struct {
	No    int   `json:"no"`
	ID    int64 `json:"id"`
	Value T     `json:"value"`
}

// Table is an ordered list of rows. The zero value is an empty table ready
// for use. Table is not safe for concurrent use; callers own the locking.
type Table[T any] struct {
	Rows   []Row[T] `json:"rows"`
	LastID int64    `json:"lastId"`
}

// FromValues builds a table holding values in order, with fresh ids.
func FromValues[T any](values []T) Table[T] {
	var t Table[T]
	for _, v := range values {
		t.push(v)
	}
	return t
}

// Clone returns a copy that shares no row storage with t.
func (t *Table[T]) Clone() Table[T] {
	return Table[T]{Rows: append([]Row[T](nil), t.Rows...), LastID: t.LastID}
}

// Len returns the number of rows.
func (t *Table[T]) Len() int { return len(t.Rows) }

// Values returns a copy of the row values in order.
func (t *Table[T]) Values() []T {
	out := make([]T, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Value
	}
	return out
}

// Numbered returns the rows with display ordinals 1..N matching their
// current positions.
func (t *Table[T]) Numbered() []Numbered[T] {
	out := make([]Numbered[T], len(t.Rows))
	for i, r := range t.Rows {
		out[i] = Numbered[T]{No: i + 1, ID: r.ID, Value: r.Value}
	}
	return out
}

// Append adds one zero-valued row at the end and returns its id.
func (t *Table[T]) Append() int64 {
	var zero T
	return t.push(zero)
}

// EnsureRow appends a blank row when the table is empty. It reports whether
// a row was added.
func (t *Table[T]) EnsureRow() bool {
	if len(t.Rows) > 0 {
		return false
	}
	t.Append()
	return true
}

// EditCell sets field on the row at index. Out-of-range indices and unknown
// fields are ignored and reported as false.
func (t *Table[T]) EditCell(index int, field, value string) bool {
	if index < 0 || index >= len(t.Rows) {
		return false
	}
	c, ok := any(&t.Rows[index].Value).(Cell)
	if !ok {
		return false
	}
	return c.SetField(field, value)
}

// RemoveRow deletes the row at index and shifts later rows down by one.
// The last remaining row is never removed; that case, like an out-of-range
// index, is a no-op reported as false.
func (t *Table[T]) RemoveRow(index int) bool {
	if len(t.Rows) <= 1 || index < 0 || index >= len(t.Rows) {
		return false
	}
	t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
	return true
}

// IndexOf returns the current position of the row with the given id, or -1.
func (t *Table[T]) IndexOf(id int64) int {
	for i, r := range t.Rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// EditByID is EditCell addressed by row id.
func (t *Table[T]) EditByID(id int64, field, value string) bool {
	return t.EditCell(t.IndexOf(id), field, value)
}

// RemoveByID is RemoveRow addressed by row id.
func (t *Table[T]) RemoveByID(id int64) bool {
	return t.RemoveRow(t.IndexOf(id))
}

func (t *Table[T]) push(v T) int64 {
	t.LastID++
	t.Rows = append(t.Rows, Row[T]{ID: t.LastID, Value: v})
	return t.LastID
}

package game

import (
	"github.com/lox/montecarlo/die"
)

// Entry is one cell of a stacked table. Trial and Die are 1-based.
type Entry struct {
	Trial int
	Die   int
	Face  die.Face
}

// Table records the face each die showed on each trial. Rows are trials in
// the order they were played, columns are dice in game order. Accessors
// take 0-based indices. A Table is never modified after it is built.
type Table struct {
	rows [][]die.Face
	dice int
}

// Trials returns the number of rows
func (t *Table) Trials() int {
	return len(t.rows)
}

// Dice returns the number of columns
func (t *Table) Dice() int {
	return t.dice
}

// Shape returns (trials, dice)
func (t *Table) Shape() (int, int) {
	return len(t.rows), t.dice
}

// Empty reports whether the table has no trials
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// At returns the face die d showed on trial n
func (t *Table) At(n, d int) die.Face {
	return t.rows[n][d]
}

// Row returns a copy of trial n
func (t *Table) Row(n int) []die.Face {
	out := make([]die.Face, t.dice)
	copy(out, t.rows[n])
	return out
}

// Column returns a copy of everything die d showed, in trial order
func (t *Table) Column(d int) []die.Face {
	out := make([]die.Face, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[d]
	}
	return out
}

// Rows returns a deep copy of the table
func (t *Table) Rows() [][]die.Face {
	out := make([][]die.Face, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Stack flattens the table into trial-major entries: every die of trial 1,
// then every die of trial 2, and so on.
func (t *Table) Stack() []Entry {
	out := make([]Entry, 0, len(t.rows)*t.dice)
	for n, row := range t.rows {
		for d, f := range row {
			out = append(out, Entry{Trial: n + 1, Die: d + 1, Face: f})
		}
	}
	return out
}

// Equal reports whether two tables have the same shape and faces
func (t *Table) Equal(o *Table) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if len(t.rows) != len(o.rows) || t.dice != o.dice {
		return false
	}
	for i, row := range t.rows {
		for j, f := range row {
			if o.rows[i][j] != f {
				return false
			}
		}
	}
	return true
}

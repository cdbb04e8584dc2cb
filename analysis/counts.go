package analysis

import (
	"github.com/lox/montecarlo/die"
)

// FaceCountTable counts how many times each die showed each face. Rows are
// faces, columns are dice. Every face of the game has a row, drawn or not.
type FaceCountTable struct {
	faces  []die.Face
	index  map[die.Face]int
	counts [][]int // counts[face][die]
	dice   int
}

// FaceCounts tallies the current results per die and face
func (a *Analyzer) FaceCounts() *FaceCountTable {
	fc := a.countFaces()
	a.faceCounts = fc
	return fc
}

func (a *Analyzer) countFaces() *FaceCountTable {
	table := a.game.Results()
	fc := newFaceCountTable(a.game.Faces(), a.game.Len())

	for n := range table.Trials() {
		for d := range table.Dice() {
			fc.add(table.At(n, d), d)
		}
	}
	return fc
}

// LastFaceCounts returns the table from the last FaceCounts call, or nil
func (a *Analyzer) LastFaceCounts() *FaceCountTable {
	return a.faceCounts
}

func newFaceCountTable(faces []die.Face, dice int) *FaceCountTable {
	fc := &FaceCountTable{
		index: make(map[die.Face]int, len(faces)),
		dice:  dice,
	}
	for _, f := range faces {
		fc.addRow(f)
	}
	return fc
}

func (fc *FaceCountTable) addRow(f die.Face) int {
	i := len(fc.faces)
	fc.faces = append(fc.faces, f)
	fc.index[f] = i
	fc.counts = append(fc.counts, make([]int, fc.dice))
	return i
}

func (fc *FaceCountTable) add(f die.Face, d int) {
	i, ok := fc.index[f]
	if !ok {
		i = fc.addRow(f)
	}
	fc.counts[i][d]++
}

// Faces returns the row labels
func (fc *FaceCountTable) Faces() []die.Face {
	out := make([]die.Face, len(fc.faces))
	copy(out, fc.faces)
	return out
}

// Dice returns the number of columns
func (fc *FaceCountTable) Dice() int {
	return fc.dice
}

// Count returns how many times die d showed face f. Unknown faces count zero.
func (fc *FaceCountTable) Count(f die.Face, d int) int {
	i, ok := fc.index[f]
	if !ok || d < 0 || d >= fc.dice {
		return 0
	}
	return fc.counts[i][d]
}

// Column returns every face's count for die d
func (fc *FaceCountTable) Column(d int) map[die.Face]int {
	out := make(map[die.Face]int, len(fc.faces))
	for i, f := range fc.faces {
		out[f] = fc.counts[i][d]
	}
	return out
}

// Total returns how many times face f was shown across all dice
func (fc *FaceCountTable) Total(f die.Face) int {
	i, ok := fc.index[f]
	if !ok {
		return 0
	}
	total := 0
	for _, c := range fc.counts[i] {
		total += c
	}
	return total
}

// RollCountTable counts, for each trial, how many dice showed each face.
// Rows are trials, columns are faces.
type RollCountTable struct {
	faces  []die.Face
	index  map[die.Face]int
	counts [][]int // counts[trial][face]
}

// FaceCountsPerRoll tallies faces within each trial of the current results
func (a *Analyzer) FaceCountsPerRoll() *RollCountTable {
	table := a.game.Results()
	faces := a.game.Faces()
	rc := &RollCountTable{
		faces:  faces,
		index:  make(map[die.Face]int, len(faces)),
		counts: make([][]int, table.Trials()),
	}
	for i, f := range faces {
		rc.index[f] = i
	}

	for n := range table.Trials() {
		row := make([]int, len(faces))
		for d := range table.Dice() {
			if i, ok := rc.index[table.At(n, d)]; ok {
				row[i]++
			}
		}
		rc.counts[n] = row
	}

	return rc
}

// Trials returns the number of rows
func (rc *RollCountTable) Trials() int {
	return len(rc.counts)
}

// Faces returns the column labels
func (rc *RollCountTable) Faces() []die.Face {
	out := make([]die.Face, len(rc.faces))
	copy(out, rc.faces)
	return out
}

// Count returns how many dice showed face f on trial n
func (rc *RollCountTable) Count(n int, f die.Face) int {
	i, ok := rc.index[f]
	if !ok {
		return 0
	}
	return rc.counts[n][i]
}

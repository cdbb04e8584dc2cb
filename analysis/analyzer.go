// Package analysis derives statistics from the results of a played game:
// jackpots, face combinations, and how often each die showed each face.
package analysis

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/lox/montecarlo/die"
	"github.com/lox/montecarlo/game"
)

// Analyzer reads a game's most recent results. It never modifies the game.
// Computed tables are cached but are not refreshed when the game is played
// again; call the methods again after each Play.
type Analyzer struct {
	game     *game.Game
	faceType die.Kind

	jackpots   []bool
	combos     []ComboCount
	faceCounts *FaceCountTable
}

// ComboCount is the number of trials that produced Faces
type ComboCount struct {
	Faces []die.Face
	Count int
}

// String renders the combination as "(a, b, c)"
func (c ComboCount) String() string {
	parts := make([]string, len(c.Faces))
	for i, f := range c.Faces {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// New creates an analyzer for g and records the face type of its first die.
func New(g *game.Game) (*Analyzer, error) {
	if g == nil || g.Len() == 0 {
		return nil, fmt.Errorf("%w: analyzer needs a game with dice", die.ErrInvalidArgument)
	}
	return &Analyzer{
		game:     g,
		faceType: g.Kind(),
	}, nil
}

// Game returns the analyzed game
func (a *Analyzer) Game() *game.Game {
	return a.game
}

// FaceType returns the kind of the game's faces
func (a *Analyzer) FaceType() die.Kind {
	return a.faceType
}

// Jackpot counts trials in which every die showed the same face. Faces are
// compared by exact value. The per-trial result is kept for JackpotTable.
func (a *Analyzer) Jackpot() int {
	table := a.game.Results()
	jackpots := make([]bool, table.Trials())
	count := 0

	for n := range jackpots {
		first := table.At(n, 0)
		hit := true
		for d := 1; d < table.Dice(); d++ {
			if table.At(n, d) != first {
				hit = false
				break
			}
		}
		jackpots[n] = hit
		if hit {
			count++
		}
	}

	a.jackpots = jackpots
	return count
}

// JackpotTable returns one flag per trial from the last Jackpot call
func (a *Analyzer) JackpotTable() []bool {
	return slices.Clone(a.jackpots)
}

// Combo counts trials by the unordered set of faces rolled, so (1, 2) and
// (2, 1) are the same combination. Faces within a combination are sorted.
// Results are ordered by count, most frequent first. Counts sum to the
// number of trials.
func (a *Analyzer) Combo() []ComboCount {
	a.combos = countRows(a.game.Results(), true)
	return slices.Clone(a.combos)
}

// Combos returns the result of the last Combo call
func (a *Analyzer) Combos() []ComboCount {
	return slices.Clone(a.combos)
}

// Permutations counts trials by the ordered faces rolled, so (1, 2) and
// (2, 1) are counted separately.
func (a *Analyzer) Permutations() []ComboCount {
	return countRows(a.game.Results(), false)
}

func countRows(table *game.Table, unordered bool) []ComboCount {
	index := make(map[string]int)
	var out []ComboCount

	for n := range table.Trials() {
		row := table.Row(n)
		if unordered {
			slices.SortFunc(row, die.Face.Compare)
		}
		key := rowKey(row)
		if i, ok := index[key]; ok {
			out[i].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, ComboCount{Faces: row, Count: 1})
	}

	slices.SortStableFunc(out, func(x, y ComboCount) int {
		if x.Count != y.Count {
			return y.Count - x.Count
		}
		return slices.CompareFunc(x.Faces, y.Faces, die.Face.Compare)
	})
	return out
}

// rowKey builds an unambiguous map key for a row of faces
func rowKey(row []die.Face) string {
	var sb strings.Builder
	for _, f := range row {
		if f.Kind() == die.KindText {
			sb.WriteString(strconv.Quote(f.String()))
		} else {
			sb.WriteString(f.String())
		}
		sb.WriteByte(',')
	}
	return sb.String()
}

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/montecarlo/die"
	"github.com/lox/montecarlo/game"
)

// scripted returns faces from a fixed script, cycling when exhausted.
type scripted struct {
	faces  []die.Face
	script []die.Face
	next   int
}

func (s *scripted) Faces() []die.Face { return s.faces }

func (s *scripted) Kind() die.Kind { return s.faces[0].Kind() }

func (s *scripted) Describe() []die.FaceWeight {
	out := make([]die.FaceWeight, len(s.faces))
	for i, f := range s.faces {
		out[i] = die.FaceWeight{Face: f, Weight: 1}
	}
	return out
}

func (s *scripted) Roll(count int) ([]die.Face, error) {
	out := make([]die.Face, count)
	for i := range out {
		out[i] = s.script[s.next%len(s.script)]
		s.next++
	}
	return out, nil
}

// scriptedGame plays rows exactly as given, one die per column.
func scriptedGame(t *testing.T, faces []die.Face, rows ...[]die.Face) *game.Game {
	t.Helper()
	var script []die.Face
	for _, r := range rows {
		script = append(script, r...)
	}
	s := &scripted{faces: faces, script: script}

	dice := make([]game.Roller, len(rows[0]))
	for i := range dice {
		dice[i] = s
	}
	g, err := game.New(dice)
	require.NoError(t, err)
	require.NoError(t, g.Play(len(rows)))
	return g
}

func coinGame(t *testing.T, seed uint64, trials int) *game.Game {
	t.Helper()
	coin, err := die.New(die.Texts("heads", "tails"), die.WithSeed(seed))
	require.NoError(t, err)
	g, err := game.Of(coin, coin, coin, coin)
	require.NoError(t, err)
	require.NoError(t, g.Play(trials))
	return g
}

func TestNew(t *testing.T) {
	t.Parallel()
	_, err := New(nil)
	assert.ErrorIs(t, err, die.ErrInvalidArgument)

	g := coinGame(t, 1, 10)
	a, err := New(g)
	require.NoError(t, err)
	assert.Equal(t, die.KindText, a.FaceType())
	assert.Same(t, g, a.Game())

	d6, err := die.New(die.Numbers(1, 2, 3, 4, 5, 6), die.WithSeed(1))
	require.NoError(t, err)
	g6, err := game.Of(d6)
	require.NoError(t, err)
	a6, err := New(g6)
	require.NoError(t, err)
	assert.Equal(t, die.KindNumeric, a6.FaceType())
}

func TestCoinScenario(t *testing.T) {
	t.Parallel()
	g := coinGame(t, 2024, 10)
	a, err := New(g)
	require.NoError(t, err)

	jackpots := a.Jackpot()
	assert.GreaterOrEqual(t, jackpots, 0)
	assert.LessOrEqual(t, jackpots, 10)
	assert.Len(t, a.JackpotTable(), 10)

	total := 0
	for _, c := range a.Combo() {
		total += c.Count
	}
	assert.Equal(t, 10, total)

	counts := a.FaceCounts()
	assert.Equal(t, 4, counts.Dice(), "one column per die")
	assert.Len(t, counts.Faces(), 2)

	perRoll := a.FaceCountsPerRoll()
	assert.Len(t, perRoll.Faces(), 2, "one column per face")
	assert.Equal(t, 10, perRoll.Trials())
}

func TestJackpot(t *testing.T) {
	t.Parallel()
	faces := die.Numbers(1, 2, 3)
	g := scriptedGame(t, faces,
		die.Numbers(1, 1, 1),
		die.Numbers(1, 2, 1),
		die.Numbers(3, 3, 3),
		die.Numbers(2, 3, 1),
	)
	a, err := New(g)
	require.NoError(t, err)

	assert.Equal(t, 2, a.Jackpot())
	assert.Equal(t, []bool{true, false, true, false}, a.JackpotTable())
}

func TestJackpotEmptyTable(t *testing.T) {
	t.Parallel()
	coin, err := die.New(die.Texts("heads", "tails"), die.WithSeed(1))
	require.NoError(t, err)
	g, err := game.Of(coin, coin)
	require.NoError(t, err)

	a, err := New(g)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Jackpot())
	assert.Empty(t, a.JackpotTable())
	assert.Empty(t, a.Combo())
	assert.Equal(t, 0, a.FaceCounts().Count(die.Text("heads"), 0))
}

func TestJackpotSingleDieAlwaysHits(t *testing.T) {
	t.Parallel()
	g := scriptedGame(t, die.Texts("a", "b"), die.Texts("a"), die.Texts("b"))
	a, err := New(g)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Jackpot())
}

func TestComboCollapsesPermutations(t *testing.T) {
	t.Parallel()
	g := scriptedGame(t, die.Numbers(1, 2, 3),
		die.Numbers(1, 2, 2),
		die.Numbers(2, 1, 2),
		die.Numbers(2, 2, 1),
		die.Numbers(3, 3, 3),
		die.Numbers(1, 2, 3),
	)
	a, err := New(g)
	require.NoError(t, err)

	combos := a.Combo()
	require.Len(t, combos, 3)
	assert.Equal(t, die.Numbers(1, 2, 2), combos[0].Faces)
	assert.Equal(t, 3, combos[0].Count)
	// Ties are ordered by faces.
	assert.Equal(t, die.Numbers(1, 2, 3), combos[1].Faces)
	assert.Equal(t, die.Numbers(3, 3, 3), combos[2].Faces)
	assert.Equal(t, "(1, 2, 2)", combos[0].String())

	assert.Equal(t, combos, a.Combos(), "combo result is cached")

	perms := a.Permutations()
	assert.Len(t, perms, 5)
	total := 0
	for _, p := range perms {
		assert.Equal(t, 1, p.Count)
		total += p.Count
	}
	assert.Equal(t, 5, total)
}

func TestComboTextFacesWithSeparators(t *testing.T) {
	t.Parallel()
	faces := die.Texts("a,b", "c", "a", "b,c")
	g := scriptedGame(t, faces,
		die.Texts("a,b", "c"),
		die.Texts("a", "b,c"),
	)
	a, err := New(g)
	require.NoError(t, err)
	assert.Len(t, a.Combo(), 2, "labels containing commas must not collide")
}

func TestFaceCounts(t *testing.T) {
	t.Parallel()
	faces := die.Numbers(1, 2, 3, 4)
	g := scriptedGame(t, faces,
		die.Numbers(1, 2),
		die.Numbers(1, 3),
		die.Numbers(2, 3),
	)
	a, err := New(g)
	require.NoError(t, err)

	fc := a.FaceCounts()
	assert.Equal(t, 2, fc.Dice())
	assert.Equal(t, faces, fc.Faces(), "every known face has a row")

	assert.Equal(t, 2, fc.Count(die.Number(1), 0))
	assert.Equal(t, 1, fc.Count(die.Number(2), 0))
	assert.Equal(t, 0, fc.Count(die.Number(3), 0))
	assert.Equal(t, 0, fc.Count(die.Number(4), 0), "never drawn counts zero")
	assert.Equal(t, 1, fc.Count(die.Number(2), 1))
	assert.Equal(t, 2, fc.Count(die.Number(3), 1))
	assert.Equal(t, 0, fc.Count(die.Number(9), 1))
	assert.Equal(t, 0, fc.Count(die.Number(1), 5))

	assert.Equal(t, map[die.Face]int{
		die.Number(1): 0, die.Number(2): 1, die.Number(3): 2, die.Number(4): 0,
	}, fc.Column(1))
	assert.Equal(t, 2, fc.Total(die.Number(3)))
	assert.Same(t, fc, a.LastFaceCounts())

	for d := range fc.Dice() {
		sum := 0
		for _, n := range fc.Column(d) {
			sum += n
		}
		assert.Equal(t, 3, sum, "each die column sums to the trial count")
	}
}

func TestFaceCountsPerRoll(t *testing.T) {
	t.Parallel()
	g := scriptedGame(t, die.Texts("heads", "tails"),
		die.Texts("heads", "heads", "tails", "heads"),
		die.Texts("tails", "tails", "tails", "tails"),
	)
	a, err := New(g)
	require.NoError(t, err)

	rc := a.FaceCountsPerRoll()
	assert.Equal(t, 2, rc.Trials())
	assert.Equal(t, 3, rc.Count(0, die.Text("heads")))
	assert.Equal(t, 1, rc.Count(0, die.Text("tails")))
	assert.Equal(t, 0, rc.Count(1, die.Text("heads")))
	assert.Equal(t, 4, rc.Count(1, die.Text("tails")))
	assert.Equal(t, 0, rc.Count(1, die.Text("edge")))
}

func TestCachedTablesNotRefreshedOnReplay(t *testing.T) {
	t.Parallel()
	g := coinGame(t, 5, 10)
	a, err := New(g)
	require.NoError(t, err)

	a.Jackpot()
	require.Len(t, a.JackpotTable(), 10)

	require.NoError(t, g.Play(3))
	assert.Len(t, a.JackpotTable(), 10, "cache holds the old run until recomputed")
	a.Jackpot()
	assert.Len(t, a.JackpotTable(), 3)
}

func TestAnalyzerDoesNotMutateGame(t *testing.T) {
	t.Parallel()
	g := coinGame(t, 6, 20)
	before := g.Results().Rows()

	a, err := New(g)
	require.NoError(t, err)
	a.Jackpot()
	a.Combo()
	a.Permutations()
	a.FaceCounts()
	a.FaceCountsPerRoll()

	assert.Equal(t, before, g.Results().Rows())
}

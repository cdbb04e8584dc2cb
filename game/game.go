// Package game rolls a collection of dice together over many trials and
// records what each die showed on each trial.
package game

import (
	"errors"
	"fmt"

	"github.com/lox/montecarlo/die"
)

// ErrMismatchedOutcomeSpace indicates dice in one game do not share the same face set.
var ErrMismatchedOutcomeSpace = errors.New("dice must have the same faces")

// Roller is anything a game can roll: it exposes its outcome space and can
// draw from it. *die.Die implements Roller.
type Roller interface {
	Faces() []die.Face
	Describe() []die.FaceWeight
	Kind() die.Kind
	Roll(count int) ([]die.Face, error)
}

// Game holds an ordered set of dice sharing one face set, and the table
// produced by the most recent Play.
type Game struct {
	dice    []Roller
	results *Table
}

// New creates a game. Dice keep their order; die i is column i of every
// result table. The same Roller may appear more than once.
func New(dice []Roller) (*Game, error) {
	if len(dice) == 0 {
		return nil, fmt.Errorf("%w: a game needs at least one die", die.ErrInvalidArgument)
	}
	for i, d := range dice {
		if d == nil {
			return nil, fmt.Errorf("%w: die %d is nil", die.ErrInvalidArgument, i+1)
		}
	}

	first := dice[0].Faces()
	for i, d := range dice[1:] {
		if !die.SameFaces(first, d.Faces()) {
			return nil, fmt.Errorf("%w: die %d differs from die 1", ErrMismatchedOutcomeSpace, i+2)
		}
	}

	g := &Game{
		dice:    make([]Roller, len(dice)),
		results: &Table{},
	}
	copy(g.dice, dice)
	return g, nil
}

// Of is a convenience wrapper around New for concrete dice
func Of(dice ...*die.Die) (*Game, error) {
	rollers := make([]Roller, len(dice))
	for i, d := range dice {
		if d == nil {
			return nil, fmt.Errorf("%w: die %d is nil", die.ErrInvalidArgument, i+1)
		}
		rollers[i] = d
	}
	return New(rollers)
}

// Play rolls every die once per trial, in die order, for the given number
// of trials. The new table replaces the previous one only if every roll
// succeeds.
func (g *Game) Play(trials int) error {
	if trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", die.ErrInvalidArgument, trials)
	}

	rows := make([][]die.Face, trials)
	for t := range rows {
		row := make([]die.Face, len(g.dice))
		for i, d := range g.dice {
			faces, err := d.Roll(1)
			if err != nil {
				return fmt.Errorf("trial %d, die %d: %w", t+1, i+1, err)
			}
			if len(faces) != 1 {
				return fmt.Errorf("trial %d, die %d: %w: rolled %d faces, want 1", t+1, i+1, die.ErrInvalidOutcome, len(faces))
			}
			row[i] = faces[0]
		}
		rows[t] = row
	}

	g.results = &Table{rows: rows, dice: len(g.dice)}
	return nil
}

// Results returns the table from the most recent Play. Before the first Play
// the table is empty. The table is immutable, so repeated calls return the
// same data until Play is called again.
func (g *Game) Results() *Table {
	return g.results
}

// Stacked returns the most recent results flattened trial-major
func (g *Game) Stacked() []Entry {
	return g.results.Stack()
}

// Dice returns the game's dice in order
func (g *Game) Dice() []Roller {
	out := make([]Roller, len(g.dice))
	copy(out, g.dice)
	return out
}

// Len returns the number of dice
func (g *Game) Len() int {
	return len(g.dice)
}

// Faces returns the face set of the first die, which every die shares
func (g *Game) Faces() []die.Face {
	return g.dice[0].Faces()
}

// Kind returns the face kind shared by the dice
func (g *Game) Kind() die.Kind {
	return g.dice[0].Kind()
}

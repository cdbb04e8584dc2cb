package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lox/montecarlo/die"
	"github.com/lox/montecarlo/internal/random"
)

// DieFlags describe one die on the command line
type DieFlags struct {
	Faces   []string          `arg:"" help:"Die faces (all numeric, or text labels)"`
	Weights map[string]string `short:"w" help:"Face weights, e.g. -w 6=3 -w 1=0.5"`
	Seed    *uint64           `help:"Random seed for reproducible results"`
}

// source returns a generator for the flags' seed, generating and logging a
// fresh seed when none was given.
func (f *DieFlags) source(logger *log.Logger) (*rand.Rand, error) {
	var seed uint64
	if f.Seed != nil {
		seed = *f.Seed
	} else {
		s, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}
	logger.Info("Using seed", "seed", seed)
	return random.New(seed), nil
}

// newDie builds a die from the flags drawing from rng. Weights that do not
// parse are logged and left at their default.
func (f *DieFlags) newDie(rng *rand.Rand, logger *log.Logger) (*die.Die, error) {
	d, err := die.New(die.ParseFaces(f.Faces), die.WithRand(rng))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(f.Weights))
	for k := range f.Weights {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		face, err := die.ParseFace(k, d.Kind())
		if err != nil {
			return nil, fmt.Errorf("weight %s: %w", k, err)
		}
		err = d.SetWeightText(face, f.Weights[k])
		switch {
		case errors.Is(err, die.ErrInvalidWeight):
			logger.Warn("Ignoring invalid weight", "face", face, "weight", f.Weights[k])
		case err != nil:
			return nil, err
		}
	}
	return d, nil
}

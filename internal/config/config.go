// Package config loads dice experiments from HCL files.
package config

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/lox/montecarlo/die"
	"github.com/lox/montecarlo/game"
	"github.com/lox/montecarlo/internal/random"
	"github.com/lox/montecarlo/internal/simulator"
)

const (
	DefaultTrials     = 100
	DefaultReplicates = 1
)

// Experiment represents a complete experiment file
type Experiment struct {
	Seed  *uint64      `hcl:"seed,optional"`
	Dice  []DieConfig  `hcl:"die,block"`
	Games []GameConfig `hcl:"game,block"`
}

// DieConfig defines a named die template. Each game slot that names it gets
// its own instance.
type DieConfig struct {
	Name    string         `hcl:"name,label"`
	Faces   hcl.Expression `hcl:"faces"`
	Weights hcl.Expression `hcl:"weights,optional"`

	faces   []die.Face
	weights []weightEntry
}

type weightEntry struct {
	face die.Face
	raw  string
}

// GameConfig defines a game over named dice
type GameConfig struct {
	Name       string   `hcl:"name,label"`
	Dice       []string `hcl:"dice"`
	Trials     int      `hcl:"trials,optional"`
	Replicates int      `hcl:"replicates,optional"`
}

// Load reads an experiment from an HCL file
func Load(filename string) (*Experiment, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("experiment file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file)
}

// Parse reads an experiment from HCL source
func Parse(src []byte, filename string) (*Experiment, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file)
}

func decode(file *hcl.File) (*Experiment, error) {
	var exp Experiment
	diags := gohcl.DecodeBody(file.Body, nil, &exp)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	for i := range exp.Dice {
		if err := exp.Dice[i].resolve(); err != nil {
			return nil, fmt.Errorf("die %s: %w", exp.Dice[i].Name, err)
		}
	}

	// Apply defaults to games
	for i := range exp.Games {
		if exp.Games[i].Trials == 0 {
			exp.Games[i].Trials = DefaultTrials
		}
		if exp.Games[i].Replicates == 0 {
			exp.Games[i].Replicates = DefaultReplicates
		}
	}

	return &exp, nil
}

// resolve evaluates the face and weight expressions
func (d *DieConfig) resolve() error {
	val, diags := d.Faces.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("faces: %s", diags.Error())
	}
	if val.IsNull() || !val.IsKnown() || !val.CanIterateElements() {
		return fmt.Errorf("%w: faces must be a list", die.ErrInvalidArgument)
	}

	var values []any
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		raw, err := scalar(v)
		if err != nil {
			return fmt.Errorf("faces: %w", err)
		}
		values = append(values, raw)
	}
	faces, err := die.FacesOf(values...)
	if err != nil {
		return fmt.Errorf("faces: %w", err)
	}
	if len(faces) == 0 {
		return fmt.Errorf("faces: %w: a die needs at least one face", die.ErrInvalidArgument)
	}
	d.faces = faces

	if d.Weights == nil {
		return nil
	}
	val, diags = d.Weights.Value(nil)
	if diags.HasErrors() {
		return fmt.Errorf("weights: %s", diags.Error())
	}
	if val.IsNull() {
		return nil
	}
	if !val.IsKnown() || !(val.Type().IsObjectType() || val.Type().IsMapType()) {
		return fmt.Errorf("%w: weights must be an object keyed by face", die.ErrInvalidArgument)
	}

	kind := faces[0].Kind()
	weights := val.AsValueMap()
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	d.weights = d.weights[:0]
	for _, k := range keys {
		face, err := die.ParseFace(k, kind)
		if err != nil {
			return fmt.Errorf("weight key: %w", err)
		}
		raw, err := weightText(weights[k])
		if err != nil {
			return fmt.Errorf("weight for %s: %w", k, err)
		}
		d.weights = append(d.weights, weightEntry{face: face, raw: raw})
	}
	return nil
}

// scalar converts a face element to a Go value die.FacesOf accepts
func scalar(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("%w: null face", die.ErrInvalidArgument)
	}
	switch v.Type() {
	case cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	case cty.String:
		return v.AsString(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported face type %s", die.ErrInvalidArgument, v.Type().FriendlyName())
	}
}

// weightText keeps the weight as written so a bad value can fail softly
func weightText(v cty.Value) (string, error) {
	if v.IsNull() || !v.IsKnown() {
		return "", fmt.Errorf("%w: null weight", die.ErrInvalidWeight)
	}
	switch v.Type() {
	case cty.Number:
		return v.AsBigFloat().Text('g', -1), nil
	case cty.String:
		return v.AsString(), nil
	default:
		return "", fmt.Errorf("%w: unsupported weight type %s", die.ErrInvalidWeight, v.Type().FriendlyName())
	}
}

// Validate checks names, references and that every die can be built
func (e *Experiment) Validate() error {
	if len(e.Dice) == 0 {
		return fmt.Errorf("at least one die must be configured")
	}

	seen := make(map[string]bool)
	for _, d := range e.Dice {
		if seen[d.Name] {
			return fmt.Errorf("die %s: defined more than once", d.Name)
		}
		seen[d.Name] = true
		if _, err := e.NewDie(d.Name, random.New(0), log.New(io.Discard)); err != nil {
			return err
		}
	}

	games := make(map[string]bool)
	for _, g := range e.Games {
		if games[g.Name] {
			return fmt.Errorf("game %s: defined more than once", g.Name)
		}
		games[g.Name] = true

		if len(g.Dice) == 0 {
			return fmt.Errorf("game %s: needs at least one die", g.Name)
		}
		if g.Trials <= 0 {
			return fmt.Errorf("game %s: trials must be positive", g.Name)
		}
		if g.Replicates <= 0 {
			return fmt.Errorf("game %s: replicates must be positive", g.Name)
		}
		for _, name := range g.Dice {
			if !seen[name] {
				return fmt.Errorf("game %s: unknown die %s", g.Name, name)
			}
		}
		if _, err := e.build(g, 0, log.New(io.Discard)); err != nil {
			return fmt.Errorf("game %s: %w", g.Name, err)
		}
	}

	return nil
}

// GetDieByName returns a die configuration by name
func (e *Experiment) GetDieByName(name string) *DieConfig {
	for i := range e.Dice {
		if e.Dice[i].Name == name {
			return &e.Dice[i]
		}
	}
	return nil
}

// GetGameByName returns a game configuration by name
func (e *Experiment) GetGameByName(name string) *GameConfig {
	for i := range e.Games {
		if e.Games[i].Name == name {
			return &e.Games[i]
		}
	}
	return nil
}

// SeedOrRandom returns the configured seed, or a fresh one when none is set
func (e *Experiment) SeedOrRandom() (uint64, error) {
	if e.Seed != nil {
		return *e.Seed, nil
	}
	return random.NewSeed()
}

// NewDie builds an instance of the named die drawing from rng, or from a
// fresh crypto seed when rng is nil. Weights that do not parse are logged and
// skipped; weights for unknown faces fail.
func (e *Experiment) NewDie(name string, rng *rand.Rand, logger *log.Logger) (*die.Die, error) {
	dc := e.GetDieByName(name)
	if dc == nil {
		return nil, fmt.Errorf("%w: unknown die %s", die.ErrInvalidArgument, name)
	}

	d, err := die.New(dc.faces, die.WithRand(rng))
	if err != nil {
		return nil, fmt.Errorf("die %s: %w", name, err)
	}
	for _, w := range dc.weights {
		err := d.SetWeightText(w.face, w.raw)
		switch {
		case errors.Is(err, die.ErrInvalidWeight):
			logger.Warn("Ignoring invalid weight", "die", name, "face", w.face, "weight", w.raw)
		case err != nil:
			return nil, fmt.Errorf("die %s: %w", name, err)
		}
	}
	return d, nil
}

// Factory returns a builder for the named game. Every build creates fresh
// dice sharing one source seeded by the replicate seed.
func (e *Experiment) Factory(name string, logger *log.Logger) (simulator.Factory, error) {
	g := e.GetGameByName(name)
	if g == nil {
		return nil, fmt.Errorf("unknown game %s", name)
	}
	cfg := *g
	return func(seed uint64) (*game.Game, error) {
		return e.build(cfg, seed, logger)
	}, nil
}

func (e *Experiment) build(g GameConfig, seed uint64, logger *log.Logger) (*game.Game, error) {
	rng := random.New(seed)
	dice := make([]*die.Die, len(g.Dice))
	for i, name := range g.Dice {
		d, err := e.NewDie(name, rng, logger)
		if err != nil {
			return nil, err
		}
		dice[i] = d
	}
	return game.Of(dice...)
}

// Package die implements weighted discrete random generators. A Die holds a
// fixed, ordered set of faces, each with an adjustable weight, and rolls
// faces with probability proportional to weight.
package die

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lox/montecarlo/internal/random"
)

// DefaultWeight is the weight every face starts with
const DefaultWeight = 1.0

// FaceWeight is one row of a die description
type FaceWeight struct {
	Face   Face
	Weight float64
}

// Die is a weighted outcome set. The face set never changes after New; only
// weights do. A Die is safe for concurrent use.
type Die struct {
	mu      sync.Mutex
	faces   []Face
	index   map[Face]int
	weights []float64
	kind    Kind
	rng     *rand.Rand // Random source for deterministic rolling
}

// Option configures a Die
type Option func(*Die)

// WithRand makes the die draw from rng. A generator shared between dice must
// not be used from multiple goroutines at once.
func WithRand(rng *rand.Rand) Option {
	return func(d *Die) {
		d.rng = rng
	}
}

// WithSeed gives the die its own generator seeded with seed
func WithSeed(seed uint64) Option {
	return func(d *Die) {
		d.rng = random.New(seed)
	}
}

// New creates a die with the given faces, all weighted DefaultWeight. Faces
// must be non-empty, distinct, and of a single kind. Without WithRand or
// WithSeed the die is seeded from crypto/rand.
func New(faces []Face, opts ...Option) (*Die, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: a die needs at least one face", ErrInvalidArgument)
	}

	d := &Die{
		faces:   make([]Face, len(faces)),
		index:   make(map[Face]int, len(faces)),
		weights: make([]float64, len(faces)),
		kind:    faces[0].kind,
	}

	for i, f := range faces {
		switch {
		case f.kind == KindUnknown:
			return nil, fmt.Errorf("%w: face %d is the zero Face", ErrInvalidArgument, i)
		case f.kind != d.kind:
			return nil, fmt.Errorf("%w: face %d is %s, expected %s", ErrInvalidArgument, i, f.kind, d.kind)
		case f.kind == KindNumeric && math.IsNaN(f.num):
			return nil, fmt.Errorf("%w: face %d is NaN", ErrInvalidArgument, i)
		}
		if _, dup := d.index[f]; dup {
			return nil, fmt.Errorf("%w: duplicate face %s", ErrInvalidArgument, f)
		}
		d.faces[i] = f
		d.index[f] = i
		d.weights[i] = DefaultWeight
	}

	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		seed, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		d.rng = random.New(seed)
	}

	return d, nil
}

// SetWeight replaces the weight of face. An unknown face fails with
// ErrInvalidOutcome. A negative, NaN or infinite weight fails with
// ErrInvalidWeight and leaves the die unchanged.
func (d *Die) SetWeight(face Face, weight float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, ok := d.index[face]
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidOutcome, face)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("%w: got %v for face %s", ErrInvalidWeight, weight, face)
	}
	d.weights[i] = weight
	return nil
}

// SetWeightText parses raw as a float and sets it as the weight of face.
// Text that is not a valid weight fails with ErrInvalidWeight and leaves the
// die unchanged.
func (d *Die) SetWeightText(face Face, raw string) error {
	if !d.Has(face) {
		return fmt.Errorf("%w: %s", ErrInvalidOutcome, face)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("%w: %q for face %s", ErrInvalidWeight, raw, face)
	}
	return d.SetWeight(face, w)
}

// Weight returns the current weight of face
func (d *Die) Weight(face Face) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, ok := d.index[face]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidOutcome, face)
	}
	return d.weights[i], nil
}

// Has reports whether face is on the die
func (d *Die) Has(face Face) bool {
	_, ok := d.index[face]
	return ok
}

// Roll rolls the die count times. Every roll is independent and uses the
// weights current at the time of the call. Rolling never changes weights.
func (d *Die) Roll(count int) ([]Face, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: roll count must be non-negative, got %d", ErrInvalidArgument, count)
	}
	out := make([]Face, 0, count)
	if count == 0 {
		return out, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Zero-weight faces are left out of the distribution entirely so they
	// can never be returned.
	live := make([]int, 0, len(d.faces))
	weights := make([]float64, 0, len(d.faces))
	for i, w := range d.weights {
		if w > 0 {
			live = append(live, i)
			weights = append(weights, w)
		}
	}
	if len(live) == 0 {
		return nil, ErrNoWeight
	}
	normalize(weights)

	dist := distuv.NewCategorical(weights, d.rng)
	for range count {
		out = append(out, d.faces[live[int(dist.Rand())]])
	}
	return out, nil
}

// Describe returns a snapshot of faces and weights in construction order
func (d *Die) Describe() []FaceWeight {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]FaceWeight, len(d.faces))
	for i, f := range d.faces {
		out[i] = FaceWeight{Face: f, Weight: d.weights[i]}
	}
	return out
}

// Faces returns the faces in construction order
func (d *Die) Faces() []Face {
	out := make([]Face, len(d.faces))
	copy(out, d.faces)
	return out
}

// Kind returns the kind shared by every face
func (d *Die) Kind() Kind {
	return d.kind
}

// Len returns the number of faces
func (d *Die) Len() int {
	return len(d.faces)
}

// Probabilities returns each face's weight normalized by the total weight
func (d *Die) Probabilities() (map[Face]float64, error) {
	return Probabilities(d.Describe())
}

// Probabilities normalizes a description into per-face probabilities
func Probabilities(desc []FaceWeight) (map[Face]float64, error) {
	weights := make([]float64, len(desc))
	for i, fw := range desc {
		weights[i] = fw.Weight
	}
	normalize(weights)

	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, ErrNoWeight
	}

	probs := make(map[Face]float64, len(desc))
	for i, fw := range desc {
		probs[fw.Face] = weights[i] / total
	}
	return probs, nil
}

// normalize divides weights by their maximum in place so that the sum of
// any number of finite weights stays finite.
func normalize(weights []float64) {
	var top float64
	for _, w := range weights {
		top = max(top, w)
	}
	if top == 0 {
		return
	}
	for i := range weights {
		weights[i] /= top
	}
}

// String renders the die as "face:weight" pairs
func (d *Die) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, fw := range d.Describe() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fw.Face.String())
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(fw.Weight, 'g', -1, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}

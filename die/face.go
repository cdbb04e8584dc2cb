package die

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the primitive category shared by every face of a die
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNumeric
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Face is one labeled outcome of a die. Faces are comparable and can be used
// as map keys.
type Face struct {
	kind Kind
	num  float64
	text string
}

// Number returns a numeric face
func Number(v float64) Face {
	return Face{kind: KindNumeric, num: v}
}

// Text returns a text face
func Text(s string) Face {
	return Face{kind: KindText, text: s}
}

// Kind reports whether the face is numeric or text
func (f Face) Kind() Kind {
	return f.kind
}

// Float returns the numeric value of the face. ok is false for text faces.
func (f Face) Float() (v float64, ok bool) {
	if f.kind != KindNumeric {
		return 0, false
	}
	return f.num, true
}

// String returns the face label, formatting numbers in their shortest form
func (f Face) String() string {
	switch f.kind {
	case KindNumeric:
		return strconv.FormatFloat(f.num, 'g', -1, 64)
	case KindText:
		return f.text
	default:
		return "<invalid>"
	}
}

// Compare orders faces: numbers by value, text lexically, numbers before text.
func (f Face) Compare(o Face) int {
	if f.kind != o.kind {
		return cmp.Compare(f.kind, o.kind)
	}
	if f.kind == KindNumeric {
		return cmp.Compare(f.num, o.num)
	}
	return strings.Compare(f.text, o.text)
}

// FacesOf converts Go primitive values into faces. Integer and float kinds
// become numeric faces, strings become text faces. Any other type, a NaN, or
// a mix of numeric and text values is rejected.
func FacesOf(values ...any) ([]Face, error) {
	faces := make([]Face, 0, len(values))
	for i, v := range values {
		f, err := faceOf(v)
		if err != nil {
			return nil, fmt.Errorf("%w: value %d: %v", ErrInvalidArgument, i, err)
		}
		if len(faces) > 0 && faces[0].kind != f.kind {
			return nil, fmt.Errorf("%w: value %d is %s, expected %s", ErrInvalidArgument, i, f.kind, faces[0].kind)
		}
		faces = append(faces, f)
	}
	return faces, nil
}

func numberOf(x float64) (Face, error) {
	if math.IsNaN(x) {
		return Face{}, fmt.Errorf("NaN face")
	}
	return Number(x), nil
}

func faceOf(v any) (Face, error) {
	switch x := v.(type) {
	case Face:
		if x.kind == KindUnknown {
			return Face{}, fmt.Errorf("zero Face")
		}
		if x.kind == KindNumeric {
			return numberOf(x.num)
		}
		return x, nil
	case string:
		return Text(x), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return numberOf(float64(x))
	case float64:
		return numberOf(x)
	default:
		return Face{}, fmt.Errorf("unsupported face type %T", v)
	}
}

// Numbers is shorthand for numeric faces from float64 values
func Numbers(values ...float64) []Face {
	faces := make([]Face, len(values))
	for i, v := range values {
		faces[i] = Number(v)
	}
	return faces
}

// Texts is shorthand for text faces
func Texts(values ...string) []Face {
	faces := make([]Face, len(values))
	for i, v := range values {
		faces[i] = Text(v)
	}
	return faces
}

// ParseFaces interprets command line or config labels. The result is numeric
// when every label parses as a finite float, text otherwise.
func ParseFaces(labels []string) []Face {
	nums := make([]float64, 0, len(labels))
	for _, l := range labels {
		v, err := strconv.ParseFloat(strings.TrimSpace(l), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			trimmed := make([]string, len(labels))
			for i, s := range labels {
				trimmed[i] = strings.TrimSpace(s)
			}
			return Texts(trimmed...)
		}
		nums = append(nums, v)
	}
	return Numbers(nums...)
}

// ParseFace interprets a single label against an expected kind
func ParseFace(label string, kind Kind) (Face, error) {
	switch kind {
	case KindNumeric:
		v, err := strconv.ParseFloat(strings.TrimSpace(label), 64)
		if err != nil {
			return Face{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidArgument, label)
		}
		return Number(v), nil
	case KindText:
		return Text(label), nil
	default:
		return Face{}, fmt.Errorf("%w: unknown face kind", ErrInvalidArgument)
	}
}

// SameFaces reports whether a and b hold the same set of faces, ignoring order
func SameFaces(a, b []Face) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[Face]int, len(a))
	for _, f := range a {
		set[f]++
	}
	for _, f := range b {
		if set[f] == 0 {
			return false
		}
		set[f]--
	}
	return true
}

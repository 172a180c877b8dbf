package tikz

import (
	"fmt"
	"strings"
)

// coordKind tags the three accepted coordinate shapes.
type coordKind uint8

const (
	coordText    coordKind = iota + 1 // parenthesized TikZ syntax or "cycle"
	coordNumeric                      // 2 or 3 numeric components
	coordMixed                        // 2 or 3 components, strings and numbers
)

// Coordinate is a point specification normalized to exactly one of three
// shapes: a syntactically valid text token (a parenthesized TikZ coordinate,
// optionally prefixed with the relative-move markers + or ++, or the literal
// "cycle"), a fixed-size numeric tuple, or a mixed tuple whose components
// are strings and numbers. The zero value is not a valid coordinate.
type Coordinate struct {
	kind  coordKind
	text  string
	num   []float64
	parts []any
}

// XY creates a 2-component numeric coordinate.
func XY(x, y float64) Coordinate {
	return Coordinate{kind: coordNumeric, num: []float64{x, y}}
}

// XYZ creates a 3-component numeric coordinate.
func XYZ(x, y, z float64) Coordinate {
	return Coordinate{kind: coordNumeric, num: []float64{x, y, z}}
}

// Cycle returns the path-closing "cycle" token.
func Cycle() Coordinate {
	return Coordinate{kind: coordText, text: "cycle"}
}

// Named references a node or coordinate by name in TikZ's node coordinate
// system, e.g. Named("title.base") renders as "(title.base)".
func Named(name string) Coordinate {
	return Coordinate{kind: coordText, text: "(" + name + ")"}
}

// Text creates a coordinate from raw TikZ syntax, e.g. Text("++(30:1cm)").
// The text must be parenthesized, optionally prefixed with "+" or "++", or
// the literal "cycle".
func Text(text string) (Coordinate, error) {
	if !validCoordinateText(text) {
		return Coordinate{}, fmt.Errorf("%v is not a coordinate", text)
	}
	return Coordinate{kind: coordText, text: text}, nil
}

// AsCoordinate checks and normalizes a coordinate candidate. Accepted
// shapes:
//
//   - Coordinate: returned unchanged, so normalization is idempotent.
//   - string: already in parenthesized TikZ syntax, optionally prefixed
//     with "+" or "++", or the literal "cycle".
//   - []float64 with 2 or 3 elements.
//   - []any with 2 or 3 elements, each a string or a number; all-string
//     tuples normalize to the joined text form, all-numeric tuples to the
//     numeric form, mixed tuples stay mixed.
//
// Anything else is reported as a type error identifying the value.
func AsCoordinate(v any) (Coordinate, error) {
	switch x := v.(type) {
	case Coordinate:
		if x.kind == 0 {
			return Coordinate{}, fmt.Errorf("%v is not a coordinate", v)
		}
		return x, nil
	case string:
		if validCoordinateText(x) {
			return Coordinate{kind: coordText, text: x}, nil
		}
	case []float64:
		if len(x) == 2 || len(x) == 3 {
			num := make([]float64, len(x))
			copy(num, x)
			return Coordinate{kind: coordNumeric, num: num}, nil
		}
	case [2]float64:
		return XY(x[0], x[1]), nil
	case [3]float64:
		return XYZ(x[0], x[1], x[2]), nil
	case []any:
		if c, ok := fromTuple(x); ok {
			return c, nil
		}
	}
	return Coordinate{}, fmt.Errorf("%v is not a coordinate", v)
}

// fromTuple normalizes a 2/3-element tuple of strings and numbers.
func fromTuple(parts []any) (Coordinate, bool) {
	if len(parts) != 2 && len(parts) != 3 {
		return Coordinate{}, false
	}
	strs, nums := 0, 0
	norm := make([]any, len(parts))
	numeric := make([]float64, len(parts))
	for i, p := range parts {
		switch e := p.(type) {
		case string:
			strs++
			norm[i] = e
		case float64:
			nums++
			norm[i] = e
			numeric[i] = e
		case int:
			nums++
			norm[i] = float64(e)
			numeric[i] = float64(e)
		default:
			return Coordinate{}, false
		}
	}
	switch {
	case strs == len(parts):
		joined := make([]string, len(parts))
		for i, p := range norm {
			joined[i] = p.(string)
		}
		return Coordinate{kind: coordText, text: "(" + strings.Join(joined, ",") + ")"}, true
	case nums == len(parts):
		return Coordinate{kind: coordNumeric, num: numeric}, true
	default:
		return Coordinate{kind: coordMixed, parts: norm}, true
	}
}

// validCoordinateText accepts parenthesized coordinates, optionally with a
// relative-move prefix, and the literal "cycle".
func validCoordinateText(s string) bool {
	if s == "cycle" {
		return true
	}
	rest := s
	rest = strings.TrimPrefix(rest, "++")
	if rest == s {
		rest = strings.TrimPrefix(rest, "+")
	}
	return strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")")
}

// IsNumeric reports whether the coordinate is the fixed-size numeric form.
func (c Coordinate) IsNumeric() bool { return c.kind == coordNumeric }

// Components returns the numeric components, or nil for text and mixed
// forms. The returned slice must not be modified.
func (c Coordinate) Components() []float64 {
	if c.kind != coordNumeric {
		return nil
	}
	return c.num
}

// Code renders the coordinate as TikZ markup. The transform, when non-nil,
// applies to numeric coordinates only; text and mixed forms pass through
// untouched.
func (c Coordinate) Code(trans Transform) string {
	switch c.kind {
	case coordText:
		return c.text
	case coordNumeric:
		num := c.num
		if trans != nil {
			num = trans.Point(num)
		}
		comps := make([]string, len(num))
		for i, x := range num {
			comps[i] = formatComponent(x)
		}
		return "(" + strings.Join(comps, ",") + ")"
	case coordMixed:
		comps := make([]string, len(c.parts))
		for i, p := range c.parts {
			if s, ok := p.(string); ok {
				comps[i] = s
			} else {
				comps[i] = formatComponent(p.(float64))
			}
		}
		return "(" + strings.Join(comps, ",") + ")"
	default:
		return ""
	}
}

// formatComponent renders a numeric component with 5 decimals of precision
// (TikZ processes fixed-point values up to about ±16383.99999), stripping
// trailing zeros and a trailing decimal point.
func formatComponent(x float64) string {
	s := fmt.Sprintf("%.5f", x)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// Sequence is an ordered list of coordinates. When every element is numeric
// with the same number of components, the sequence is uniform and bulk
// transforms can treat it as a single 2D numeric block.
type Sequence struct {
	coords  []Coordinate
	uniform bool
	dim     int
}

// SequenceOf builds a sequence from already-normalized coordinates.
func SequenceOf(coords ...Coordinate) Sequence {
	s := Sequence{coords: coords}
	s.refresh()
	return s
}

// AsSequence checks and normalizes a sequence candidate: an existing
// Sequence, a slice of coordinate candidates (each normalized
// independently), a 2D numeric array with 2 or 3 columns, or a single
// coordinate candidate which becomes a 1-element sequence.
func AsSequence(v any) (Sequence, error) {
	switch x := v.(type) {
	case Sequence:
		return x, nil
	case []Coordinate:
		for _, c := range x {
			if c.kind == 0 {
				return Sequence{}, fmt.Errorf("%v is not a coordinate", c)
			}
		}
		return SequenceOf(x...), nil
	case []any:
		coords := make([]Coordinate, len(x))
		for i, e := range x {
			c, err := AsCoordinate(e)
			if err != nil {
				return Sequence{}, err
			}
			coords[i] = c
		}
		return SequenceOf(coords...), nil
	case [][]float64:
		coords := make([]Coordinate, len(x))
		for i, row := range x {
			c, err := AsCoordinate(row)
			if err != nil {
				return Sequence{}, fmt.Errorf("%v is not a sequence of coordinates", v)
			}
			coords[i] = c
		}
		seq := SequenceOf(coords...)
		if len(x) > 0 && !seq.uniform {
			return Sequence{}, fmt.Errorf("%v is not a sequence of coordinates", v)
		}
		return seq, nil
	default:
		c, err := AsCoordinate(v)
		if err != nil {
			return Sequence{}, fmt.Errorf("%v is not a sequence of coordinates", v)
		}
		return SequenceOf(c), nil
	}
}

func (s *Sequence) refresh() {
	s.uniform = len(s.coords) > 0
	s.dim = 0
	for i, c := range s.coords {
		if !c.IsNumeric() {
			s.uniform = false
			return
		}
		if i == 0 {
			s.dim = len(c.num)
		} else if len(c.num) != s.dim {
			s.uniform = false
			s.dim = 0
			return
		}
	}
}

// Coords returns the normalized coordinates.
func (s Sequence) Coords() []Coordinate { return s.coords }

// Len returns the number of coordinates.
func (s Sequence) Len() int { return len(s.coords) }

// Uniform reports whether the sequence collapsed to a uniform numeric
// block, and the number of columns when it did.
func (s Sequence) Uniform() (bool, int) { return s.uniform, s.dim }

// Transform maps numeric geometry into another coordinate frame. Point
// receives the components of a numeric coordinate; Pair receives
// radius-like or step-like values, which may be numbers or dimension
// strings such as "2cm". A nil Transform is the identity.
type Transform interface {
	Point(p []float64) []float64
	Pair(x, y any) (any, any)
}

// applyPair applies an optional transform to a radius-like pair. Values
// normalize to float64 first so equal radii of mixed numeric types
// compare equal in the symmetric-collapse check.
func applyPair(trans Transform, x, y any) (any, any) {
	x, y = normalizeDim(x), normalizeDim(y)
	if trans == nil {
		return x, y
	}
	x, y = trans.Pair(x, y)
	return normalizeDim(x), normalizeDim(y)
}

// normalizeDim converts integer dimension values to float64. Dimension
// strings such as "2cm" pass through unchanged.
func normalizeDim(v any) any {
	if i, ok := v.(int); ok {
		return float64(i)
	}
	return v
}

package tikz

import (
	"strings"
	"testing"
)

// doubler scales numeric geometry by two, for transform tests.
type doubler struct{}

func (doubler) Point(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, x := range p {
		out[i] = 2 * x
	}
	return out
}

func (doubler) Pair(x, y any) (any, any) {
	scale := func(v any) any {
		if f, ok := v.(float64); ok {
			return 2 * f
		}
		return v
	}
	return scale(x), scale(y)
}

func TestCoordinateCode(t *testing.T) {
	tests := []struct {
		name string
		c    Coordinate
		want string
	}{
		{"xy", XY(1, 2), "(1,2)"},
		{"xyz", XYZ(1, 2, 3), "(1,2,3)"},
		{"fractional", XY(0.5, -1.25), "(0.5,-1.25)"},
		{"trailing zeros trimmed", XY(1.10000, 2.0), "(1.1,2)"},
		{"cycle", Cycle(), "cycle"},
		{"named", Named("title.base"), "(title.base)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.Code(nil); got != tt.want {
				t.Errorf("Code() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsCoordinate(t *testing.T) {
	// idempotent on an existing coordinate
	c, err := AsCoordinate(XY(1, 2))
	if err != nil || c.Code(nil) != "(1,2)" {
		t.Errorf("AsCoordinate(Coordinate) = %q, %v", c.Code(nil), err)
	}

	// text forms
	for _, s := range []string{"(0,0)", "+(1,0)", "++(0,1)", "cycle", "(a.north)"} {
		c, err := AsCoordinate(s)
		if err != nil {
			t.Errorf("AsCoordinate(%q) error: %v", s, err)
			continue
		}
		if c.Code(nil) != s {
			t.Errorf("AsCoordinate(%q) renders %q", s, c.Code(nil))
		}
	}

	// numeric slices
	c, err = AsCoordinate([]float64{1, 2})
	if err != nil || c.Code(nil) != "(1,2)" {
		t.Errorf("AsCoordinate([]float64) = %q, %v", c.Code(nil), err)
	}

	// tuples: all strings join, mixed stays mixed
	c, err = AsCoordinate([]any{"1cm", "2cm"})
	if err != nil || c.Code(nil) != "(1cm,2cm)" {
		t.Errorf("string tuple = %q, %v", c.Code(nil), err)
	}
	c, err = AsCoordinate([]any{"1cm", 2.5})
	if err != nil || c.Code(nil) != "(1cm,2.5)" {
		t.Errorf("mixed tuple = %q, %v", c.Code(nil), err)
	}
	c, err = AsCoordinate([]any{1, 2.5})
	if err != nil || !c.IsNumeric() {
		t.Errorf("numeric tuple should normalize to numeric form: %v", err)
	}

	// rejected values identify themselves
	for _, bad := range []any{"not a coordinate", []float64{1}, []float64{1, 2, 3, 4}, 42, []any{1, struct{}{}}} {
		if _, err := AsCoordinate(bad); err == nil {
			t.Errorf("AsCoordinate(%v) should fail", bad)
		} else if !strings.Contains(err.Error(), "is not a coordinate") {
			t.Errorf("error should identify the value: %v", err)
		}
	}

	// the zero value is not valid
	if _, err := AsCoordinate(Coordinate{}); err == nil {
		t.Error("zero Coordinate should be rejected")
	}
}

func TestText(t *testing.T) {
	c, err := Text("++(30:1cm)")
	if err != nil {
		t.Fatalf("Text error: %v", err)
	}
	if got := c.Code(nil); got != "++(30:1cm)" {
		t.Errorf("Code() = %q", got)
	}

	if _, err := Text("no parens"); err == nil {
		t.Error("invalid coordinate text should error")
	}
}

func TestCoordinateTransform(t *testing.T) {
	// transforms apply to numeric coordinates
	if got := XY(1, 2).Code(doubler{}); got != "(2,4)" {
		t.Errorf("transformed Code() = %q", got)
	}

	// text and mixed forms pass through untouched
	if got := Named("a").Code(doubler{}); got != "(a)" {
		t.Errorf("text coordinate should ignore transform: %q", got)
	}
	c, _ := AsCoordinate([]any{"1cm", 2.0})
	if got := c.Code(doubler{}); got != "(1cm,2)" {
		t.Errorf("mixed coordinate should ignore transform: %q", got)
	}
}

func TestAsSequence(t *testing.T) {
	// slice of candidates, normalized independently
	seq, err := AsSequence([]any{XY(0, 0), "(a)", []float64{1, 2}})
	if err != nil {
		t.Fatalf("AsSequence error: %v", err)
	}
	if seq.Len() != 3 {
		t.Fatalf("Len() = %d", seq.Len())
	}
	if uniform, _ := seq.Uniform(); uniform {
		t.Error("sequence with a text coordinate should not be uniform")
	}

	// uniform numeric block
	seq, err = AsSequence([][]float64{{0, 0}, {1, 1}, {2, 4}})
	if err != nil {
		t.Fatalf("AsSequence error: %v", err)
	}
	uniform, dim := seq.Uniform()
	if !uniform || dim != 2 {
		t.Errorf("Uniform() = %v, %d", uniform, dim)
	}

	// ragged numeric arrays are rejected
	if _, err := AsSequence([][]float64{{0, 0}, {1, 1, 1}}); err == nil {
		t.Error("ragged array should be rejected")
	}

	// a single coordinate becomes a 1-element sequence
	seq, err = AsSequence(XY(3, 4))
	if err != nil || seq.Len() != 1 {
		t.Errorf("single coordinate = %d elements, %v", seq.Len(), err)
	}

	// rejected values name the sequence in the error
	if _, err := AsSequence(42); err == nil || !strings.Contains(err.Error(), "is not a sequence of coordinates") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormatComponent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1.5, "-1.5"},
		{0.123456, "0.12346"},
		{16383.99999, "16383.99999"},
		{2.0000001, "2"},
	}
	for _, tt := range tests {
		if got := formatComponent(tt.in); got != tt.want {
			t.Errorf("formatComponent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

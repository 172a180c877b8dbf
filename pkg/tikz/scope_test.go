package tikz

import (
	"strings"
	"testing"
)

func TestActionCode(t *testing.T) {
	a, err := NewAction("draw", NewOptions("thick"), XY(0, 0), LineTo(XY(1, 1)))
	if err != nil {
		t.Fatalf("NewAction error: %v", err)
	}
	if got := a.Code(nil); got != "\\draw[thick] (0,0) -- (1,1);" {
		t.Errorf("Code() = %q", got)
	}
}

func TestActionCoercion(t *testing.T) {
	// strings pass through as raw path fragments
	a, err := NewAction("draw", nil, XY(0, 0), "-- ++(1,0)")
	if err != nil {
		t.Fatalf("NewAction error: %v", err)
	}
	if got := a.Code(nil); got != "\\draw (0,0) -- ++(1,0);" {
		t.Errorf("Code() = %q", got)
	}

	// coordinate candidates become implicit move-tos
	a, err = NewAction("fill", nil, []float64{1, 2}, Circle(0.5))
	if err != nil {
		t.Fatalf("NewAction error: %v", err)
	}
	if got := a.Code(nil); got != "\\fill (1,2) circle[radius=0.5];" {
		t.Errorf("Code() = %q", got)
	}

	// uncoercible items are rejected at construction
	if _, err := NewAction("draw", nil, struct{}{}); err == nil {
		t.Error("NewAction should reject uncoercible items")
	}
}

func TestScopeDraw(t *testing.T) {
	s := NewScope(nil)
	if err := s.Draw(nil, XY(0, 0), LineTo(XY(1, 1))); err != nil {
		t.Fatalf("Draw error: %v", err)
	}
	if got := s.childCode(nil); got != "\\draw (0,0) -- (1,1);" {
		t.Errorf("childCode() = %q", got)
	}
}

func TestScopeVerbs(t *testing.T) {
	tests := []struct {
		name string
		add  func(s *Scope) error
		want string
	}{
		{"path", func(s *Scope) error { return s.Path(nil, XY(0, 0)) }, "\\path (0,0);"},
		{"fill", func(s *Scope) error { return s.Fill(nil, XY(0, 0), Circle(1.0)) }, "\\fill (0,0) circle[radius=1];"},
		{"filldraw", func(s *Scope) error { return s.FillDraw(nil, XY(0, 0), Rectangle(XY(1, 1))) }, "\\filldraw (0,0) rectangle (1,1);"},
		{"clip", func(s *Scope) error { return s.Clip(nil, XY(0, 0), Rectangle(XY(2, 2))) }, "\\clip (0,0) rectangle (2,2);"},
		{"useasboundingbox", func(s *Scope) error { return s.UseAsBoundingBox(nil, XY(0, 0), Rectangle(XY(4, 3))) }, "\\useasboundingbox (0,0) rectangle (4,3);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScope(nil)
			if err := tt.add(s); err != nil {
				t.Fatalf("error: %v", err)
			}
			if got := s.childCode(nil); got != tt.want {
				t.Errorf("childCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScopeNodeAndCoordinate(t *testing.T) {
	s := NewScope(nil)
	s.Node(Node("title").Name("t").At(XY(0, 2)), nil)
	s.Coordinate(NamedCoordinate("origin").At(XY(0, 0)), nil)

	want := "\\node (t) at (0,2) {title};\n\\coordinate (origin) at (0,0);"
	if got := s.childCode(nil); got != want {
		t.Errorf("childCode() = %q, want %q", got, want)
	}
}

func TestNestedScope(t *testing.T) {
	outer := NewScope(nil)
	inner := outer.Scope(NewOptions("red"))
	if err := inner.Draw(nil, XY(0, 0), LineTo(XY(1, 0))); err != nil {
		t.Fatalf("Draw error: %v", err)
	}

	want := "\\begin{scope}[red]\n\\draw (0,0) -- (1,0);\n\\end{scope}"
	if got := outer.childCode(nil); got != want {
		t.Errorf("childCode() = %q, want %q", got, want)
	}
}

func TestScopeCommands(t *testing.T) {
	s := NewScope(nil)
	s.DefineColor("accent", "rgb", "0.4", "0.1", "0.8")
	s.ColorLet("shadow", "black!25")
	s.TikzSet(NewOptions().Set("line_width", "1pt"))
	s.Style("help lines", NewOptions("thin").Set("draw", "gray"))
	s.Raw("% verbatim")

	lines := strings.Split(s.childCode(nil), "\n")
	want := []string{
		"\\definecolor{accent}{rgb}{0.4,0.1,0.8}",
		"\\colorlet{shadow}{black!25}",
		"\\tikzset{line width=1pt}",
		"\\tikzset{help lines/.style={thin,draw=gray}}",
		"% verbatim",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestScopeOrderPreserved(t *testing.T) {
	s := NewScope(nil)
	s.Raw("first")
	_ = s.Draw(nil, XY(0, 0))
	s.Raw("last")
	if got := s.childCode(nil); got != "first\n\\draw (0,0);\nlast" {
		t.Errorf("children reordered: %q", got)
	}
}

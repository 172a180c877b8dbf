package tikz

import "testing"

func TestLineOperations(t *testing.T) {
	// line-to puts the joiner before each coordinate
	op := LineTo(XY(1, 0), XY(1, 1))
	if got := op.Code(nil); got != "-- (1,0) -- (1,1)" {
		t.Errorf("LineTo Code() = %q", got)
	}

	// the from-to variant joins between coordinates only
	op = Line(XY(0, 0), XY(1, 0), XY(1, 1))
	if got := op.Code(nil); got != "(0,0) -- (1,0) -- (1,1)" {
		t.Errorf("Line Code() = %q", got)
	}

	// alternate joiners
	if got := LineTo(XY(1, 1)).Joined(JoinHV).Code(nil); got != "-| (1,1)" {
		t.Errorf("JoinHV Code() = %q", got)
	}
	if got := Line(XY(0, 0), XY(1, 1)).Joined(JoinVH).Code(nil); got != "(0,0) |- (1,1)" {
		t.Errorf("JoinVH Code() = %q", got)
	}
}

func TestCurveTo(t *testing.T) {
	op := CurveTo(XY(2, 0), XY(1, 1))
	if got := op.Code(nil); got != ".. controls (1,1) .. (2,0)" {
		t.Errorf("one control Code() = %q", got)
	}

	op = CurveTo(XY(2, 0), XY(0.5, 1)).SecondControl(XY(1.5, 1))
	if got := op.Code(nil); got != ".. controls (0.5,1) and (1.5,1) .. (2,0)" {
		t.Errorf("two controls Code() = %q", got)
	}
}

func TestRectangle(t *testing.T) {
	if got := Rectangle(XY(2, 1)).Code(nil); got != "rectangle (2,1)" {
		t.Errorf("Code() = %q", got)
	}
}

func TestCircleRadiusCollapse(t *testing.T) {
	// equal radii collapse to the symmetric option
	if got := Circle(1.0).Code(nil); got != "circle[radius=1]" {
		t.Errorf("Circle Code() = %q", got)
	}
	if got := Ellipse(2.0, 2.0).Code(nil); got != "circle[radius=2]" {
		t.Errorf("equal radii should collapse: %q", got)
	}

	// distinct radii stay separate
	if got := Ellipse(1.0, 2.0).Code(nil); got != "circle[x radius=1,y radius=2]" {
		t.Errorf("Ellipse Code() = %q", got)
	}

	// numerically equal radii collapse across Go numeric types
	if got := Ellipse(2, 2.0).Code(nil); got != "circle[radius=2]" {
		t.Errorf("mixed-type equal radii should collapse: %q", got)
	}

	// dimension strings collapse on exact equality too
	if got := Circle("2cm").Code(nil); got != "circle[radius=2cm]" {
		t.Errorf("dimension radius Code() = %q", got)
	}
}

func TestCircleOptionsAndPlacement(t *testing.T) {
	op := Circle(0.5).At(XY(1, 1)).WithOptions(NewOptions("fill=red"))
	if got := op.Code(nil); got != "circle[fill=red,radius=0.5,at=(1,1)]" {
		t.Errorf("Code() = %q", got)
	}

	// render-time option merging must not mutate the user's set
	opts := NewOptions("thick")
	Circle(1.0).WithOptions(opts).Code(nil)
	if got := opts.Code(); got != "[thick]" {
		t.Errorf("user options mutated: %q", got)
	}
}

func TestCircleTransform(t *testing.T) {
	// the transform scales radii before the collapse check
	if got := Circle(1.0).Code(doubler{}); got != "circle[radius=2]" {
		t.Errorf("Code() = %q", got)
	}
	if got := Ellipse(1.0, 2.0).Code(doubler{}); got != "circle[x radius=2,y radius=4]" {
		t.Errorf("Code() = %q", got)
	}
}

func TestArc(t *testing.T) {
	op := Arc(1.0).WithOptions(NewOptions().Set("start_angle", 0).Set("end_angle", 90))
	if got := op.Code(nil); got != "arc[start angle=0,end angle=90,radius=1]" {
		t.Errorf("Code() = %q", got)
	}
	if got := EllipticalArc(1.0, 2.0).Code(nil); got != "arc[x radius=1,y radius=2]" {
		t.Errorf("Code() = %q", got)
	}
}

func TestGrid(t *testing.T) {
	if got := Grid(XY(3, 3), 0.5).Code(nil); got != "grid[step=0.5] (3,3)" {
		t.Errorf("Code() = %q", got)
	}
	if got := GridSteps(XY(3, 3), 0.5, 1.0).Code(nil); got != "grid[xstep=0.5,ystep=1] (3,3)" {
		t.Errorf("Code() = %q", got)
	}
	if got := GridSteps(XY(3, 3), 1, 1.0).Code(nil); got != "grid[step=1] (3,3)" {
		t.Errorf("mixed-type equal steps should collapse: %q", got)
	}
}

func TestParabola(t *testing.T) {
	if got := Parabola(XY(2, 4)).Code(nil); got != "parabola (2,4)" {
		t.Errorf("Code() = %q", got)
	}
	if got := Parabola(XY(2, 0)).Bend(XY(1, 1)).Code(nil); got != "parabola bend (1,1) (2,0)" {
		t.Errorf("bend Code() = %q", got)
	}
}

func TestTrigCurves(t *testing.T) {
	if got := Sin(XY(1, 1)).Code(nil); got != "sin (1,1)" {
		t.Errorf("Sin Code() = %q", got)
	}
	if got := Cos(XY(2, 0)).Code(nil); got != "cos (2,0)" {
		t.Errorf("Cos Code() = %q", got)
	}
}

func TestTo(t *testing.T) {
	op := To(XY(2, 0)).WithOptions(NewOptions().Set("out", 45).Set("in", 135))
	if got := op.Code(nil); got != "to[out=45,in=135] (2,0)" {
		t.Errorf("Code() = %q", got)
	}
}

func TestNode(t *testing.T) {
	op := Node("label").Name("a").At(XY(1, 2)).WithOptions(NewOptions("above"))
	if got := op.Code(nil); got != "node[above] (a) at (1,2) {label}" {
		t.Errorf("Code() = %q", got)
	}

	// minimal node
	if got := Node("x").Code(nil); got != "node {x}" {
		t.Errorf("Code() = %q", got)
	}
}

func TestNamedCoordinate(t *testing.T) {
	op := NamedCoordinate("origin").At(XY(0, 0))
	if got := op.Code(nil); got != "coordinate (origin) at (0,0)" {
		t.Errorf("Code() = %q", got)
	}
}

func TestPlot(t *testing.T) {
	op := Plot(XY(0, 0), XY(1, 1), XY(2, 4))
	if got := op.Code(nil); got != "plot coordinates {(0,0) (1,1) (2,4)}" {
		t.Errorf("Code() = %q", got)
	}

	op = Plot(XY(0, 0), XY(1, 1)).LineTo().WithOptions(NewOptions("smooth"))
	if got := op.Code(nil); got != "--plot[smooth] coordinates {(0,0) (1,1)}" {
		t.Errorf("line-to Code() = %q", got)
	}
}

func TestMoveTo(t *testing.T) {
	if got := MoveTo(XY(0, 0), XY(1, 1)).Code(nil); got != "(0,0) (1,1)" {
		t.Errorf("Code() = %q", got)
	}
}

func TestRaw(t *testing.T) {
	if got := Raw("-- ++(1,0)").Code(doubler{}); got != "-- ++(1,0)" {
		t.Errorf("Raw should ignore transforms: %q", got)
	}
}

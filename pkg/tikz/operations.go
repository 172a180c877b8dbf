package tikz

import "strings"

// Operation is one path primitive. Code returns the exact TikZ fragment for
// the primitive, with an optional coordinate transform applied to numeric
// geometry.
type Operation interface {
	Code(trans Transform) string
}

// Raw is a fragment copied into the output verbatim. It stands in wherever
// an Operation or scope element is expected, covering TikZ features the
// typed operations do not model.
type Raw string

// Code returns the stored fragment unchanged.
func (r Raw) Code(Transform) string { return string(r) }

func (r Raw) element() {}

// MoveToOp emits one or several move-to operations.
type MoveToOp struct {
	coords Sequence
}

// MoveTo creates move-to operations, one per coordinate. The first move of
// a path is implicit in TikZ, so the fragment is just the coordinates.
func MoveTo(coords ...Coordinate) *MoveToOp {
	return &MoveToOp{coords: SequenceOf(coords...)}
}

// MoveToSeq creates move-to operations from a normalized sequence.
func MoveToSeq(seq Sequence) *MoveToOp {
	return &MoveToOp{coords: seq}
}

func (op *MoveToOp) Code(trans Transform) string {
	return joinCoords(op.coords, trans, " ")
}

// Line joiner tokens.
const (
	JoinStraight = "--" // straight line
	JoinHV       = "-|" // first horizontal, then vertical
	JoinVH       = "|-" // first vertical, then horizontal
)

// LineToOp emits one or several line-to operations of the same joiner type.
type LineToOp struct {
	coords Sequence
	join   string
	fromTo bool // joiner between coordinates only (implicit first move)
}

// LineTo creates straight line-to operations, putting the joiner before
// each coordinate.
func LineTo(coords ...Coordinate) *LineToOp {
	return &LineToOp{coords: SequenceOf(coords...), join: JoinStraight}
}

// Line is the convenience variant that starts with an implicit move-to:
// the joiner appears between coordinates rather than before each one.
func Line(coords ...Coordinate) *LineToOp {
	return &LineToOp{coords: SequenceOf(coords...), join: JoinStraight, fromTo: true}
}

// Joined selects the joiner token: JoinStraight, JoinHV, or JoinVH.
func (op *LineToOp) Joined(join string) *LineToOp {
	op.join = join
	return op
}

func (op *LineToOp) Code(trans Transform) string {
	joined := joinCoords(op.coords, trans, " "+op.join+" ")
	if op.fromTo {
		return joined
	}
	return op.join + " " + joined
}

// CurveToOp emits a Bézier curve-to operation with one or two controls.
type CurveToOp struct {
	end      Coordinate
	control1 Coordinate
	control2 *Coordinate
}

// CurveTo creates a curve to end, bending through one control point.
func CurveTo(end, control Coordinate) *CurveToOp {
	return &CurveToOp{end: end, control1: control}
}

// SecondControl adds the second control point and returns the receiver.
func (op *CurveToOp) SecondControl(c Coordinate) *CurveToOp {
	op.control2 = &c
	return op
}

func (op *CurveToOp) Code(trans Transform) string {
	code := ".. controls " + op.control1.Code(trans)
	if op.control2 != nil {
		code += " and " + op.control2.Code(trans)
	}
	return code + " .. " + op.end.Code(trans)
}

// RectangleOp emits a rectangle to the opposite corner.
type RectangleOp struct {
	corner Coordinate
}

// Rectangle creates a rectangle operation with the given opposite corner.
func Rectangle(corner Coordinate) *RectangleOp {
	return &RectangleOp{corner: corner}
}

func (op *RectangleOp) Code(trans Transform) string {
	return "rectangle " + op.corner.Code(trans)
}

// CircleOp emits a circle or, with distinct radii, an ellipse. Radii may be
// numbers or dimension strings like "2cm". The radii are stored separately
// so a transform can scale them; equal values after the transform collapse
// to the single symmetric radius option. Equality is exact, matching the
// reference behavior for near-equal floating-point radii.
type CircleOp struct {
	xRadius any
	yRadius any
	at      *Coordinate
	opts    *Options
}

// Circle creates a circle centered at the current coordinate.
func Circle(radius any) *CircleOp {
	return &CircleOp{xRadius: radius, yRadius: radius}
}

// Ellipse creates a circle operation with separate x and y radii.
func Ellipse(xRadius, yRadius any) *CircleOp {
	return &CircleOp{xRadius: xRadius, yRadius: yRadius}
}

// At centers the circle on a coordinate instead of the current point.
func (op *CircleOp) At(c Coordinate) *CircleOp {
	op.at = &c
	return op
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *CircleOp) WithOptions(o *Options) *CircleOp {
	op.opts = o
	return op
}

func (op *CircleOp) Code(trans Transform) string {
	opts := op.opts.clone()
	xr, yr := applyPair(trans, op.xRadius, op.yRadius)
	if xr == yr {
		opts.Set("radius", xr)
	} else {
		opts.Set("x_radius", xr)
		opts.Set("y_radius", yr)
	}
	if op.at != nil {
		opts.Set("at", op.at.Code(nil))
	}
	return "circle" + opts.Code()
}

// ArcOp emits an arc. Radius handling matches CircleOp.
type ArcOp struct {
	xRadius any
	yRadius any
	opts    *Options
}

// Arc creates a circular arc; the angles are given via options
// ("start_angle", "end_angle").
func Arc(radius any) *ArcOp {
	return &ArcOp{xRadius: radius, yRadius: radius}
}

// EllipticalArc creates an arc with separate x and y radii.
func EllipticalArc(xRadius, yRadius any) *ArcOp {
	return &ArcOp{xRadius: xRadius, yRadius: yRadius}
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *ArcOp) WithOptions(o *Options) *ArcOp {
	op.opts = o
	return op
}

func (op *ArcOp) Code(trans Transform) string {
	opts := op.opts.clone()
	xr, yr := applyPair(trans, op.xRadius, op.yRadius)
	if xr == yr {
		opts.Set("radius", xr)
	} else {
		opts.Set("x_radius", xr)
		opts.Set("y_radius", yr)
	}
	return "arc" + opts.Code()
}

// GridOp emits a grid to the opposite corner. Steps may be numbers or
// dimension strings; equal x/y steps after the transform collapse to the
// single "step" option.
type GridOp struct {
	corner Coordinate
	xStep  any
	yStep  any
	opts   *Options
}

// Grid creates a grid with a uniform step.
func Grid(corner Coordinate, step any) *GridOp {
	return &GridOp{corner: corner, xStep: step, yStep: step}
}

// GridSteps creates a grid with separate x and y steps.
func GridSteps(corner Coordinate, xStep, yStep any) *GridOp {
	return &GridOp{corner: corner, xStep: xStep, yStep: yStep}
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *GridOp) WithOptions(o *Options) *GridOp {
	op.opts = o
	return op
}

func (op *GridOp) Code(trans Transform) string {
	opts := op.opts.clone()
	xs, ys := applyPair(trans, op.xStep, op.yStep)
	if xs == ys {
		opts.Set("step", xs)
	} else {
		opts.Set("xstep", xs)
		opts.Set("ystep", ys)
	}
	return "grid" + opts.Code() + " " + op.corner.Code(trans)
}

// ParabolaOp emits a parabola, optionally through a bend coordinate.
type ParabolaOp struct {
	end  Coordinate
	bend *Coordinate
	opts *Options
}

// Parabola creates a parabola to the given coordinate.
func Parabola(end Coordinate) *ParabolaOp {
	return &ParabolaOp{end: end}
}

// Bend routes the parabola through a bend coordinate.
func (op *ParabolaOp) Bend(c Coordinate) *ParabolaOp {
	op.bend = &c
	return op
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *ParabolaOp) WithOptions(o *Options) *ParabolaOp {
	op.opts = o
	return op
}

func (op *ParabolaOp) Code(trans Transform) string {
	code := "parabola" + op.opts.Code()
	if op.bend != nil {
		code += " bend " + op.bend.Code(trans)
	}
	return code + " " + op.end.Code(trans)
}

// trigOp emits the sine and cosine curve operations, which share a shape.
type trigOp struct {
	keyword string
	end     Coordinate
	opts    *Options
}

// SinOp is a sine curve operation from the current point.
type SinOp struct{ trigOp }

// Sin creates a sine curve to the given coordinate.
func Sin(end Coordinate) *SinOp {
	return &SinOp{trigOp{keyword: "sin", end: end}}
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *SinOp) WithOptions(o *Options) *SinOp {
	op.opts = o
	return op
}

// CosOp is a cosine curve operation from the current point.
type CosOp struct{ trigOp }

// Cos creates a cosine curve to the given coordinate.
func Cos(end Coordinate) *CosOp {
	return &CosOp{trigOp{keyword: "cos", end: end}}
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *CosOp) WithOptions(o *Options) *CosOp {
	op.opts = o
	return op
}

func (op *trigOp) Code(trans Transform) string {
	return op.keyword + op.opts.Code() + " " + op.end.Code(trans)
}

// ToOp emits a to-path operation.
type ToOp struct {
	end  Coordinate
	opts *Options
}

// To creates a to-path to the given coordinate; the path shape (bend,
// out/in angles) is controlled via options.
func To(end Coordinate) *ToOp {
	return &ToOp{end: end}
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *ToOp) WithOptions(o *Options) *ToOp {
	op.opts = o
	return op
}

func (op *ToOp) Code(trans Transform) string {
	return "to" + op.opts.Code() + " " + op.end.Code(trans)
}

// NodeOp emits a node operation. Contents may be arbitrary LaTeX. A named
// node can be referenced later via Named(name). The node attaches to the
// current coordinate unless At is set.
type NodeOp struct {
	contents string
	name     string
	at       *Coordinate
	headless bool
	opts     *Options
}

// Node creates a node with the given contents.
func Node(contents string) *NodeOp {
	return &NodeOp{contents: contents}
}

// Name assigns the node name used for later coordinate references.
func (op *NodeOp) Name(name string) *NodeOp {
	op.name = name
	return op
}

// At positions the node at a coordinate instead of the current point.
func (op *NodeOp) At(c Coordinate) *NodeOp {
	op.at = &c
	return op
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *NodeOp) WithOptions(o *Options) *NodeOp {
	op.opts = o
	return op
}

// headlessCopy returns a copy that renders without the leading "node"
// keyword, for use directly after the \node action verb.
func (op *NodeOp) headlessCopy() *NodeOp {
	c := *op
	c.headless = true
	return &c
}

func (op *NodeOp) Code(trans Transform) string {
	code := ""
	if !op.headless {
		code = "node"
	}
	code += op.opts.Code()
	if op.name != "" {
		code += " (" + op.name + ")"
	}
	if op.at != nil {
		code += " at " + op.at.Code(trans)
	}
	code += " {" + op.contents + "}"
	if op.headless {
		code = strings.TrimLeft(code, " ")
	}
	return code
}

// CoordinateOp emits a coordinate operation, which defines a named point in
// TikZ's node coordinate system without typesetting anything.
type CoordinateOp struct {
	name     string
	at       *Coordinate
	headless bool
	opts     *Options
}

// NamedCoordinate creates a coordinate operation defining the given name.
func NamedCoordinate(name string) *CoordinateOp {
	return &CoordinateOp{name: name}
}

// At positions the named point at a coordinate instead of the current one.
func (op *CoordinateOp) At(c Coordinate) *CoordinateOp {
	op.at = &c
	return op
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *CoordinateOp) WithOptions(o *Options) *CoordinateOp {
	op.opts = o
	return op
}

func (op *CoordinateOp) headlessCopy() *CoordinateOp {
	c := *op
	c.headless = true
	return &c
}

func (op *CoordinateOp) Code(trans Transform) string {
	code := ""
	if !op.headless {
		code = "coordinate"
	}
	code += op.opts.Code()
	code += " (" + op.name + ")"
	if op.at != nil {
		code += " at " + op.at.Code(trans)
	}
	if op.headless {
		code = strings.TrimLeft(code, " ")
	}
	return code
}

// PlotOp emits a plot operation with inline coordinates.
type PlotOp struct {
	coords Sequence
	lineTo bool
	opts   *Options
}

// Plot creates a plot through the given coordinates.
func Plot(coords ...Coordinate) *PlotOp {
	return &PlotOp{coords: SequenceOf(coords...)}
}

// PlotSeq creates a plot from a normalized sequence, typically a uniform
// numeric block produced by AsSequence.
func PlotSeq(seq Sequence) *PlotOp {
	return &PlotOp{coords: seq}
}

// LineTo includes a line-to operation before the plot ("--plot").
func (op *PlotOp) LineTo() *PlotOp {
	op.lineTo = true
	return op
}

// WithOptions attaches TikZ options and returns the receiver.
func (op *PlotOp) WithOptions(o *Options) *PlotOp {
	op.opts = o
	return op
}

func (op *PlotOp) Code(trans Transform) string {
	code := "plot"
	if op.lineTo {
		code = "--plot"
	}
	code += op.opts.Code()
	return code + " coordinates {" + joinCoords(op.coords, trans, " ") + "}"
}

// joinCoords renders each coordinate of a sequence and joins the fragments.
func joinCoords(seq Sequence, trans Transform, sep string) string {
	parts := make([]string, seq.Len())
	for i, c := range seq.Coords() {
		parts[i] = c.Code(trans)
	}
	return strings.Join(parts, sep)
}

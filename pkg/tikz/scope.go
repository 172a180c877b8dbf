package tikz

import "strings"

// Element is one entry of a scope's ordered child list. The set is closed:
// *Action, Raw, and *Scope (Picture embeds Scope). Each variant renders its
// own fragment.
type Element interface {
	Code(trans Transform) string
	element()
}

// Scope groups path actions and other commands so options can be applied to
// them together. It is an append-only ordered container; children are never
// reordered or removed. Create nested scopes with the parent's Scope
// method.
type Scope struct {
	opts     *Options
	elements []Element
}

// NewScope creates a standalone scope, mostly useful for composing
// fragments that are appended to a picture later.
func NewScope(opts *Options) *Scope {
	return &Scope{opts: opts}
}

func (s *Scope) element() {}

// append adds a child element.
func (s *Scope) append(el Element) {
	s.elements = append(s.elements, el)
}

// Scope creates a nested scope, appends it, and returns it.
func (s *Scope) Scope(opts *Options) *Scope {
	child := NewScope(opts)
	s.append(child)
	return child
}

// Append adds an already-built element (an action, raw fragment, or scope).
func (s *Scope) Append(el Element) {
	s.append(el)
}

// Raw appends arbitrary TikZ code verbatim.
func (s *Scope) Raw(code string) {
	s.append(Raw(code))
}

// Path appends a pure path action. The path creates no visible output
// unless options instruct it to; it is the prototype all other action
// verbs abbreviate.
func (s *Scope) Path(opts *Options, items ...any) error {
	return s.action("path", opts, items...)
}

// Draw appends a draw action.
func (s *Scope) Draw(opts *Options, items ...any) error {
	return s.action("draw", opts, items...)
}

// Fill appends a fill action.
func (s *Scope) Fill(opts *Options, items ...any) error {
	return s.action("fill", opts, items...)
}

// FillDraw appends a filldraw action.
func (s *Scope) FillDraw(opts *Options, items ...any) error {
	return s.action("filldraw", opts, items...)
}

// Pattern appends a pattern action.
func (s *Scope) Pattern(opts *Options, items ...any) error {
	return s.action("pattern", opts, items...)
}

// Shade appends a shade action.
func (s *Scope) Shade(opts *Options, items ...any) error {
	return s.action("shade", opts, items...)
}

// ShadeDraw appends a shadedraw action.
func (s *Scope) ShadeDraw(opts *Options, items ...any) error {
	return s.action("shadedraw", opts, items...)
}

// Clip appends a clip action restricting all subsequent drawing in this
// scope to the given path.
func (s *Scope) Clip(opts *Options, items ...any) error {
	return s.action("clip", opts, items...)
}

// UseAsBoundingBox appends a useasboundingbox action.
func (s *Scope) UseAsBoundingBox(opts *Options, items ...any) error {
	return s.action("useasboundingbox", opts, items...)
}

func (s *Scope) action(verb string, opts *Options, items ...any) error {
	a, err := NewAction(verb, opts, items...)
	if err != nil {
		return err
	}
	s.append(a)
	return nil
}

// Node appends a \node action. The operation renders headless because the
// action verb already names it.
func (s *Scope) Node(n *NodeOp, opts *Options) {
	a, _ := NewAction("node", opts, n.headlessCopy())
	s.append(a)
}

// Coordinate appends a \coordinate action defining a named point.
func (s *Scope) Coordinate(c *CoordinateOp, opts *Options) {
	a, _ := NewAction("coordinate", opts, c.headlessCopy())
	s.append(a)
}

// DefineColor defines a color from a color model and specification, e.g.
// DefineColor("accent", "rgb", "0.4", "0.1", "0.8").
func (s *Scope) DefineColor(name, model string, spec ...string) {
	s.append(Raw("\\definecolor{" + name + "}{" + model + "}{" + strings.Join(spec, ",") + "}"))
}

// ColorLet defines a color from a color expression, e.g.
// ColorLet("shadow", "black!25").
func (s *Scope) ColorLet(name, expr string) {
	s.append(Raw("\\colorlet{" + name + "}{" + expr + "}"))
}

// TikzSet sets options that apply for the rest of the current scope. The
// option text is embedded bare because \tikzset carries its own braces.
func (s *Scope) TikzSet(opts *Options) {
	s.append(Raw("\\tikzset{" + opts.CodeBare() + "}"))
}

// Style defines a named style usable wherever options are accepted,
// including overriding TikZ's default styles.
func (s *Scope) Style(name string, opts *Options) {
	s.append(Raw("\\tikzset{" + name + "/.style={" + opts.CodeBare() + "}}"))
}

// Code renders the scope as a begin/end block wrapping its children's
// fragments, one per line.
func (s *Scope) Code(trans Transform) string {
	return "\\begin{scope}" + s.opts.Code() + "\n" + s.childCode(trans) + "\n\\end{scope}"
}

// childCode renders all children joined by newlines.
func (s *Scope) childCode(trans Transform) string {
	parts := make([]string, len(s.elements))
	for i, el := range s.elements {
		parts[i] = el.Code(trans)
	}
	return strings.Join(parts, "\n")
}

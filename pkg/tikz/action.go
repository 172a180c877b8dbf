package tikz

import "strings"

// Action is one path-drawing command: a verb (draw, fill, clip, ...) with
// its options and an ordered list of operations. Actions are normally
// created through the Scope builder methods rather than directly.
type Action struct {
	verb string
	opts *Options
	ops  []Operation
}

// NewAction creates an action from a verb and a path specification. Items
// are auto-coerced: an Operation is kept, a plain string becomes a raw
// fragment, and anything that normalizes as a coordinate or coordinate
// sequence becomes an implicit move-to. Other values are rejected with the
// normalization error.
func NewAction(verb string, opts *Options, items ...any) (*Action, error) {
	ops := make([]Operation, len(items))
	for i, item := range items {
		op, err := asOperation(item)
		if err != nil {
			return nil, err
		}
		ops[i] = op
	}
	return &Action{verb: verb, opts: opts, ops: ops}, nil
}

// asOperation coerces a path specification item into an Operation.
func asOperation(v any) (Operation, error) {
	switch x := v.(type) {
	case Operation:
		return x, nil
	case string:
		return Raw(x), nil
	default:
		seq, err := AsSequence(v)
		if err != nil {
			return nil, err
		}
		return MoveToSeq(seq), nil
	}
}

// Code renders the full action: backslash, verb, options, the operations
// joined by spaces, and the terminating semicolon.
func (a *Action) Code(trans Transform) string {
	parts := make([]string, len(a.ops))
	for i, op := range a.ops {
		parts[i] = op.Code(trans)
	}
	return "\\" + a.verb + a.opts.Code() + " " + strings.Join(parts, " ") + ";"
}

func (a *Action) element() {}

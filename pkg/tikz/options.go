package tikz

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Options holds the TikZ option modifiers attached to an operation, action,
// scope, or picture: positional flags ("thick", "red") followed by key=value
// pairs. Keys keep their insertion order; setting a key again overwrites the
// value in place. A key mapped to boolean true renders as a bare flag.
type Options struct {
	flags  []string
	keys   []string
	values map[string]any
}

// NewOptions creates an option set from positional flags.
func NewOptions(flags ...string) *Options {
	return &Options{flags: flags}
}

// Set assigns a key=value option and returns the receiver for chaining.
// Underscores in the key render as spaces, so multi-word TikZ keys like
// "line width" can be written as "line_width".
func (o *Options) Set(key string, value any) *Options {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Flag appends a positional flag and returns the receiver.
func (o *Options) Flag(flags ...string) *Options {
	o.flags = append(o.flags, flags...)
	return o
}

// Empty reports whether the option set renders to nothing.
func (o *Options) Empty() bool {
	return o == nil || (len(o.flags) == 0 && len(o.keys) == 0)
}

// Code renders the option set in brackets, or the empty string when empty.
func (o *Options) Code() string {
	body := o.CodeBare()
	if body == "" {
		return ""
	}
	return "[" + body + "]"
}

// CodeBare renders the option set without brackets, for embedding inside a
// brace group such as \tikzset{...}.
func (o *Options) CodeBare() string {
	if o.Empty() {
		return ""
	}
	parts := make([]string, 0, len(o.flags)+len(o.keys))
	parts = append(parts, o.flags...)
	for _, k := range o.keys {
		parts = append(parts, optionCode(k, o.values[k]))
	}
	return strings.Join(parts, ",")
}

func (o *Options) String() string { return o.Code() }

// clone returns a copy that can be extended without mutating the original.
// Operations that compute options at render time (circle radii, grid steps)
// use it to merge computed keys into the user-supplied set.
func (o *Options) clone() *Options {
	c := &Options{}
	if o == nil {
		return c
	}
	c.flags = append(c.flags, o.flags...)
	c.keys = append(c.keys, o.keys...)
	if len(o.values) > 0 {
		c.values = make(map[string]any, len(o.values))
		for k, v := range o.values {
			c.values[k] = v
		}
	}
	return c
}

// optionCode renders a single option. A true value omits "=value".
func optionCode(key string, val any) string {
	key = strings.ReplaceAll(key, "_", " ")
	if val == true {
		return key
	}
	return key + "=" + formatValue(val)
}

// formatValue renders an option value. Numeric values use the same trimmed
// fixed-point form as coordinates so identical inputs always produce
// identical markup (the build cache hashes the output text).
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatComponent(x)
	case float32:
		return formatComponent(float64(x))
	case int:
		return fmt.Sprintf("%d", x)
	case Coordinate:
		return x.Code(nil)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// AsOptions normalizes an option-set candidate: an existing *Options (kept,
// nil included), a map of key/value pairs, a single flag string, or a slice
// of flag strings. Anything else is rejected.
//
// Map iteration order is not stable in Go, so map keys are sorted to keep
// the rendered markup reproducible.
func AsOptions(v any) (*Options, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *Options:
		return x, nil
	case map[string]any:
		o := &Options{}
		keys := maps.Keys(x)
		slices.Sort(keys)
		for _, k := range keys {
			o.Set(k, x[k])
		}
		return o, nil
	case map[string]string:
		o := &Options{}
		keys := maps.Keys(x)
		slices.Sort(keys)
		for _, k := range keys {
			o.Set(k, x[k])
		}
		return o, nil
	case string:
		return NewOptions(x), nil
	case []string:
		return NewOptions(x...), nil
	default:
		return nil, fmt.Errorf("%v is not an option set", v)
	}
}

// FontSize returns the LaTeX command selecting a font size with the default
// 20% leading, usable as the value of a "font" option.
func FontSize(size float64) string {
	return FontSizeSkip(size, roundTo(1.2*size, 2))
}

// FontSizeSkip returns the LaTeX font size command with an explicit
// baseline skip.
func FontSizeSkip(size, skip float64) string {
	return fmt.Sprintf("\\fontsize{%s}{%s}\\selectfont", formatComponent(size), formatComponent(skip))
}

func roundTo(x float64, decimals int) float64 {
	pow := 1.0
	for i := 0; i < decimals; i++ {
		pow *= 10
	}
	if x >= 0 {
		return float64(int64(x*pow+0.5)) / pow
	}
	return float64(int64(x*pow-0.5)) / pow
}

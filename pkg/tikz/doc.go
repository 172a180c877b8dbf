// Package tikz generates TikZ/PGF vector graphics code and compiles it
// into PDF, PNG, and SVG images through an external LaTeX toolchain.
//
// A drawing is assembled from path operations (MoveTo, LineTo, Circle,
// Node, ...) grouped into actions (\draw, \fill, ...) inside scopes, with
// a Picture at the top wrapping everything in a compilable document.
// Rendering is deterministic: the same drawing always produces
// byte-identical markup, and the build step names its PDF after the hash
// of the document text so unchanged pictures are never recompiled.
//
// Inputs arrive in two forms. Typed constructors (XY, Named, Circle)
// cannot fail. The As* normalizers (AsCoordinate, AsSequence, AsOptions)
// accept loosely-typed values and report a descriptive error for anything
// they cannot interpret; errors surface at construction, never at render
// time.
package tikz

// Package calcexpr implements an incrementally editable calculator
// expression: a token sequence built one keypress at a time, evaluated on
// demand to an exact-or-lazily-precise value, and serializable with sharing
// of previously evaluated subexpressions preserved.
//
// An Expr accepts edits through Add, Delete, and Append, mirroring how a
// user types: a trailing binary operator is quietly replaced by the next
// one, juxtaposed values multiply, and "200 + 10 %" means 200 grown by ten
// percent. Eval ignores a trailing run of binary operators so a display can
// evaluate mid-entry. Abbreviate freezes an evaluated expression into a
// single token that later expressions can embed; Encode and Decode persist
// expressions, writing each embedded result once and back-referencing it
// thereafter.
//
// An Expr is not safe for concurrent use, and evaluation can take a very
// long time for pathological inputs; run it off any latency-sensitive
// goroutine.
package calcexpr

package calcexpr

import (
	"strings"

	"github.com/zjw-swun/ExactCalculator-sub003/exact"
	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

// Expr is a mutable, ordered sequence of tokens in left-to-right reading
// order. It is built one keypress at a time and evaluated on demand. An Expr
// is not safe for concurrent use; callers must serialize edits and
// evaluation. An Expr reachable from a pre-evaluated token is a frozen
// snapshot and must not be edited.
type Expr struct {
	toks []*token
}

// NewExpr returns an empty expression.
func NewExpr() *Expr {
	return &Expr{}
}

// Len returns the number of tokens.
func (e *Expr) Len() int {
	return len(e.toks)
}

// IsEmpty reports whether the expression has no tokens.
func (e *Expr) IsEmpty() bool {
	return len(e.toks) == 0
}

// Clear empties the expression.
func (e *Expr) Clear() {
	e.toks = nil
}

func (e *Expr) last() *token {
	if len(e.toks) == 0 {
		return nil
	}
	return e.toks[len(e.toks)-1]
}

// lastOp returns the trailing operator key, or keys.None if the expression
// is empty or ends with a non-operator token.
func (e *Expr) lastOp() keys.Key {
	t := e.last()
	if t == nil || t.kind != tokenOperator {
		return keys.None
	}
	return t.op
}

// Add applies one keypress to the expression. It reports whether the
// keypress was accepted; a rejected keypress leaves the expression
// unchanged. A binary operator quietly replaces a trailing run of binary
// operators, except that minus is allowed to follow one as a unary minus.
func (e *Expr) Add(id keys.Key) bool {
	if !keys.Valid(id) {
		return false
	}
	if keys.IsBinary(id) && !keys.IsPrefix(id) {
		lastOp := e.lastOp()
		if len(e.toks) == 0 || lastOp == keys.LParen || keys.IsFunc(lastOp) ||
			keys.IsPrefix(lastOp) && lastOp != keys.Sub {
			return false
		}
		for e.HasTrailingBinary() {
			e.Delete()
		}
	}
	d := keys.DigitVal(id)
	if d != keys.NotDigit || id == keys.DecimalPoint {
		// Constant material. Start a new literal unless one is already
		// trailing; juxtaposing against a pre-evaluated token gets an
		// explicit multiplication so the two values don't read as one.
		if t := e.last(); t == nil || t.kind != tokenConstant {
			if t != nil && t.kind == tokenPreEval {
				e.toks = append(e.toks, opToken(keys.Mul))
			}
			e.toks = append(e.toks, &token{kind: tokenConstant, lit: &literal{}})
		}
		return e.last().lit.add(id)
	}
	e.toks = append(e.toks, opToken(id))
	return true
}

// AddExponent sets the exponent of the trailing literal directly, for
// scientific-notation entry. It reports whether the expression ends with a
// literal; zero exponents are accepted and ignored.
func (e *Expr) AddExponent(exp int32) bool {
	t := e.last()
	if t == nil || t.kind != tokenConstant {
		return false
	}
	t.lit.addExponent(exp)
	return true
}

// Delete removes one unit of entry from the end of the expression: one
// character of a trailing literal, or the whole trailing token otherwise.
func (e *Expr) Delete() {
	t := e.last()
	if t == nil {
		return
	}
	if t.kind == tokenConstant {
		t.lit.delete()
		if !t.lit.empty() {
			return
		}
	}
	e.toks[len(e.toks)-1] = nil
	e.toks = e.toks[:len(e.toks)-1]
}

// RemoveTrailingAdditiveOperators deletes trailing tokens while the
// expression ends with + or −.
func (e *Expr) RemoveTrailingAdditiveOperators() {
	for {
		op := e.lastOp()
		if op != keys.Add && op != keys.Sub {
			return
		}
		e.Delete()
	}
}

// Append concatenates other onto e, inserting an explicit multiplication at
// the junction when the two halves would otherwise read as one ambiguous
// run of non-operator tokens. Tokens are shared by reference; other must not
// be mutated by its owner afterward.
func (e *Expr) Append(other *Expr) {
	if len(e.toks) != 0 && len(other.toks) != 0 {
		last := e.last()
		first := other.toks[0]
		if last.kind != tokenOperator && first.kind != tokenOperator {
			e.toks = append(e.toks, opToken(keys.Mul))
		}
	}
	e.toks = append(e.toks, other.toks...)
}

// snapshot copies the token sequence, cloning literals so that later edits
// of e cannot alias a frozen copy. Operators and pre-evaluated tokens are
// immutable and shared.
func (e *Expr) snapshot() *Expr {
	toks := make([]*token, len(e.toks))
	for i, t := range e.toks {
		if t.kind == tokenConstant {
			toks[i] = &token{kind: tokenConstant, lit: t.lit.clone()}
		} else {
			toks[i] = t
		}
	}
	return &Expr{toks: toks}
}

// Abbreviate returns a new single-token expression wrapping a frozen copy of
// e as a pre-evaluated token carrying the supplied value and display string.
// The caller guarantees val and shortRep were computed from exactly this
// content under degreeMode; Abbreviate does no evaluation itself.
func (e *Expr) Abbreviate(val *exact.Real, degreeMode bool, shortRep string) *Expr {
	pe := &preEval{
		val:        val,
		expr:       e.snapshot(),
		degreeMode: degreeMode,
		shortRep:   shortRep,
	}
	return &Expr{toks: []*token{{kind: tokenPreEval, pe: pe}}}
}

// HasTrailingConstant reports whether the expression ends with a literal.
func (e *Expr) HasTrailingConstant() bool {
	t := e.last()
	return t != nil && t.kind == tokenConstant
}

// HasTrailingBinary reports whether the expression ends with a binary
// operator.
func (e *Expr) HasTrailingBinary() bool {
	return keys.IsBinary(e.lastOp())
}

// IsConstant reports whether the expression is exactly one literal.
func (e *Expr) IsConstant() bool {
	return len(e.toks) == 1 && e.toks[0].kind == tokenConstant
}

// TrailingBinaryOpsStart returns the index of the first token of the
// trailing run of binary operators, which is also the number of leading
// tokens eligible for evaluation.
func (e *Expr) TrailingBinaryOpsStart() int {
	i := len(e.toks)
	for i > 0 {
		t := e.toks[i-1]
		if t.kind != tokenOperator || !keys.IsBinary(t.op) {
			break
		}
		i--
	}
	return i
}

// HasInterestingOps reports whether the expression contains an operator or a
// truncated pre-evaluated value outside a possible leading unary minus and
// the trailing run of binary operators. It decides whether evaluating the
// expression would show the user anything they haven't already typed.
func (e *Expr) HasInterestingOps() bool {
	last := e.TrailingBinaryOpsStart()
	first := 0
	if last > first && e.toks[first].kind == tokenOperator && e.toks[first].op == keys.Sub {
		first++
	}
	for i := first; i < last; i++ {
		t := e.toks[i]
		if t.kind == tokenOperator || t.kind == tokenPreEval && t.pe.hasEllipsis() {
			return true
		}
	}
	return false
}

// HasTrigFuncs reports whether the expression contains a trigonometric
// function, so the UI can decide whether an angle-mode indicator matters.
func (e *Expr) HasTrigFuncs() bool {
	for _, t := range e.toks {
		if t.kind == tokenOperator && keys.IsTrigFunc(t.op) {
			return true
		}
	}
	return false
}

// String renders the expression as the user would read it.
func (e *Expr) String() string {
	var b strings.Builder
	for _, t := range e.toks {
		b.WriteString(t.String())
	}
	return b.String()
}

package calcexpr

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/zjw-swun/ExactCalculator-sub003/exact"
	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

// tokenKind discriminates the token union. The values double as the wire
// variant tags, so their order is part of the serialization format.
type tokenKind int8

const (
	tokenConstant tokenKind = iota // literal is set
	tokenOperator                  // op is set
	tokenPreEval                   // pe is set
)

// token is one element of an expression: a numeric literal under
// construction, an operator or function key, or a previously evaluated
// subexpression. Exactly one of lit, op, and pe is meaningful, selected by
// kind. Operator and pre-evaluated tokens are immutable and may be shared
// between expressions; literals are mutable while they are the trailing
// token of the expression being edited.
type token struct {
	kind tokenKind
	lit  *literal
	op   keys.Key
	pe   *preEval
}

func opToken(k keys.Key) *token {
	return &token{kind: tokenOperator, op: k}
}

func (t *token) String() string {
	switch t.kind {
	case tokenConstant:
		return t.lit.String()
	case tokenOperator:
		return t.op.String()
	case tokenPreEval:
		return t.pe.shortRep
	}
	return "?"
}

// literal is a numeric constant under construction: digit strings for the
// whole and fraction parts, a decimal-point flag, and a signed decimal
// exponent. The exponent is nonzero only after explicit scientific-notation
// entry; while it is nonzero, decimal-point and fraction edits are rejected.
type literal struct {
	whole      string
	fraction   string
	sawDecimal bool
	exponent   int32
}

// maxExponent bounds the magnitude an exponent may reach through digit
// entry. Further digits are rejected once it is exceeded.
const maxExponent = 10000

// add applies one digit or decimal-point keypress. It reports whether the
// keypress was accepted; a rejected keypress leaves the literal unchanged.
func (c *literal) add(k keys.Key) bool {
	if k == keys.DecimalPoint {
		if c.sawDecimal || c.exponent != 0 {
			return false
		}
		c.sawDecimal = true
		return true
	}
	d := keys.DigitVal(k)
	if d == keys.NotDigit {
		return false
	}
	if c.exponent != 0 {
		if c.exponent > maxExponent || c.exponent < -maxExponent {
			return false
		}
		// Extend the exponent in its existing sign direction.
		if c.exponent > 0 {
			c.exponent = 10*c.exponent + int32(d)
		} else {
			c.exponent = 10*c.exponent - int32(d)
		}
		return true
	}
	if c.sawDecimal {
		c.fraction += string('0' + rune(d))
	} else {
		c.whole += string('0' + rune(d))
	}
	return true
}

// addExponent sets the exponent directly. Zero is a no-op.
func (c *literal) addExponent(exp int32) {
	if exp != 0 {
		c.exponent = exp
	}
}

// delete undoes one unit of entry: the last exponent digit if an exponent is
// active, else the last fraction digit, else the decimal point, else the
// last whole digit.
func (c *literal) delete() {
	switch {
	case c.exponent != 0:
		c.exponent /= 10
	case c.fraction != "":
		c.fraction = c.fraction[:len(c.fraction)-1]
	case c.sawDecimal:
		c.sawDecimal = false
	default:
		if c.whole != "" {
			c.whole = c.whole[:len(c.whole)-1]
		}
	}
}

func (c *literal) empty() bool {
	return c.whole == "" && !c.sawDecimal
}

func (c *literal) clone() *literal {
	d := *c
	return &d
}

// value converts the literal to its exact rational value.
func (c *literal) value() (*exact.Real, error) {
	digits := c.whole + c.fraction
	if digits == "" {
		digits = "0"
	}
	num, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		// Digit strings only ever hold decimal digits.
		panic("calcexpr: corrupt literal " + c.String())
	}
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(c.fraction))), nil)
	r := new(big.Rat).SetFrac(num, den)
	if c.exponent != 0 {
		exp := int64(c.exponent)
		if exp > maxExponent*10 || exp < -maxExponent*10 {
			return nil, &exact.DomainError{X: exact.FromInt64(exp), Func: "E"}
		}
		abs := exp
		if abs < 0 {
			abs = -abs
		}
		p := new(big.Int).Exp(big.NewInt(10), big.NewInt(abs), nil)
		if exp > 0 {
			r.Mul(r, new(big.Rat).SetInt(p))
		} else {
			r.Quo(r, new(big.Rat).SetInt(p))
		}
	}
	return exact.FromRat(r), nil
}

func (c *literal) String() string {
	var b strings.Builder
	b.WriteString(c.whole)
	if c.sawDecimal {
		b.WriteByte('.')
		b.WriteString(c.fraction)
	}
	if c.exponent != 0 {
		b.WriteByte('E')
		b.WriteString(strconv.Itoa(int(c.exponent)))
	}
	return b.String()
}

// preEval is a frozen prior evaluation result: the value, the subexpression
// that produced it, the angle mode it was evaluated under, and a short
// display string. It is immutable; the subexpression it holds must be
// treated as read-only by everyone who can reach it.
type preEval struct {
	val        *exact.Real
	expr       *Expr
	degreeMode bool
	shortRep   string
}

// hasEllipsis reports whether the display string is truncated, i.e. does not
// show the exact value.
func (p *preEval) hasEllipsis() bool {
	return strings.Contains(p.shortRep, "…")
}

package calcexpr

// Recursive-descent evaluation, straight to values with no intermediate
// tree. Grammar, highest to lowest precedence:
//
//	Unary    := literal | preEval | "√" ["−"] Unary | "(" Expr ")" | const
//	          | func "(" Expr ")"
//	Suffix   := Unary { "!" | "²" | "%" }
//	Factor   := Suffix [ "^" SignedFactor ]
//	SignedFactor := ["−"] Factor
//	Term     := SignedFactor { ( "×" | "÷" )? SignedFactor }
//	Expr     := Term { ("+" | "−") [ PercentTerm | Term ] }
//
// Juxtaposed factors multiply. "A + N%" where N is a bare operand scales the
// running total instead of adding N/100.

import (
	"math/big"

	"github.com/zjw-swun/ExactCalculator-sub003/exact"
	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

// maxDepth caps recursive-descent depth. Deeper nesting is reported as a
// syntax error rather than overflowing the stack.
const maxDepth = 256

// evalContext carries the per-evaluation state: the angle mode and the
// number of leading tokens eligible for evaluation. It is threaded through
// the recursive productions explicitly.
type evalContext struct {
	degreeMode bool
	prefixLen  int
	depth      int
}

// evalRet pairs a production's value with the index of the first token it
// did not consume.
type evalRet struct {
	pos int
	val *exact.Real
}

// Eval evaluates the expression under the given angle mode. A trailing run
// of binary operators is ignored, so a live display can evaluate while the
// user is mid-entry. Syntax failures return *SyntaxError; arithmetic
// failures from the numeric layer are propagated unmodified.
func (e *Expr) Eval(degreeMode bool) (*exact.Real, error) {
	ec := &evalContext{degreeMode: degreeMode, prefixLen: e.TrailingBinaryOpsStart()}
	ret, err := e.evalExpr(0, ec)
	if err != nil {
		return nil, err
	}
	if ret.pos != ec.prefixLen {
		return nil, &SyntaxError{Pos: ret.pos, Msg: "unconsumed trailing tokens"}
	}
	return ret.val, nil
}

// isOperatorUnchecked reports whether the token at i is the given operator,
// without regard to the evaluation prefix.
func (e *Expr) isOperatorUnchecked(i int, op keys.Key) bool {
	return i < len(e.toks) && e.toks[i].kind == tokenOperator && e.toks[i].op == op
}

// isOperator reports whether the token at i is the given operator and inside
// the evaluation prefix.
func (e *Expr) isOperator(i int, op keys.Key, ec *evalContext) bool {
	return i < ec.prefixLen && e.isOperatorUnchecked(i, op)
}

// expect consumes a required operator, or fails with a syntax error.
func (e *Expr) expect(i int, op keys.Key, ec *evalContext) error {
	if !e.isOperator(i, op, ec) {
		return &SyntaxError{Pos: i, Msg: "expected " + op.Describe()}
	}
	return nil
}

func (e *Expr) evalUnary(i int, ec *evalContext) (evalRet, error) {
	if ec.depth++; ec.depth > maxDepth {
		return evalRet{}, &SyntaxError{Pos: i, Msg: "expression too deeply nested"}
	}
	defer func() { ec.depth-- }()
	if i >= ec.prefixLen {
		return evalRet{}, &SyntaxError{Pos: i, Msg: "unexpected end of expression"}
	}
	t := e.toks[i]
	switch t.kind {
	case tokenConstant:
		v, err := t.lit.value()
		if err != nil {
			return evalRet{}, err
		}
		return evalRet{i + 1, v}, nil
	case tokenPreEval:
		return evalRet{i + 1, t.pe.val}, nil
	}
	switch t.op {
	case keys.Pi:
		return evalRet{i + 1, exact.Pi()}, nil
	case keys.E:
		return evalRet{i + 1, exact.E()}, nil
	case keys.Sqrt:
		// Highest precedence; accepts a leading minus but adds no implicit
		// parenthesis.
		j := i + 1
		neg := e.isOperator(j, keys.Sub, ec)
		if neg {
			j++
		}
		arg, err := e.evalUnary(j, ec)
		if err != nil {
			return evalRet{}, err
		}
		v := arg.val
		if neg {
			v = v.Neg()
		}
		r, err := v.Sqrt()
		if err != nil {
			return evalRet{}, err
		}
		return evalRet{arg.pos, r}, nil
	case keys.LParen:
		arg, err := e.evalExpr(i+1, ec)
		if err != nil {
			return evalRet{}, err
		}
		if err := e.expect(arg.pos, keys.RParen, ec); err != nil {
			return evalRet{}, err
		}
		return evalRet{arg.pos + 1, arg.val}, nil
	}
	if keys.IsFunc(t.op) {
		if err := e.expect(i+1, keys.LParen, ec); err != nil {
			return evalRet{}, err
		}
		arg, err := e.evalExpr(i+2, ec)
		if err != nil {
			return evalRet{}, err
		}
		if err := e.expect(arg.pos, keys.RParen, ec); err != nil {
			return evalRet{}, err
		}
		v, err := applyFunc(t.op, arg.val, ec)
		if err != nil {
			return evalRet{}, err
		}
		return evalRet{arg.pos + 1, v}, nil
	}
	return evalRet{}, &SyntaxError{Pos: i, Msg: "expected an operand"}
}

// applyFunc evaluates a named function. In degree mode, trig arguments are
// converted from degrees and inverse-trig results converted back; no other
// mode-dependent behavior exists.
func applyFunc(op keys.Key, arg *exact.Real, ec *evalContext) (*exact.Real, error) {
	if ec.degreeMode {
		switch op {
		case keys.Sin, keys.Cos, keys.Tan:
			if op == keys.Tan {
				// The poles of tan land on exact degree arguments; catch
				// them while the argument is still rational, before the
				// radian conversion loses exactness.
				if r, ok := arg.Rat(); ok && tanPoleDegrees(r) {
					return nil, &exact.DomainError{X: arg, Func: "tan"}
				}
			}
			arg = arg.Mul(exact.RadiansPerDegree())
		}
	}
	var v *exact.Real
	var err error
	switch op {
	case keys.Sin:
		v = arg.Sin()
	case keys.Cos:
		v = arg.Cos()
	case keys.Tan:
		v, err = arg.Tan()
	case keys.Asin:
		v, err = arg.Asin()
	case keys.Acos:
		v, err = arg.Acos()
	case keys.Atan:
		v = arg.Atan()
	case keys.Ln:
		v, err = arg.Ln()
	case keys.Log:
		v, err = arg.Log()
	case keys.Exp:
		v = arg.Exp()
	default:
		panic("calcexpr: applyFunc on " + op.String())
	}
	if err != nil {
		return nil, err
	}
	if ec.degreeMode {
		switch op {
		case keys.Asin, keys.Acos, keys.Atan:
			v, err = v.Div(exact.RadiansPerDegree())
			if err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// tanPoleDegrees reports whether d degrees is an odd multiple of 90, a pole
// of the tangent.
func tanPoleDegrees(d *big.Rat) bool {
	m := new(big.Rat).Sub(d, big.NewRat(90, 1))
	m.Quo(m, big.NewRat(180, 1))
	return m.IsInt()
}

func (e *Expr) evalSuffix(i int, ec *evalContext) (evalRet, error) {
	ret, err := e.evalUnary(i, ec)
	if err != nil {
		return evalRet{}, err
	}
	// Postfix operators iterate left to right; 3!! is (3!)!.
	for {
		switch {
		case e.isOperator(ret.pos, keys.Fact, ec):
			ret.val, err = ret.val.Factorial()
		case e.isOperator(ret.pos, keys.Square, ec):
			ret.val = ret.val.Mul(ret.val)
		case e.isOperator(ret.pos, keys.Percent, ec):
			ret.val, err = ret.val.Div(exact.Hundred())
		default:
			return ret, nil
		}
		if err != nil {
			return evalRet{}, err
		}
		ret.pos++
	}
}

func (e *Expr) evalFactor(i int, ec *evalContext) (evalRet, error) {
	ret, err := e.evalSuffix(i, ec)
	if err != nil {
		return evalRet{}, err
	}
	if e.isOperator(ret.pos, keys.Pow, ec) {
		// Right-associative via the recursive call.
		exp, err := e.evalSignedFactor(ret.pos+1, ec)
		if err != nil {
			return evalRet{}, err
		}
		v, err := ret.val.Pow(exp.val)
		if err != nil {
			return evalRet{}, err
		}
		return evalRet{exp.pos, v}, nil
	}
	return ret, nil
}

func (e *Expr) evalSignedFactor(i int, ec *evalContext) (evalRet, error) {
	neg := e.isOperator(i, keys.Sub, ec)
	if neg {
		i++
	}
	ret, err := e.evalFactor(i, ec)
	if err != nil {
		return evalRet{}, err
	}
	if neg {
		ret.val = ret.val.Neg()
	}
	return ret, nil
}

// canStartFactor reports whether the token at i can begin a juxtaposed
// factor. Binary and postfix operators and a close-paren cannot.
func (e *Expr) canStartFactor(i int, ec *evalContext) bool {
	if i >= ec.prefixLen {
		return false
	}
	t := e.toks[i]
	if t.kind != tokenOperator {
		return true
	}
	if keys.IsBinary(t.op) || keys.IsSuffix(t.op) {
		return false
	}
	return t.op != keys.RParen
}

func (e *Expr) evalTerm(i int, ec *evalContext) (evalRet, error) {
	ret, err := e.evalSignedFactor(i, ec)
	if err != nil {
		return evalRet{}, err
	}
	for {
		isMul := e.isOperator(ret.pos, keys.Mul, ec)
		isDiv := !isMul && e.isOperator(ret.pos, keys.Div, ec)
		if !isMul && !isDiv && !e.canStartFactor(ret.pos, ec) {
			return ret, nil
		}
		j := ret.pos
		if isMul || isDiv {
			j++
		}
		rhs, err := e.evalSignedFactor(j, ec)
		if err != nil {
			return evalRet{}, err
		}
		if isDiv {
			ret.val, err = ret.val.Div(rhs.val)
			if err != nil {
				return evalRet{}, err
			}
		} else {
			ret.val = ret.val.Mul(rhs.val)
		}
		ret.pos = rhs.pos
	}
}

// isPercent reports whether the token at i starts the special additive
// percent pattern: a bare literal or pre-evaluated operand, then "%", then
// the end of the prefix, another additive operator, or a close-paren.
func (e *Expr) isPercent(i int, ec *evalContext) bool {
	if ec.prefixLen < i+2 || !e.isOperatorUnchecked(i+1, keys.Percent) {
		return false
	}
	if e.toks[i].kind == tokenOperator {
		return false
	}
	if ec.prefixLen == i+2 {
		return true
	}
	next := e.toks[i+2]
	if next.kind != tokenOperator {
		return false
	}
	return next.op == keys.Add || next.op == keys.Sub || next.op == keys.RParen
}

// evalUnaryPercent evaluates the operand of the percent pattern as a
// fraction: N% → N/100, consuming the "%".
func (e *Expr) evalUnaryPercent(i int, ec *evalContext) (evalRet, error) {
	ret, err := e.evalUnary(i, ec)
	if err != nil {
		return evalRet{}, err
	}
	v, err := ret.val.Div(exact.Hundred())
	if err != nil {
		return evalRet{}, err
	}
	return evalRet{ret.pos + 1, v}, nil
}

func (e *Expr) evalExpr(i int, ec *evalContext) (evalRet, error) {
	if ec.depth++; ec.depth > maxDepth {
		return evalRet{}, &SyntaxError{Pos: i, Msg: "expression too deeply nested"}
	}
	defer func() { ec.depth-- }()
	ret, err := e.evalTerm(i, ec)
	if err != nil {
		return evalRet{}, err
	}
	for {
		isPlus := e.isOperator(ret.pos, keys.Add, ec)
		if !isPlus && !e.isOperator(ret.pos, keys.Sub, ec) {
			return ret, nil
		}
		if e.isPercent(ret.pos+1, ec) {
			// A ± N% scales the running total: A × (1 ± N/100).
			pct, err := e.evalUnaryPercent(ret.pos+1, ec)
			if err != nil {
				return evalRet{}, err
			}
			if isPlus {
				ret.val = ret.val.Mul(exact.One().Add(pct.val))
			} else {
				ret.val = ret.val.Mul(exact.One().Sub(pct.val))
			}
			ret.pos = pct.pos
			continue
		}
		rhs, err := e.evalTerm(ret.pos+1, ec)
		if err != nil {
			return evalRet{}, err
		}
		if isPlus {
			ret.val = ret.val.Add(rhs.val)
		} else {
			ret.val = ret.val.Sub(rhs.val)
		}
		ret.pos = rhs.pos
	}
}

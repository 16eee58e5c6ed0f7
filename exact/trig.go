package exact

// Trigonometry on big.Float. bigfloat provides Exp, Log, Pow, and Pi but no
// trig, so the series live here: sin and cos by Maclaurin series after range
// reduction into (-π, π], atan by series after argument halving, asin and
// acos derived from atan.

import (
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// wprec is the precision used inside trig computation. The extra bits absorb
// cancellation in range reduction and series summation.
const wprec = prec + 2*guard

// reduceAngle returns x reduced into (-π, π] modulo 2π, at wprec.
func reduceAngle(x *big.Float) *big.Float {
	pi := new(big.Float).SetPrec(wprec)
	bigfloat.Pi(pi)
	twoPi := new(big.Float).SetPrec(wprec).Add(pi, pi)
	r := new(big.Float).SetPrec(wprec).Set(x)
	q := new(big.Float).SetPrec(wprec).Quo(r, twoPi)
	qi, _ := q.Int(nil)
	if qi.Sign() != 0 {
		n := new(big.Float).SetPrec(wprec).SetInt(qi)
		r.Sub(r, n.Mul(n, twoPi))
	}
	// r is now in (-2π, 2π); fold into (-π, π].
	if r.Cmp(pi) > 0 {
		r.Sub(r, twoPi)
	} else if r.Cmp(new(big.Float).SetPrec(wprec).Neg(pi)) <= 0 {
		r.Add(r, twoPi)
	}
	return r
}

// converged reports whether a series term is small enough to stop.
func converged(term *big.Float) bool {
	if term.Sign() == 0 {
		return true
	}
	return term.MantExp(nil) < -int(prec+guard)
}

// sinSeries sums the Maclaurin series for sin on a reduced argument.
func sinSeries(z *big.Float) *big.Float {
	sum := new(big.Float).SetPrec(wprec).Set(z)
	term := new(big.Float).SetPrec(wprec).Set(z)
	zz := new(big.Float).SetPrec(wprec).Mul(z, z)
	tmp := new(big.Float).SetPrec(wprec)
	for k := int64(1); ; k++ {
		// term *= -z² / (2k (2k+1))
		term.Mul(term, zz)
		term.Quo(term, tmp.SetInt64(2*k*(2*k+1)))
		term.Neg(term)
		sum.Add(sum, term)
		if converged(term) {
			return sum
		}
	}
}

// cosSeries sums the Maclaurin series for cos on a reduced argument.
func cosSeries(z *big.Float) *big.Float {
	sum := new(big.Float).SetPrec(wprec).SetInt64(1)
	term := new(big.Float).SetPrec(wprec).SetInt64(1)
	zz := new(big.Float).SetPrec(wprec).Mul(z, z)
	tmp := new(big.Float).SetPrec(wprec)
	for k := int64(1); ; k++ {
		// term *= -z² / ((2k-1) 2k)
		term.Mul(term, zz)
		term.Quo(term, tmp.SetInt64((2*k-1)*2*k))
		term.Neg(term)
		sum.Add(sum, term)
		if converged(term) {
			return sum
		}
	}
}

// Sin returns the sine of x, x in radians.
func (x *Real) Sin() *Real {
	if x.Sign() == 0 {
		return zero
	}
	z := sinSeries(reduceAngle(x.approx()))
	return newFloat(z.SetPrec(prec))
}

// Cos returns the cosine of x, x in radians.
func (x *Real) Cos() *Real {
	if x.Sign() == 0 {
		return one
	}
	z := cosSeries(reduceAngle(x.approx()))
	return newFloat(z.SetPrec(prec))
}

// Tan returns the tangent of x, x in radians. Arguments at which the cosine
// vanishes are a domain error.
func (x *Real) Tan() (*Real, error) {
	if x.Sign() == 0 {
		return zero, nil
	}
	r := reduceAngle(x.approx())
	c := cosSeries(r)
	if c.Sign() == 0 {
		return nil, &DomainError{X: x, Func: "tan"}
	}
	s := sinSeries(r)
	return newFloat(s.Quo(s, c).SetPrec(prec)), nil
}

// atanSeries sums the Maclaurin series for atan; |z| must be below 1/2.
func atanSeries(z *big.Float) *big.Float {
	sum := new(big.Float).SetPrec(wprec).Set(z)
	pow := new(big.Float).SetPrec(wprec).Set(z)
	zz := new(big.Float).SetPrec(wprec).Mul(z, z)
	term := new(big.Float).SetPrec(wprec)
	tmp := new(big.Float).SetPrec(wprec)
	for k := int64(1); ; k++ {
		pow.Mul(pow, zz)
		pow.Neg(pow)
		term.Quo(pow, tmp.SetInt64(2*k+1))
		sum.Add(sum, term)
		if converged(term) {
			return sum
		}
	}
}

// Atan returns the arc tangent of x, in radians.
func (x *Real) Atan() *Real {
	if x.Sign() == 0 {
		return zero
	}
	z := new(big.Float).SetPrec(wprec).Set(x.approx())
	neg := z.Sign() < 0
	z.Abs(z)
	// For z > 1, atan z = π/2 - atan 1/z.
	onef := new(big.Float).SetPrec(wprec).SetInt64(1)
	invert := z.Cmp(onef) > 0
	if invert {
		z.Quo(onef, z)
	}
	// Halve until the series converges quickly:
	// atan z = 2 atan(z / (1 + √(1+z²))).
	half := new(big.Float).SetPrec(wprec).SetFloat64(0.5)
	doublings := 0
	tmp := new(big.Float).SetPrec(wprec)
	for z.Cmp(half) >= 0 {
		tmp.Mul(z, z)
		tmp.Add(tmp, onef)
		tmp.Sqrt(tmp)
		tmp.Add(tmp, onef)
		z.Quo(z, tmp)
		doublings++
	}
	r := atanSeries(z)
	for ; doublings > 0; doublings-- {
		r.Add(r, r)
	}
	if invert {
		pi2 := new(big.Float).SetPrec(wprec)
		bigfloat.Pi(pi2)
		pi2.Quo(pi2, new(big.Float).SetInt64(2))
		r.Sub(pi2, r)
	}
	if neg {
		r.Neg(r)
	}
	return newFloat(r.SetPrec(prec))
}

// Asin returns the arc sine of x, in radians. Arguments outside [-1, 1] are
// a domain error.
func (x *Real) Asin() (*Real, error) {
	switch c := cmpAbsOne(x); {
	case c > 0:
		return nil, &DomainError{X: x, Func: "sin⁻¹"}
	case c == 0:
		// ±π/2
		pi2 := new(big.Float).SetPrec(prec)
		bigfloat.Pi(pi2)
		pi2.Quo(pi2, new(big.Float).SetInt64(2))
		if x.Sign() < 0 {
			pi2.Neg(pi2)
		}
		return newFloat(pi2), nil
	}
	if x.Sign() == 0 {
		return zero, nil
	}
	// asin x = atan(x / √(1-x²))
	xf := new(big.Float).SetPrec(wprec).Set(x.approx())
	d := new(big.Float).SetPrec(wprec).Mul(xf, xf)
	d.Sub(new(big.Float).SetPrec(wprec).SetInt64(1), d)
	d.Sqrt(d)
	return newFloat(xf.Quo(xf, d)).Atan(), nil
}

// Acos returns the arc cosine of x, in radians. Arguments outside [-1, 1]
// are a domain error.
func (x *Real) Acos() (*Real, error) {
	a, err := x.Asin()
	if err != nil {
		return nil, &DomainError{X: x, Func: "cos⁻¹"}
	}
	pi2 := new(big.Float).SetPrec(prec)
	bigfloat.Pi(pi2)
	pi2.Quo(pi2, new(big.Float).SetInt64(2))
	return newFloat(pi2).Sub(a), nil
}

// cmpAbsOne compares |x| against 1.
func cmpAbsOne(x *Real) int {
	if x.rat != nil {
		a := new(big.Rat).Abs(x.rat)
		return a.Cmp(one.rat)
	}
	a := new(big.Float).SetPrec(prec).Abs(x.app)
	return a.Cmp(new(big.Float).SetInt64(1))
}

// Package exact implements the exact-or-lazily-precise real numbers consumed
// by the expression engine. A Real stays an exact rational for as long as the
// operations applied to it permit; transcendental operations degrade it to a
// fixed-precision big.Float approximation.
package exact

import (
	"math/big"
	"strings"
	"sync"

	"github.com/zephyrtronium/bigfloat"
)

// prec is the working precision of approximated values, in bits.
const prec = 256

// guard is extra precision used inside argument reduction and series
// summation so that results are correct at prec.
const guard = 32

// maxFactorial bounds factorial arguments. Larger arguments would be exact
// but enormous; the engine reports them as domain errors instead of
// allocating without bound.
const maxFactorial = 100000

// Real is an exact-or-lazy real number. It is immutable; all operations
// return new values. Exactly one of rat and app is non-nil.
type Real struct {
	rat *big.Rat
	app *big.Float
}

func newRat(r *big.Rat) *Real {
	return &Real{rat: r}
}

func newFloat(f *big.Float) *Real {
	return &Real{app: f}
}

// FromRat returns the Real holding an exact rational value. The caller must
// not modify r afterward.
func FromRat(r *big.Rat) *Real {
	return newRat(r)
}

// FromInt64 returns the Real holding an exact integer value.
func FromInt64(n int64) *Real {
	return newRat(new(big.Rat).SetInt64(n))
}

// Shared small constants. These are fine to share because Reals are
// immutable; identity of results still distinguishes separate computations.
var (
	zero    = FromInt64(0)
	one     = FromInt64(1)
	two     = FromInt64(2)
	hundred = FromInt64(100)
)

// One is the exact value 1.
func One() *Real { return one }

// Hundred is the exact value 100.
func Hundred() *Real { return hundred }

var (
	piOnce sync.Once
	piVal  *Real
	eOnce  sync.Once
	eVal   *Real
	rpdVal *Real
	rpdOne sync.Once
)

// Pi returns π to working precision.
func Pi() *Real {
	piOnce.Do(func() {
		z := new(big.Float).SetPrec(prec)
		piVal = newFloat(bigfloat.Pi(z))
	})
	return piVal
}

// E returns e to working precision.
func E() *Real {
	eOnce.Do(func() {
		var one big.Float
		one.SetInt64(1)
		z := new(big.Float).SetPrec(prec)
		eVal = newFloat(bigfloat.Exp(z, &one))
	})
	return eVal
}

// RadiansPerDegree returns π/180 to working precision. Degree-mode trig
// multiplies arguments by it on the way in and divides inverse results by it
// on the way out.
func RadiansPerDegree() *Real {
	rpdOne.Do(func() {
		z := new(big.Float).SetPrec(prec)
		bigfloat.Pi(z)
		z.Quo(z, new(big.Float).SetInt64(180))
		rpdVal = newFloat(z)
	})
	return rpdVal
}

// Rat returns the exact rational value of x, if x is known rational. The
// caller must not modify the result.
func (x *Real) Rat() (*big.Rat, bool) {
	if x.rat == nil {
		return nil, false
	}
	return x.rat, true
}

// approx returns the value of x as a big.Float at working precision. The
// caller must not modify the result.
func (x *Real) approx() *big.Float {
	if x.rat != nil {
		return new(big.Float).SetPrec(prec).SetRat(x.rat)
	}
	return x.app
}

// Float64 returns the nearest float64 to x.
func (x *Real) Float64() float64 {
	f, _ := x.approx().Float64()
	return f
}

// Sign returns -1, 0, or +1 according to the sign of x. For approximated
// values this is the sign of the approximation.
func (x *Real) Sign() int {
	if x.rat != nil {
		return x.rat.Sign()
	}
	return x.app.Sign()
}

// Eq reports whether x and y hold the same value. Rational values compare
// exactly; comparisons involving approximations ignore the lowest bits so
// that independently recomputed values still compare equal.
func (x *Real) Eq(y *Real) bool {
	if x.rat != nil && y.rat != nil {
		return x.rat.Cmp(y.rat) == 0
	}
	a, b := x.approx(), y.approx()
	if a.Cmp(b) == 0 {
		return true
	}
	diff := new(big.Float).SetPrec(prec).Sub(a, b)
	if diff.Sign() == 0 {
		return true
	}
	de := diff.MantExp(nil)
	ae := a.MantExp(nil)
	be := b.MantExp(nil)
	max := ae
	if be > max {
		max = be
	}
	return de <= max-(prec-2*guard)
}

// Add returns x + y.
func (x *Real) Add(y *Real) *Real {
	if x.rat != nil && y.rat != nil {
		return newRat(new(big.Rat).Add(x.rat, y.rat))
	}
	return newFloat(new(big.Float).SetPrec(prec).Add(x.approx(), y.approx()))
}

// Sub returns x - y.
func (x *Real) Sub(y *Real) *Real {
	if x.rat != nil && y.rat != nil {
		return newRat(new(big.Rat).Sub(x.rat, y.rat))
	}
	return newFloat(new(big.Float).SetPrec(prec).Sub(x.approx(), y.approx()))
}

// Mul returns x × y.
func (x *Real) Mul(y *Real) *Real {
	if x.rat != nil && y.rat != nil {
		return newRat(new(big.Rat).Mul(x.rat, y.rat))
	}
	return newFloat(new(big.Float).SetPrec(prec).Mul(x.approx(), y.approx()))
}

// Neg returns -x.
func (x *Real) Neg() *Real {
	if x.rat != nil {
		return newRat(new(big.Rat).Neg(x.rat))
	}
	return newFloat(new(big.Float).SetPrec(prec).Neg(x.app))
}

// Div returns x ÷ y. Division by zero is a domain error.
func (x *Real) Div(y *Real) (*Real, error) {
	if y.Sign() == 0 {
		return nil, &DomainError{X: y, Func: "÷"}
	}
	if x.rat != nil && y.rat != nil {
		return newRat(new(big.Rat).Quo(x.rat, y.rat)), nil
	}
	return newFloat(new(big.Float).SetPrec(prec).Quo(x.approx(), y.approx())), nil
}

// isInt reports whether x is an exact integer, and if so returns it.
func (x *Real) isInt() (*big.Int, bool) {
	if x.rat == nil || !x.rat.IsInt() {
		return nil, false
	}
	return x.rat.Num(), true
}

// Pow returns x^y. A zero base requires a nonnegative exponent, and a
// negative base requires an integer exponent; 0^0 is defined as 1.
func (x *Real) Pow(y *Real) (*Real, error) {
	if y.Sign() == 0 {
		return one, nil
	}
	if x.Sign() == 0 {
		if y.Sign() < 0 {
			return nil, &DomainError{X: x, Func: "^"}
		}
		return zero, nil
	}
	if n, ok := y.isInt(); ok {
		return x.powInt(n)
	}
	if x.Sign() < 0 {
		// Non-integer exponent of a negative base.
		return nil, &DomainError{X: x, Func: "^"}
	}
	z := new(big.Float).SetPrec(prec)
	bigfloat.Pow(z, x.approx(), y.approx())
	return newFloat(z), nil
}

// maxRatExp bounds exponents taken on the exact rational path. Beyond it the
// result is approximated to keep memory bounded.
const maxRatExp = 1 << 16

func (x *Real) powInt(n *big.Int) (*Real, error) {
	neg := n.Sign() < 0
	abs := new(big.Int).Abs(n)
	if x.rat != nil && abs.IsInt64() && abs.Int64() <= maxRatExp {
		e := int(abs.Int64())
		num := new(big.Int).Exp(x.rat.Num(), big.NewInt(int64(e)), nil)
		den := new(big.Int).Exp(x.rat.Denom(), big.NewInt(int64(e)), nil)
		r := new(big.Rat).SetFrac(num, den)
		if neg {
			r.Inv(r)
		}
		return newRat(r), nil
	}
	// Approximate: x^n = ±|x|^n.
	odd := abs.Bit(0) == 1
	ax := new(big.Float).SetPrec(prec).Abs(x.approx())
	en := new(big.Float).SetPrec(prec).SetInt(abs)
	z := new(big.Float).SetPrec(prec)
	bigfloat.Pow(z, ax, en)
	if neg {
		z.Quo(new(big.Float).SetPrec(prec).SetInt64(1), z)
	}
	if x.Sign() < 0 && odd {
		z.Neg(z)
	}
	return newFloat(z), nil
}

// Sqrt returns the square root of x. Negative arguments are a domain error.
// Rational arguments with perfect-square numerator and denominator stay
// exact.
func (x *Real) Sqrt() (*Real, error) {
	if x.Sign() < 0 {
		return nil, &DomainError{X: x, Func: "√"}
	}
	if x.rat != nil {
		if r, ok := ratSqrt(x.rat); ok {
			return newRat(r), nil
		}
	}
	z := new(big.Float).SetPrec(prec).Sqrt(x.approx())
	return newFloat(z), nil
}

// ratSqrt returns the exact square root of a nonnegative rational if both
// numerator and denominator are perfect squares.
func ratSqrt(r *big.Rat) (*big.Rat, bool) {
	num := new(big.Int).Sqrt(r.Num())
	if new(big.Int).Mul(num, num).Cmp(r.Num()) != 0 {
		return nil, false
	}
	den := new(big.Int).Sqrt(r.Denom())
	if new(big.Int).Mul(den, den).Cmp(r.Denom()) != 0 {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

// Ln returns the natural logarithm of x. Nonpositive arguments are a domain
// error.
func (x *Real) Ln() (*Real, error) {
	if x.Sign() <= 0 {
		return nil, &DomainError{X: x, Func: "ln"}
	}
	if x.rat != nil && x.rat.Cmp(one.rat) == 0 {
		return zero, nil
	}
	z := new(big.Float).SetPrec(prec)
	bigfloat.Log(z, x.approx())
	return newFloat(z), nil
}

// Log returns the base-10 logarithm of x.
func (x *Real) Log() (*Real, error) {
	l, err := x.Ln()
	if err != nil {
		return nil, &DomainError{X: x, Func: "log"}
	}
	ten := new(big.Float).SetPrec(prec).SetInt64(10)
	l10 := new(big.Float).SetPrec(prec)
	bigfloat.Log(l10, ten)
	return newFloat(new(big.Float).SetPrec(prec).Quo(l.approx(), l10)), nil
}

// Exp returns e^x.
func (x *Real) Exp() *Real {
	if x.Sign() == 0 {
		return one
	}
	z := new(big.Float).SetPrec(prec)
	bigfloat.Exp(z, x.approx())
	return newFloat(z)
}

// Factorial returns x!. The argument must be an exact nonnegative integer no
// larger than maxFactorial.
func (x *Real) Factorial() (*Real, error) {
	n, ok := x.isInt()
	if !ok || n.Sign() < 0 || !n.IsInt64() || n.Int64() > maxFactorial {
		return nil, &DomainError{X: x, Func: "!"}
	}
	f := new(big.Int).MulRange(1, n.Int64())
	return newRat(new(big.Rat).SetInt(f)), nil
}

// Format renders x to at most digits significant decimal digits. A trailing
// '…' marks a truncated or approximated value; its absence means the string
// is exact.
func (x *Real) Format(digits int) string {
	if digits < 1 {
		digits = 1
	}
	if x.rat != nil {
		if x.rat.IsInt() {
			s := x.rat.Num().String()
			if len(strings.TrimPrefix(s, "-")) <= digits {
				return s
			}
			f := new(big.Float).SetPrec(prec).SetRat(x.rat)
			return f.Text('g', digits) + "…"
		}
		if fd, ok := finiteDecimalDigits(x.rat); ok && fd <= digits {
			s := x.rat.FloatString(fd)
			return s
		}
		f := new(big.Float).SetPrec(prec).SetRat(x.rat)
		return f.Text('g', digits) + "…"
	}
	return x.app.Text('g', digits) + "…"
}

// String renders x with a default digit budget.
func (x *Real) String() string {
	return x.Format(10)
}

// finiteDecimalDigits returns the number of fraction digits in the exact
// decimal expansion of r, if it has one (denominator of the form 2^a 5^b).
func finiteDecimalDigits(r *big.Rat) (int, bool) {
	d := new(big.Int).Set(r.Denom())
	two := big.NewInt(2)
	five := big.NewInt(5)
	var m big.Int
	a, b := 0, 0
	for {
		q, rem := new(big.Int).QuoRem(d, two, &m)
		if rem.Sign() != 0 {
			break
		}
		d = q
		a++
	}
	for {
		q, rem := new(big.Int).QuoRem(d, five, &m)
		if rem.Sign() != 0 {
			break
		}
		d = q
		b++
	}
	if d.Cmp(big.NewInt(1)) != 0 {
		return 0, false
	}
	if b > a {
		return b, true
	}
	return a, true
}

// DomainError is the error returned when an operation is applied to an
// argument outside its domain: division by zero, the square root or
// logarithm of a negative value, and so on.
type DomainError struct {
	// X is the out-of-domain argument.
	X *Real
	// Func is the display name of the operation.
	Func string
}

func (err *DomainError) Error() string {
	return err.X.String() + " outside domain of " + err.Func
}

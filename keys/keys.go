// Package keys defines the catalog of calculator key identities: digits,
// operators, functions, and constants. The expression engine stores Key
// values in operator tokens and consults the classification predicates here;
// it never interprets key ids itself.
package keys

// Key identifies one calculator key.
type Key int32

const (
	None Key = iota

	Digit0
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	DecimalPoint

	// binary operators
	Add
	Sub
	Mul
	Div
	Pow

	// unary operators
	Sqrt
	Fact
	Square
	Percent

	LParen
	RParen

	// functions; each expects an explicit LParen after it
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Ln
	Log
	Exp

	// constants
	Pi
	E

	numKeys // must be last
)

// NotDigit is the result of DigitVal for keys that are not digits.
const NotDigit = -1

// Valid reports whether k is a key defined by the catalog.
func Valid(k Key) bool {
	return k > None && k < numKeys
}

// IsBinary reports whether k is a binary operator. Sub is binary as well as
// prefix; callers distinguishing unary minus must also check IsPrefix.
func IsBinary(k Key) bool {
	switch k {
	case Add, Sub, Mul, Div, Pow:
		return true
	}
	return false
}

// IsPrefix reports whether k may begin an operand.
func IsPrefix(k Key) bool {
	return k == Sub || k == Sqrt
}

// IsSuffix reports whether k is a postfix operator.
func IsSuffix(k Key) bool {
	switch k {
	case Fact, Square, Percent:
		return true
	}
	return false
}

// IsFunc reports whether k is a named function.
func IsFunc(k Key) bool {
	switch k {
	case Sin, Cos, Tan, Asin, Acos, Atan, Ln, Log, Exp:
		return true
	}
	return false
}

// IsTrigFunc reports whether k is a trigonometric function, direct or
// inverse. Used to decide whether an angle-mode indicator is relevant.
func IsTrigFunc(k Key) bool {
	switch k {
	case Sin, Cos, Tan, Asin, Acos, Atan:
		return true
	}
	return false
}

// DigitVal returns the numeric value of a digit key, or NotDigit.
func DigitVal(k Key) int {
	if k < Digit0 || k > Digit9 {
		return NotDigit
	}
	return int(k - Digit0)
}

var displays = map[Key]string{
	Digit0: "0", Digit1: "1", Digit2: "2", Digit3: "3", Digit4: "4",
	Digit5: "5", Digit6: "6", Digit7: "7", Digit8: "8", Digit9: "9",
	DecimalPoint: ".",
	Add:          "+",
	Sub:          "−",
	Mul:          "×",
	Div:          "÷",
	Pow:          "^",
	Sqrt:         "√",
	Fact:         "!",
	Square:       "²",
	Percent:      "%",
	LParen:       "(",
	RParen:       ")",
	Sin:          "sin",
	Cos:          "cos",
	Tan:          "tan",
	Asin:         "sin⁻¹",
	Acos:         "cos⁻¹",
	Atan:         "tan⁻¹",
	Ln:           "ln",
	Log:          "log",
	Exp:          "exp",
	Pi:           "π",
	E:            "e",
}

// String returns the display glyph for a key.
func (k Key) String() string {
	return displays[k]
}

var described = map[Key]string{
	DecimalPoint: "point",
	Add:          "plus",
	Sub:          "minus",
	Mul:          "times",
	Div:          "divided by",
	Pow:          "power",
	Sqrt:         "square root",
	Fact:         "factorial",
	Square:       "squared",
	Percent:      "percent",
	LParen:       "open parenthesis",
	RParen:       "close parenthesis",
	Sin:          "sine",
	Cos:          "cosine",
	Tan:          "tangent",
	Asin:         "arc sine",
	Acos:         "arc cosine",
	Atan:         "arc tangent",
	Ln:           "natural logarithm",
	Log:          "logarithm",
	Exp:          "exponential",
	Pi:           "pi",
	E:            "e",
}

// Describe returns a spoken description of a key for accessibility
// announcements. Digits describe as themselves.
func (k Key) Describe() string {
	if d, ok := described[k]; ok {
		return d
	}
	return displays[k]
}

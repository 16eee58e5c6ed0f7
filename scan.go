package calcexpr

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

// Tokens converts typed or pasted text into the keypress sequence that would
// have produced it. Operator glyphs and their plain ASCII aliases are both
// accepted; function and constant names scan as identifiers. Whitespace is
// ignored.
func Tokens(src string) ([]keys.Key, error) {
	var out []keys.Key
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case '0' <= r && r <= '9':
			out = append(out, keys.Digit0+keys.Key(r-'0'))
			i++
		case r == '_' || unicode.IsLetter(r) && !singleRune(r):
			j := i
			for j < len(rs) && (rs[j] == '_' || unicode.IsLetter(rs[j])) && singleKey(rs[j]) == keys.None {
				j++
			}
			word := string(rs[i:j])
			k, ok := idents[strings.ToLower(word)]
			if !ok {
				return nil, &ScanError{Col: i + 1, Text: word}
			}
			out = append(out, k)
			i = j
		default:
			k := singleKey(r)
			if k == keys.None {
				return nil, &ScanError{Col: i + 1, Text: string(r)}
			}
			out = append(out, k)
			i++
		}
	}
	return out, nil
}

// singleRune reports whether a letter-class rune scans as a key on its own
// rather than starting an identifier.
func singleRune(r rune) bool {
	return r == 'π' || r == '²'
}

var singles = map[rune]keys.Key{
	'.': keys.DecimalPoint,
	'+': keys.Add,
	'-': keys.Sub,
	'−': keys.Sub,
	'–': keys.Sub,
	'*': keys.Mul,
	'×': keys.Mul,
	'/': keys.Div,
	'÷': keys.Div,
	'^': keys.Pow,
	'√': keys.Sqrt,
	'!': keys.Fact,
	'²': keys.Square,
	'%': keys.Percent,
	'(': keys.LParen,
	')': keys.RParen,
	'π': keys.Pi,
}

func singleKey(r rune) keys.Key {
	return singles[r]
}

var idents = map[string]keys.Key{
	"sin":  keys.Sin,
	"cos":  keys.Cos,
	"tan":  keys.Tan,
	"asin": keys.Asin,
	"acos": keys.Acos,
	"atan": keys.Atan,
	"ln":   keys.Ln,
	"log":  keys.Log,
	"exp":  keys.Exp,
	"sqrt": keys.Sqrt,
	"pi":   keys.Pi,
	"e":    keys.E,
}

// ScanError indicates text that does not correspond to any calculator key.
type ScanError struct {
	// Col is the 1-based rune position of the unrecognized text.
	Col int
	// Text is the unrecognized rune or word.
	Text string
}

func (err *ScanError) Error() string {
	return "no key for " + strconv.Quote(err.Text) + " at column " + strconv.Itoa(err.Col)
}

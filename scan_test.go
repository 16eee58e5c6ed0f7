package calcexpr

import (
	"errors"
	"testing"

	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

func TestTokens(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []keys.Key
	}{
		{"digits", "42", []keys.Key{keys.Digit4, keys.Digit2}},
		{"decimal", "1.5", []keys.Key{keys.Digit1, keys.DecimalPoint, keys.Digit5}},
		{"sum", "1+2", []keys.Key{keys.Digit1, keys.Add, keys.Digit2}},
		{"ascii-aliases", "2*3/4-5", []keys.Key{
			keys.Digit2, keys.Mul, keys.Digit3, keys.Div,
			keys.Digit4, keys.Sub, keys.Digit5,
		}},
		{"glyphs", "2×3÷4−5", []keys.Key{
			keys.Digit2, keys.Mul, keys.Digit3, keys.Div,
			keys.Digit4, keys.Sub, keys.Digit5,
		}},
		{"func-call", "sin(30)", []keys.Key{
			keys.Sin, keys.LParen, keys.Digit3, keys.Digit0, keys.RParen,
		}},
		{"sqrt-glyph", "√2", []keys.Key{keys.Sqrt, keys.Digit2}},
		{"sqrt-word", "sqrt2", []keys.Key{keys.Sqrt, keys.Digit2}},
		{"suffixes", "3!²%", []keys.Key{
			keys.Digit3, keys.Fact, keys.Square, keys.Percent,
		}},
		{"constants", "2πe", []keys.Key{keys.Digit2, keys.Pi, keys.E}},
		{"pi-word", "2pi", []keys.Key{keys.Digit2, keys.Pi}},
		{"mixed-case", "SIN(1)", []keys.Key{
			keys.Sin, keys.LParen, keys.Digit1, keys.RParen,
		}},
		{"whitespace", " 1 + 2 ", []keys.Key{keys.Digit1, keys.Add, keys.Digit2}},
		{"empty", "", nil},
		{"caret", "2^3", []keys.Key{keys.Digit2, keys.Pow, keys.Digit3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Tokens(c.src)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(c.want) {
				t.Fatalf("Tokens(%q) = %v, want %v", c.src, got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("Tokens(%q)[%d] = %v, want %v", c.src, i, got[i], c.want[i])
				}
			}
		})
	}
}

func TestTokensErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		col  int
		text string
	}{
		{"bad-rune", "1#2", 2, "#"},
		{"bad-word", "1+frob", 3, "frob"},
		{"bad-word-prefix", "si(1)", 1, "si"},
		{"underscore", "_x", 1, "_x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Tokens(c.src)
			var se *ScanError
			if !errors.As(err, &se) {
				t.Fatalf("Tokens(%q) error = %v, want *ScanError", c.src, err)
			}
			if se.Col != c.col || se.Text != c.text {
				t.Errorf("ScanError = {%d %q}, want {%d %q}", se.Col, se.Text, c.col, c.text)
			}
		})
	}
}

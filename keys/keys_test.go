package keys

import "testing"

func TestClassification(t *testing.T) {
	cases := []struct {
		k                                       Key
		binary, prefix, suffix, fn, trig, digit bool
	}{
		{Digit0, false, false, false, false, false, true},
		{Digit9, false, false, false, false, false, true},
		{DecimalPoint, false, false, false, false, false, false},
		{Add, true, false, false, false, false, false},
		{Sub, true, true, false, false, false, false},
		{Mul, true, false, false, false, false, false},
		{Div, true, false, false, false, false, false},
		{Pow, true, false, false, false, false, false},
		{Sqrt, false, true, false, false, false, false},
		{Fact, false, false, true, false, false, false},
		{Square, false, false, true, false, false, false},
		{Percent, false, false, true, false, false, false},
		{LParen, false, false, false, false, false, false},
		{RParen, false, false, false, false, false, false},
		{Sin, false, false, false, true, true, false},
		{Atan, false, false, false, true, true, false},
		{Ln, false, false, false, true, false, false},
		{Exp, false, false, false, true, false, false},
		{Pi, false, false, false, false, false, false},
		{E, false, false, false, false, false, false},
	}
	for _, c := range cases {
		t.Run(c.k.String(), func(t *testing.T) {
			if got := IsBinary(c.k); got != c.binary {
				t.Errorf("IsBinary(%v) = %v, want %v", c.k, got, c.binary)
			}
			if got := IsPrefix(c.k); got != c.prefix {
				t.Errorf("IsPrefix(%v) = %v, want %v", c.k, got, c.prefix)
			}
			if got := IsSuffix(c.k); got != c.suffix {
				t.Errorf("IsSuffix(%v) = %v, want %v", c.k, got, c.suffix)
			}
			if got := IsFunc(c.k); got != c.fn {
				t.Errorf("IsFunc(%v) = %v, want %v", c.k, got, c.fn)
			}
			if got := IsTrigFunc(c.k); got != c.trig {
				t.Errorf("IsTrigFunc(%v) = %v, want %v", c.k, got, c.trig)
			}
			if got := DigitVal(c.k) != NotDigit; got != c.digit {
				t.Errorf("DigitVal(%v) digit-ness = %v, want %v", c.k, got, c.digit)
			}
		})
	}
}

func TestDigitVal(t *testing.T) {
	for d := 0; d <= 9; d++ {
		k := Digit0 + Key(d)
		if got := DigitVal(k); got != d {
			t.Errorf("DigitVal(%v) = %d, want %d", k, got, d)
		}
	}
	if got := DigitVal(Add); got != NotDigit {
		t.Errorf("DigitVal(Add) = %d, want NotDigit", got)
	}
}

func TestValid(t *testing.T) {
	if Valid(None) {
		t.Error("None is valid")
	}
	if Valid(numKeys) {
		t.Error("numKeys is valid")
	}
	if Valid(numKeys + 100) {
		t.Error("out-of-range key is valid")
	}
	for k := Digit0; k < numKeys; k++ {
		if !Valid(k) {
			t.Errorf("%v is not valid", k)
		}
	}
}

func TestStrings(t *testing.T) {
	// Every key has a display glyph and a description.
	for k := Digit0; k < numKeys; k++ {
		if k.String() == "" {
			t.Errorf("key %d has no display string", k)
		}
		if k.Describe() == "" {
			t.Errorf("key %d has no description", k)
		}
	}
}

package calcexpr_test

import (
	"bytes"
	"errors"
	"testing"

	calcexpr "github.com/zjw-swun/ExactCalculator-sub003"
	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

func roundTrip(t *testing.T, e *calcexpr.Expr) *calcexpr.Expr {
	t.Helper()
	var buf bytes.Buffer
	if err := e.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	d, err := calcexpr.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"42",
		"1.25",
		"1+2×3",
		"(200+10%)",
		"sin(30)",
		"√2",
		"3!!",
		"-5+",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			e := build(t, src)
			want, err := e.Eval(false)
			if err != nil {
				t.Fatal(err)
			}
			d := roundTrip(t, e)
			got, err := d.Eval(false)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Eq(want) {
				t.Errorf("decoded %q = %s, want %s", src, got, want)
			}
			if d.String() != e.String() {
				t.Errorf("decoded rendering %q, want %q", d, e)
			}
		})
	}
}

func TestRoundTripExponent(t *testing.T) {
	e := build(t, "25")
	if !e.AddExponent(-3) {
		t.Fatal("AddExponent rejected")
	}
	d := roundTrip(t, e)
	want, err := e.Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	got, err := d.Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Eq(want) {
		t.Errorf("decoded = %s, want %s", got, want)
	}
}

func TestRoundTripPreEval(t *testing.T) {
	base := build(t, "6×7")
	val, err := base.Eval(true)
	if err != nil {
		t.Fatal(err)
	}
	ans := base.Abbreviate(val, true, val.Format(10))
	e := calcexpr.NewExpr()
	e.Append(ans)
	for _, k := range []keys.Key{keys.Add, keys.Digit8} {
		if !e.Add(k) {
			t.Fatalf("key %v rejected", k)
		}
	}
	d := roundTrip(t, e)
	got, err := d.Eval(true)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Eq(wantRat(t, "50")) {
		t.Errorf("decoded ans+8 = %s, want 50", got)
	}
}

// chain builds an expression embedding the same frozen result n times,
// separated by +.
func chain(t *testing.T, ans *calcexpr.Expr, n int) *calcexpr.Expr {
	t.Helper()
	e := calcexpr.NewExpr()
	for i := 0; i < n; i++ {
		if i > 0 {
			if !e.Add(keys.Add) {
				t.Fatal("+ rejected")
			}
		}
		e.Append(ans)
	}
	return e
}

func encodedLen(t *testing.T, e *calcexpr.Expr) int {
	t.Helper()
	var buf bytes.Buffer
	if err := e.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Len()
}

func TestDedupSharedValues(t *testing.T) {
	base := build(t, "123456789+987654321")
	val, err := base.Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	ans := base.Abbreviate(val, false, val.Format(10))

	// Each additional reference past the first must cost a constant few
	// bytes, not another copy of the subexpression.
	n2 := encodedLen(t, chain(t, ans, 2))
	n3 := encodedLen(t, chain(t, ans, 3))
	n8 := encodedLen(t, chain(t, ans, 8))
	per := n3 - n2
	if per > 16 {
		t.Errorf("marginal reference costs %d bytes", per)
	}
	if want := n3 + 5*per; n8 != want {
		t.Errorf("8 references encode to %d bytes, want %d", n8, want)
	}

	// And the decoded form still evaluates correctly.
	e := chain(t, ans, 3)
	want, err := e.Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	got, err := roundTrip(t, e).Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Eq(want) {
		t.Errorf("decoded chain = %s, want %s", got, want)
	}
}

func TestDedupNestedHistory(t *testing.T) {
	// Simulate "continue from last answer" n times. Without
	// back-references the encoding would double at every step.
	cur := build(t, "1+1")
	val, err := cur.Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	ans := cur.Abbreviate(val, false, val.Format(10))
	var sizes []int
	for i := 0; i < 8; i++ {
		next := calcexpr.NewExpr()
		next.Append(ans)
		if !next.Add(keys.Add) {
			t.Fatal("+ rejected")
		}
		next.Append(ans)
		val, err = next.Eval(false)
		if err != nil {
			t.Fatal(err)
		}
		ans = next.Abbreviate(val, false, val.Format(10))
		sizes = append(sizes, encodedLen(t, ans))
	}
	// Growth per generation must be roughly constant.
	first := sizes[1] - sizes[0]
	last := sizes[len(sizes)-1] - sizes[len(sizes)-2]
	if last > 4*first+64 {
		t.Errorf("encoding grows superlinearly: sizes %v", sizes)
	}
	got, err := roundTrip(t, ans).Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	// 2 doubled 8 times.
	if !got.Eq(wantRat(t, "512")) {
		t.Errorf("decoded history = %s, want 512", got)
	}
}

func TestEncodeIndependentPasses(t *testing.T) {
	base := build(t, "6×7")
	val, err := base.Eval(false)
	if err != nil {
		t.Fatal(err)
	}
	ans := base.Abbreviate(val, false, "42")
	e := chain(t, ans, 2)
	var a, b bytes.Buffer
	if err := e.Encode(&a); err != nil {
		t.Fatal(err)
	}
	if err := e.Encode(&b); err != nil {
		t.Fatal(err)
	}
	// A fresh pass starts a fresh table: the second encoding is
	// byte-identical, not a run of dangling back-references.
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("second encoding differs from first")
	}
	if _, err := calcexpr.Decode(&a); err != nil {
		t.Fatal(err)
	}
	if _, err := calcexpr.Decode(&b); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	good := func() []byte {
		var buf bytes.Buffer
		if err := build(t, "1+2").Encode(&buf); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}()
	cases := []struct {
		name   string
		mangle func([]byte) []byte
	}{
		{"empty-stream", func(b []byte) []byte { return nil }},
		{"truncated", func(b []byte) []byte { return b[:len(b)-2] }},
		{"bad-tag", func(b []byte) []byte {
			c := append([]byte(nil), b...)
			c[4] = 0xff // first variant tag
			return c
		}},
		{"huge-count", func(b []byte) []byte {
			c := append([]byte(nil), b...)
			c[0], c[1], c[2], c[3] = 0x7f, 0xff, 0xff, 0xff
			return c
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := calcexpr.Decode(bytes.NewReader(c.mangle(good)))
			var fe *calcexpr.FormatError
			if !errors.As(err, &fe) {
				t.Errorf("Decode error = %v, want *FormatError", err)
			}
		})
	}
}

func TestDecodeBadOperator(t *testing.T) {
	var buf bytes.Buffer
	// count 1, operator tag, id 9999
	buf.Write([]byte{0, 0, 0, 1, 1, 0, 0, 0x27, 0x0f})
	_, err := calcexpr.Decode(&buf)
	var fe *calcexpr.FormatError
	if !errors.As(err, &fe) {
		t.Errorf("Decode error = %v, want *FormatError", err)
	}
}

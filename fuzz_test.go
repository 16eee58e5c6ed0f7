//go:build go1.18
// +build go1.18

package calcexpr_test

import (
	"bytes"
	"testing"

	calcexpr "github.com/zjw-swun/ExactCalculator-sub003"
	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

func FuzzAddDelete(f *testing.F) {
	f.Add([]byte("1+2"))
	f.Add([]byte("sin(30)"))
	f.Add([]byte("√2²%"))
	f.Fuzz(func(t *testing.T, src []byte) {
		ks, err := calcexpr.Tokens(string(src))
		if err != nil {
			return
		}
		e := calcexpr.NewExpr()
		n := 0
		for _, k := range ks {
			if e.Add(k) {
				n++
			}
		}
		e.Eval(false)
		for i := 0; i < n; i++ {
			e.Delete()
		}
		if !e.IsEmpty() {
			t.Errorf("buffer %q not empty after %d deletes", e, n)
		}
	})
}

func FuzzAddKeys(f *testing.F) {
	f.Add([]byte{1, 11, 2})
	f.Fuzz(func(t *testing.T, raw []byte) {
		e := calcexpr.NewExpr()
		for _, b := range raw {
			e.Add(keys.Key(b))
		}
		e.Eval(true)
		_ = e.String()
	})
}

func FuzzDecode(f *testing.F) {
	e := calcexpr.NewExpr()
	ks, _ := calcexpr.Tokens("1+2")
	for _, k := range ks {
		e.Add(k)
	}
	var buf bytes.Buffer
	e.Encode(&buf)
	f.Add(buf.Bytes())
	f.Add([]byte{0, 0, 0, 1, 2, 0, 0, 0, 0})
	f.Fuzz(func(t *testing.T, raw []byte) {
		d, err := calcexpr.Decode(bytes.NewReader(raw))
		if err != nil {
			return
		}
		var out bytes.Buffer
		if err := d.Encode(&out); err != nil {
			t.Errorf("decoded expression failed to re-encode: %v", err)
		}
	})
}

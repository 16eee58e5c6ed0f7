package calcexpr

// Byte-stream serialization. Layout: int32 token count, then per token a
// variant tag byte followed by the variant record. Pre-evaluated tokens
// carry a back-reference index allocated per write pass: the first
// occurrence of a value writes its subexpression once, repeats write only
// the index. Without the index table, expressions that chain "continue from
// last result" would serialize their shared history once per reference and
// blow up exponentially.
//
// The dedup tables live in writeState/readState values created per pass and
// threaded through the recursion explicitly, so independent passes can never
// observe each other's indices.

import (
	"encoding/binary"
	"io"

	"github.com/zjw-swun/ExactCalculator-sub003/exact"
	"github.com/zjw-swun/ExactCalculator-sub003/keys"
)

// Limits on decoded counts. Anything past these is corruption, not a
// plausible expression.
const (
	maxSerialTokens = 1 << 20
	maxSerialString = 1 << 20
)

// writeState is the per-pass dedup table for encoding: each distinct
// pre-evaluated value identity maps to the back-reference index it was
// assigned on first encounter.
type writeState struct {
	refs map[*exact.Real]int32
}

// readState mirrors writeState for decoding: back-reference index to the
// reconstructed token, shared by every reference to it.
type readState struct {
	refs map[int32]*token
}

// Encode serializes the expression. Each call is an independent pass with
// its own dedup table.
func (e *Expr) Encode(w io.Writer) error {
	st := &writeState{refs: make(map[*exact.Real]int32)}
	return e.encode(w, st)
}

func (e *Expr) encode(w io.Writer, st *writeState) error {
	if err := writeInt32(w, int32(len(e.toks))); err != nil {
		return err
	}
	for _, t := range e.toks {
		if err := writeByte(w, byte(t.kind)); err != nil {
			return err
		}
		switch t.kind {
		case tokenConstant:
			if err := writeString(w, t.lit.whole); err != nil {
				return err
			}
			if err := writeBool(w, t.lit.sawDecimal); err != nil {
				return err
			}
			if err := writeString(w, t.lit.fraction); err != nil {
				return err
			}
			if err := writeInt32(w, t.lit.exponent); err != nil {
				return err
			}
		case tokenOperator:
			if err := writeInt32(w, int32(t.op)); err != nil {
				return err
			}
		case tokenPreEval:
			if err := t.pe.encode(w, st); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *preEval) encode(w io.Writer, st *writeState) error {
	if idx, ok := st.refs[p.val]; ok {
		return writeInt32(w, idx)
	}
	idx := int32(len(st.refs))
	st.refs[p.val] = idx
	if err := writeInt32(w, idx); err != nil {
		return err
	}
	if err := p.expr.encode(w, st); err != nil {
		return err
	}
	if err := writeBool(w, p.degreeMode); err != nil {
		return err
	}
	return writeString(w, p.shortRep)
}

// Decode reconstructs an expression serialized by Encode. Each call is an
// independent pass with its own dedup table. Pre-evaluated values are
// recomputed by re-running the evaluator over their decoded subexpressions;
// only previously evaluated subexpressions are ever written, so this is
// expected to succeed and to be cheap, though it is not bounded-time.
func Decode(r io.Reader) (*Expr, error) {
	st := &readState{refs: make(map[int32]*token)}
	return decode(r, st)
}

func decode(r io.Reader, st *readState) (*Expr, error) {
	n, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > maxSerialTokens {
		return nil, &FormatError{Msg: "implausible token count"}
	}
	e := &Expr{toks: make([]*token, 0, n)}
	for i := int32(0); i < n; i++ {
		tag, err := readByte(r)
		if err != nil {
			return nil, err
		}
		switch tokenKind(tag) {
		case tokenConstant:
			lit := &literal{}
			if lit.whole, err = readDigits(r); err != nil {
				return nil, err
			}
			if lit.sawDecimal, err = readBool(r); err != nil {
				return nil, err
			}
			if lit.fraction, err = readDigits(r); err != nil {
				return nil, err
			}
			if lit.exponent, err = readInt32(r); err != nil {
				return nil, err
			}
			if lit.empty() {
				return nil, &FormatError{Msg: "empty literal token"}
			}
			e.toks = append(e.toks, &token{kind: tokenConstant, lit: lit})
		case tokenOperator:
			op, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			if !keys.Valid(keys.Key(op)) {
				return nil, &FormatError{Msg: "unknown operator id"}
			}
			e.toks = append(e.toks, opToken(keys.Key(op)))
		case tokenPreEval:
			t, err := decodePreEval(r, st)
			if err != nil {
				return nil, err
			}
			e.toks = append(e.toks, t)
		default:
			return nil, &FormatError{Msg: "unknown token variant tag"}
		}
	}
	return e, nil
}

func decodePreEval(r io.Reader, st *readState) (*token, error) {
	idx, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	if t, ok := st.refs[idx]; ok {
		if t.pe == nil {
			return nil, &FormatError{Msg: "cyclic back-reference"}
		}
		return t, nil
	}
	if idx != int32(len(st.refs)) {
		return nil, &FormatError{Msg: "back-reference out of sequence"}
	}
	// Reserve the index before decoding the subexpression, mirroring the
	// writer's allocation order: indices introduced inside the nested
	// content come after this one.
	t := &token{kind: tokenPreEval}
	st.refs[idx] = t
	sub, err := decode(r, st)
	if err != nil {
		return nil, err
	}
	degreeMode, err := readBool(r)
	if err != nil {
		return nil, err
	}
	shortRep, err := readString(r)
	if err != nil {
		return nil, err
	}
	// Repopulate the value by re-running the evaluator over the decoded
	// subexpression under its recorded angle mode.
	val, err := sub.Eval(degreeMode)
	if err != nil {
		return nil, &FormatError{Msg: "unevaluable pre-evaluated subexpression: " + err.Error()}
	}
	t.pe = &preEval{
		val:        val,
		expr:       sub,
		degreeMode: degreeMode,
		shortRep:   shortRep,
	}
	return t, nil
}

func writeInt32(w io.Writer, n int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(n))
	_, err := w.Write(b[:])
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, &FormatError{Msg: "truncated stream"}
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, &FormatError{Msg: "truncated stream"}
	}
	return b[0], nil
}

func writeBool(w io.Writer, v bool) error {
	if v {
		return writeByte(w, 1)
	}
	return writeByte(w, 0)
}

func readBool(r io.Reader) (bool, error) {
	b, err := readByte(r)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, &FormatError{Msg: "bad boolean"}
}

func writeString(w io.Writer, s string) error {
	if err := writeInt32(w, int32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readInt32(r)
	if err != nil {
		return "", err
	}
	if n < 0 || n > maxSerialString {
		return "", &FormatError{Msg: "implausible string length"}
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", &FormatError{Msg: "truncated stream"}
	}
	return string(b), nil
}

// readDigits reads a string that must be decimal digits only.
func readDigits(r io.Reader) (string, error) {
	s, err := readString(r)
	if err != nil {
		return "", err
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", &FormatError{Msg: "non-digit in literal"}
		}
	}
	return s, nil
}

package calcexpr

import "strconv"

// SyntaxError indicates a malformed or incomplete expression: an unexpected
// end of tokens, a token that cannot appear where it does, or trailing
// tokens left unconsumed after a full-prefix parse. Arithmetic failures are
// not syntax errors; they surface as *exact.DomainError from the numeric
// layer.
type SyntaxError struct {
	// Pos is the index of the offending token, or the expression length for
	// an unexpected end.
	Pos int
	// Msg describes what the evaluator expected.
	Msg string
}

func (err *SyntaxError) Error() string {
	return "syntax error at token " + strconv.Itoa(err.Pos) + ": " + err.Msg
}

// FormatError indicates a corrupt serialized expression: an unrecognized
// variant tag, an implausible count or length, or a back-reference that
// cannot be resolved. It is distinct from both syntax and arithmetic errors.
type FormatError struct {
	// Msg describes the corruption.
	Msg string
}

func (err *FormatError) Error() string {
	return "bad expression format: " + err.Msg
}

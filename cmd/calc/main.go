// Command calc is an interactive front end for the expression engine. Each
// line edits a fresh expression; a successful evaluation becomes "ans",
// embeddable in later lines as a pre-evaluated token. Expressions save to
// and load from files through the engine's serialization, so a session
// ending in a chain of "ans" references stays small on disk.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/peterh/liner"

	calcexpr "github.com/zjw-swun/ExactCalculator-sub003"
)

func main() {
	log.SetFlags(0)
	var (
		digits int
		degree bool
	)
	flag.IntVar(&digits, "p", 10, "display digits")
	flag.BoolVar(&degree, "deg", false, "start in degree mode")
	flag.Parse()
	if digits < 1 {
		log.Fatalf("display digits (%d) must be positive", digits)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	s := session{digits: digits, degree: degree}
	for {
		line, err := ln.Prompt(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return
			}
			log.Fatal(err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.command(line) {
			return
		}
	}
}

type session struct {
	digits int
	degree bool
	// ans is the previous result frozen as a single-token expression, or
	// nil before the first successful evaluation.
	ans *calcexpr.Expr
}

func (s *session) prompt() string {
	if s.degree {
		return "deg> "
	}
	return "rad> "
}

// command handles one input line. It reports whether the session should end.
func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "exit":
		return true
	case "deg":
		s.degree = true
		return false
	case "rad":
		s.degree = false
		return false
	case "clear":
		s.ans = nil
		return false
	case "save", "load":
		if len(fields) != 2 {
			log.Printf("usage: %s <file>", fields[0])
			return false
		}
		if fields[0] == "save" {
			s.save(fields[1])
		} else {
			s.load(fields[1])
		}
		return false
	}
	s.evalLine(line)
	return false
}

// evalLine builds an expression from the line and evaluates it. The word
// "ans" embeds the previous result.
func (s *session) evalLine(line string) {
	e := calcexpr.NewExpr()
	for i, part := range strings.Split(line, "ans") {
		if i > 0 {
			if s.ans == nil {
				log.Print("no previous result")
				return
			}
			e.Append(s.ans)
		}
		ks, err := calcexpr.Tokens(part)
		if err != nil {
			log.Print(err)
			return
		}
		for _, k := range ks {
			if !e.Add(k) {
				log.Printf("ignored %s", k.Describe())
			}
		}
	}
	s.show(e)
}

func (s *session) show(e *calcexpr.Expr) {
	val, err := e.Eval(s.degree)
	if err != nil {
		log.Print(err)
		return
	}
	short := val.Format(s.digits)
	fmt.Printf("%s = %s\n", e, short)
	s.ans = e.Abbreviate(val, s.degree, short)
}

func (s *session) save(name string) {
	if s.ans == nil {
		log.Print("nothing to save")
		return
	}
	f, err := os.Create(name)
	if err != nil {
		log.Print(err)
		return
	}
	defer f.Close()
	if err := s.ans.Encode(f); err != nil {
		log.Print(err)
	}
}

func (s *session) load(name string) {
	f, err := os.Open(name)
	if err != nil {
		log.Print(err)
		return
	}
	defer f.Close()
	e, err := calcexpr.Decode(f)
	if err != nil {
		log.Print(err)
		return
	}
	s.ans = e
	val, err := e.Eval(s.degree)
	if err != nil {
		log.Print(err)
		return
	}
	fmt.Printf("%s = %s\n", e, val.Format(s.digits))
}

// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ErrArity is returned when the number of placeholders in a statement does
// not match the number of parameters.
var ErrArity = errors.New("placeholder count does not match parameter count")

// Placeholders returns the number of "?" placeholders in the statement.
// Question marks inside string literals, quoted identifiers and comments are
// not counted.
func (s *Statement) Placeholders() (int, error) {
	sc := &scanner{}
	offsets, err := sc.placeholders(s.SQL)
	if err != nil {
		return 0, err
	}
	return len(offsets), nil
}

// Dollar returns the statement SQL with each "?" placeholder replaced by its
// numbered form "$1", "$2" and so on. Question marks inside string literals,
// quoted identifiers and comments are left untouched.
func (s *Statement) Dollar() (string, error) {
	sc := &scanner{}
	offsets, err := sc.placeholders(s.SQL)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	last := 0
	for i, off := range offsets {
		sb.WriteString(s.SQL[last:off])
		sb.WriteString("$" + strconv.Itoa(i+1))
		last = off + 1
	}
	sb.WriteString(s.SQL[last:])
	return sb.String(), nil
}

// CheckArity returns an error wrapping ErrArity if the number of
// placeholders does not equal the number of parameters.
func (s *Statement) CheckArity() error {
	n, err := s.Placeholders()
	if err != nil {
		return err
	}
	if n != len(s.Params) {
		return errors.Wrapf(ErrArity, "have %d placeholders and %d parameters", n, len(s.Params))
	}
	return nil
}

type scanner struct {
	input string
	pos   int
	// nextPos is start of the next char.
	nextPos int
	// char is the rune starting at pos. char is set to 0 when pos reaches the
	// end of input.
	char rune
}

type checkpoint struct {
	sc      *scanner
	pos     int
	nextPos int
	char    rune
}

func (sc *scanner) save() *checkpoint {
	return &checkpoint{sc: sc, pos: sc.pos, nextPos: sc.nextPos, char: sc.char}
}

func (cp *checkpoint) restore() {
	cp.sc.pos = cp.pos
	cp.sc.nextPos = cp.nextPos
	cp.sc.char = cp.char
}

func (sc *scanner) init(input string) {
	sc.input = input
	sc.pos = 0
	sc.nextPos = 0
	sc.advanceChar()
}

// advanceChar moves the scanner to the next rune of the input.
func (sc *scanner) advanceChar() {
	sc.pos = sc.nextPos
	if sc.pos >= len(sc.input) {
		sc.char = 0
		return
	}
	var size int
	sc.char, size = utf8.DecodeRuneInString(sc.input[sc.pos:])
	sc.nextPos = sc.pos + size
}

// placeholders returns the byte offsets of the "?" placeholders in input.
func (sc *scanner) placeholders(input string) ([]int, error) {
	sc.init(input)
	offsets := []int{}
	for sc.pos < len(sc.input) {
		if ok, err := sc.skipQuoted(); err != nil {
			return nil, err
		} else if ok {
			continue
		}
		if sc.skipComment() {
			continue
		}
		if sc.char == '?' {
			offsets = append(offsets, sc.pos)
		}
		sc.advanceChar()
	}
	return offsets, nil
}

// peekChar returns true if the current char equals the one passed as parameter.
func (sc *scanner) peekChar(c rune) bool {
	return sc.pos < len(sc.input) && sc.char == c
}

// skipChar jumps over the current char if it matches the char passed as a
// parameter. Returns true in that case, false otherwise.
func (sc *scanner) skipChar(c rune) bool {
	if sc.peekChar(c) {
		sc.advanceChar()
		return true
	}
	return false
}

// skipCharFind advances past the next occurrence of c. If there is none the
// scanner is left where it was and false is returned.
func (sc *scanner) skipCharFind(c rune) bool {
	cp := sc.save()
	for sc.pos < len(sc.input) {
		if sc.char == c {
			sc.advanceChar()
			return true
		}
		sc.advanceChar()
	}
	cp.restore()
	return false
}

// skipQuoted jumps over string literals and quoted identifiers. Doubled up
// quotes are escaped.
func (sc *scanner) skipQuoted() (bool, error) {
	start := sc.pos
	c := sc.char
	if sc.skipChar('"') || sc.skipChar('\'') || sc.skipChar('`') {
		// We keep track of whether the next quote has been previously
		// escaped. If not, it might be a closing quote.
		maybeCloser := true
		for sc.skipCharFind(c) {
			if maybeCloser && !sc.peekChar(c) {
				return true, nil
			}
			maybeCloser = !maybeCloser
		}
		return false, errors.Errorf("missing closing quote in string literal at char %d", start)
	}
	return false, nil
}

// skipComment jumps over "--" line comments and "/* */" block comments.
func (sc *scanner) skipComment() bool {
	cp := sc.save()
	c := sc.char
	if sc.skipChar('-') || sc.skipChar('/') {
		if (c == '-' && sc.skipChar('-')) || (c == '/' && sc.skipChar('*')) {
			for sc.pos < len(sc.input) {
				if c == '-' && sc.char == '\n' {
					return true
				}
				if c == '/' && sc.char == '*' {
					sc.advanceChar()
					if sc.skipChar('/') {
						return true
					}
					continue
				}
				sc.advanceChar()
			}
			return true
		}
		cp.restore()
	}
	return false
}

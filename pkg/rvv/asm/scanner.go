// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"strconv"
)

type token int

const (
	tokIllegal token = iota
	tokIdent
	tokInt
	tokComma
	tokColon
	tokLParen
	tokRParen
	tokEOF
)

var punctuation = [256]token{
	',': tokComma,
	':': tokColon,
	'(': tokLParen,
	')': tokRParen,
}

var tok2str = [...]string{
	tokIllegal: "ILLEGAL",
	tokIdent:   "identifier",
	tokInt:     "integer",
	tokEOF:     "end of line",
}

func init() {
	for ch, tok := range punctuation {
		if tok == tokIllegal {
			continue
		}
		tok2str[tok] = fmt.Sprintf("%q", ch)
	}
}

func (tok token) String() string {
	return tok2str[tok]
}

// Pos is a position within the parsed line.
type Pos struct {
	Off int // 0-based byte offset
	Col int // 1-based column
}

func (pos Pos) String() string {
	return fmt.Sprintf("col:%v", pos.Col)
}

type scanner struct {
	data []byte
	ch   byte
	off  int
	err  *SyntaxError
}

func newScanner(data []byte) *scanner {
	s := &scanner{
		data: data,
		off:  -1,
	}
	s.next()
	return s
}

func (s *scanner) Scan() (tok token, lit string, pos Pos) {
	s.skipWhitespace()
	pos = s.pos()
	switch {
	case s.ch == 0 || s.ch == '#':
		tok = tokEOF
		s.off = len(s.data)
		s.ch = 0
	case s.ch >= '0' && s.ch <= '9' || s.ch == '-' || s.ch == '+':
		tok = tokInt
		lit = s.scanInt(pos)
	case isIdentStart(s.ch):
		tok = tokIdent
		for isIdentChar(s.ch) {
			s.next()
		}
		lit = string(s.data[pos.Off:s.off])
	default:
		tok = punctuation[s.ch]
		lit = string(s.ch)
		if tok == tokIllegal {
			s.Error(pos, "illegal character %#U", rune(s.ch))
		}
		s.next()
	}
	return
}

func (s *scanner) scanInt(pos Pos) string {
	if s.ch == '-' || s.ch == '+' {
		s.next()
	}
	for isIdentChar(s.ch) {
		s.next()
	}
	lit := string(s.data[pos.Off:s.off])
	if _, err := ParseInt(lit); err != nil {
		s.Error(pos, "bad integer %q", lit)
	}
	return lit
}

// ParseInt parses a decimal or 0x-prefixed hex integer with an optional sign.
// Leading zeros are decimal, 0b/0o prefixes and digit separators are rejected.
func ParseInt(lit string) (int64, error) {
	sign, digits := "", lit
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		sign, digits = digits[:1], digits[1:]
	}
	base := 10
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		base, digits = 16, digits[2:]
	}
	if digits == "" || digits[0] == '-' || digits[0] == '+' {
		return 0, fmt.Errorf("bad integer %q", lit)
	}
	v, err := strconv.ParseInt(sign+digits, base, 64)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q", lit)
	}
	return v, nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9' || ch == '.'
}

// Error records the first error; the parser bails out on it.
func (s *scanner) Error(pos Pos, msg string, args ...interface{}) {
	if s.err == nil {
		s.err = &SyntaxError{Pos: pos, Msg: fmt.Sprintf(msg, args...)}
	}
}

func (s *scanner) next() {
	s.off++
	if s.off >= len(s.data) {
		s.off = len(s.data)
		s.ch = 0
		return
	}
	s.ch = s.data[s.off]
	if s.ch == 0 {
		s.Error(s.pos(), "illegal character \\x00")
	}
}

func (s *scanner) skipWhitespace() {
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\r' || s.ch == '\n' {
		s.next()
	}
}

func (s *scanner) pos() Pos {
	return Pos{
		Off: s.off,
		Col: s.off + 1,
	}
}

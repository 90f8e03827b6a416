// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package asm parses a single line of RISC-V vector assembly.
//
// Two top-level rules are supported: an instruction (mnemonic followed by a comma
// separated operand list) and a standalone label ("name:" or "1:").
package asm

import (
	"errors"
	"fmt"
	"strings"
)

type LineKind int

const (
	KindInstruction LineKind = iota + 1
	KindLabel
)

type OperandKind int

const (
	// OperandSimple is a register name, a vtype keyword or a memory operand "(a0)".
	OperandSimple OperandKind = iota + 1
	// OperandMask is the "execute under v0 mask" marker.
	OperandMask
	OperandInteger
)

// MaskOperand is the only accepted spelling of the mask operand.
const MaskOperand = "v0.t"

type Operand struct {
	Kind OperandKind
	Text string
	Pos  Pos
}

type Line struct {
	Kind     LineKind
	Name     string // mnemonic or label name
	Operands []Operand
	Pos      Pos
}

// SyntaxError is returned when the line matches neither rule.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %v", err.Pos, err.Msg)
}

// Parse classifies the line as an instruction or a label.
// If neither rule matches, the error of the rule that got further is returned.
func Parse(line string) (*Line, error) {
	res, err := ParseInstruction(line)
	if err == nil {
		return res, nil
	}
	res, labelErr := ParseLabel(line)
	if labelErr == nil {
		return res, nil
	}
	var insnSyntax, labelSyntax *SyntaxError
	if errors.As(err, &insnSyntax) && errors.As(labelErr, &labelSyntax) &&
		labelSyntax.Pos.Off > insnSyntax.Pos.Off {
		return nil, labelErr
	}
	return nil, err
}

func ParseInstruction(line string) (*Line, error) {
	return parse(line, (*parser).parseInstruction)
}

func ParseLabel(line string) (*Line, error) {
	return parse(line, (*parser).parseLabel)
}

type parser struct {
	s *scanner

	// Current token:
	tok token
	lit string
	pos Pos
}

// Abort parsing, the error is recorded in the scanner.
var errBail = errors.New("bail")

func parse(line string, rule func(p *parser) *Line) (res *Line, err error) {
	p := &parser{s: newScanner([]byte(line))}
	defer func() {
		switch r := recover(); r {
		case nil:
		case errBail:
			res, err = nil, p.s.err
		default:
			panic(r)
		}
	}()
	p.next()
	res = rule(p)
	p.expect(tokEOF)
	return res, nil
}

func (p *parser) parseInstruction() *Line {
	res := &Line{
		Kind: KindInstruction,
		Name: p.lit,
		Pos:  p.pos,
	}
	p.consume(tokIdent)
	if p.tok == tokEOF {
		return res
	}
	for {
		res.Operands = append(res.Operands, p.parseOperand())
		if !p.tryConsume(tokComma) {
			break
		}
	}
	return res
}

func (p *parser) parseOperand() Operand {
	switch p.tok {
	case tokIdent:
		op := Operand{
			Kind: OperandSimple,
			Text: p.lit,
			Pos:  p.pos,
		}
		if p.lit == MaskOperand {
			op.Kind = OperandMask
		}
		p.next()
		return op
	case tokInt:
		pos, lit := p.pos, p.lit
		p.next()
		if p.tok == tokLParen {
			return p.parseMem(pos, lit)
		}
		return Operand{
			Kind: OperandInteger,
			Text: lit,
			Pos:  pos,
		}
	case tokLParen:
		return p.parseMem(p.pos, "")
	}
	p.expect(tokIdent, tokInt, tokLParen)
	panic("not reachable")
}

// parseMem parses "(reg)" with an optional integer offset already consumed.
func (p *parser) parseMem(pos Pos, offset string) Operand {
	p.consume(tokLParen)
	reg := p.lit
	p.consume(tokIdent)
	p.consume(tokRParen)
	return Operand{
		Kind: OperandSimple,
		Text: offset + "(" + reg + ")",
		Pos:  pos,
	}
}

func (p *parser) parseLabel() *Line {
	res := &Line{
		Kind: KindLabel,
		Name: p.lit,
		Pos:  p.pos,
	}
	p.expect(tokIdent, tokInt)
	if p.tok == tokInt && strings.Trim(p.lit, "0123456789") != "" {
		p.s.Error(p.pos, "bad numeric label %q", p.lit)
		panic(errBail)
	}
	p.next()
	p.consume(tokColon)
	return res
}

func (p *parser) next() {
	p.tok, p.lit, p.pos = p.s.Scan()
	if p.s.err != nil {
		panic(errBail)
	}
}

func (p *parser) consume(tok token) {
	p.expect(tok)
	p.next()
}

func (p *parser) tryConsume(tok token) bool {
	if p.tok != tok {
		return false
	}
	p.next()
	return true
}

func (p *parser) expect(tokens ...token) {
	for _, tok := range tokens {
		if p.tok == tok {
			return
		}
	}
	var str []string
	for _, tok := range tokens {
		str = append(str, tok.String())
	}
	got := p.tok.String()
	if p.tok == tokIdent || p.tok == tokInt {
		got = fmt.Sprintf("%v %q", got, p.lit)
	}
	p.s.Error(p.pos, "unexpected %v, expecting %v", got, strings.Join(str, ", "))
	panic(errBail)
}

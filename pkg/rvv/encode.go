// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package rvv encodes single RISC-V vector instructions.
//
// Encode is the fuzzing entry point: the mnemonic selects the instruction and all
// field values are synthesized randomly according to Config. Assemble is the
// conventional assembler: field values are taken from the operands.
package rvv

import (
	"fmt"

	"github.com/riscvuzz/rvvfuzz/pkg/log"
	"github.com/riscvuzz/rvvfuzz/pkg/rvv/asm"
	"github.com/riscvuzz/rvvfuzz/pkg/rvv/opcodes"
)

type Status int

const (
	// StatusEncoded means Result.Word holds the instruction encoding.
	StatusEncoded Status = iota
	// StatusNotInstruction is returned for labels and for mnemonics that are not
	// in the vector table, so that such lines can be passed through unchanged.
	StatusNotInstruction
	// StatusMalformed is returned if the parsed line has an unexpected shape.
	StatusMalformed
)

func (st Status) String() string {
	switch st {
	case StatusEncoded:
		return "encoded"
	case StatusNotInstruction:
		return "not an instruction"
	case StatusMalformed:
		return "malformed"
	}
	return fmt.Sprintf("Status(%d)", int(st))
}

type Result struct {
	Status Status
	Word   uint32
	Line   *asm.Line
	Insn   *opcodes.Insn // nil unless the mnemonic was found in the table
}

// Encode encodes one line with randomly synthesized field values.
// A nil cfg means DefaultConfig, a nil r means a time-seeded source.
// Errors are either *asm.SyntaxError or wrap ErrInvalidConfig.
func Encode(text string, cfg *Config, r Rand) (Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if r == nil {
		r = defaultRand()
	}
	res, fields, err := resolve(text)
	if err != nil || res.Status != StatusEncoded {
		return res, err
	}
	syn := NewSynthesizer(cfg, r)
	res.Word = Pack(res.Insn.Match, fields, syn.Value)
	return res, nil
}

// Assemble encodes one line taking field values from its operands.
// Errors are either *asm.SyntaxError or *OperandError.
func Assemble(text string) (Result, error) {
	res, fields, err := resolve(text)
	if err != nil || res.Status != StatusEncoded {
		return res, err
	}
	m := newOperandMapper(res.Insn, res.Line.Operands)
	res.Word = Pack(res.Insn.Match, fields, m.Value)
	if err := m.finish(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// resolve parses the line, looks up the instruction and returns its reordered fields.
func resolve(text string) (Result, []opcodes.Field, error) {
	line, err := asm.Parse(text)
	if err != nil {
		return Result{}, nil, err
	}
	res := Result{Line: line}
	if !wellFormed(line) {
		log.Logf(1, "malformed parse of %q: %+v", text, line)
		res.Status = StatusMalformed
		return res, nil, nil
	}
	if line.Kind == asm.KindLabel {
		res.Status = StatusNotInstruction
		return res, nil, nil
	}
	insn, ok := opcodes.Lookup(line.Name)
	if !ok {
		log.Logf(2, "%q is not a vector instruction", line.Name)
		res.Status = StatusNotInstruction
		return res, nil, nil
	}
	res.Insn = insn
	return res, Reorder(insn), nil
}

func wellFormed(line *asm.Line) bool {
	if line == nil || line.Name == "" {
		return false
	}
	switch line.Kind {
	case asm.KindLabel:
		return len(line.Operands) == 0
	case asm.KindInstruction:
		for _, op := range line.Operands {
			switch op.Kind {
			case asm.OperandSimple, asm.OperandMask, asm.OperandInteger:
			default:
				return false
			}
		}
		return true
	}
	return false
}

// Pack ORs field values into base. Fields are visited from the last one to the first,
// value is called once per field, its result is truncated to the field width.
func Pack(base uint32, fields []opcodes.Field, value func(kind opcodes.Kind) uint32) uint32 {
	word := base
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		v := value(f.Kind) & (1<<f.Width - 1)
		word |= v << f.Offset
	}
	return word
}

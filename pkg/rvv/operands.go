// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"fmt"

	"github.com/riscvuzz/rvvfuzz/pkg/rvv/asm"
	"github.com/riscvuzz/rvvfuzz/pkg/rvv/opcodes"
)

// OperandError is returned by Assemble when operands don't match the instruction.
type OperandError struct {
	Insn  string
	Index int // 0-based operand index, -1 if not specific to one operand
	Msg   string
}

func (err *OperandError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("%v: %v", err.Insn, err.Msg)
	}
	return fmt.Sprintf("%v: operand %v: %v", err.Insn, err.Index+1, err.Msg)
}

// operandMapper hands out field values taken from the source operands.
// Fields must be requested in assembler operand order.
type operandMapper struct {
	insn   *opcodes.Insn
	ops    []asm.Operand
	pos    int
	masked bool
	err    error
}

func newOperandMapper(insn *opcodes.Insn, ops []asm.Operand) *operandMapper {
	m := &operandMapper{insn: insn}
	if n := len(ops); n != 0 && ops[n-1].Kind == asm.OperandMask {
		if !insn.Has(opcodes.KindVm) {
			m.fail(n-1, "instruction can't be masked")
		}
		m.masked = true
		ops = ops[:n-1]
	} else if n != 0 && ops[n-1].Text == "v0" && carryForm(insn) && n == explicitOperands(insn)+1 {
		// vadc.vvm vd, vs2, vs1, v0: v0 is implied by the encoding.
		ops = ops[:n-1]
	}
	m.ops = ops
	return m
}

// carryForm reports whether bit 25 is fixed to 0 (v0 used as carry or merge mask).
func carryForm(insn *opcodes.Insn) bool {
	const bit = 1 << 25
	return insn.Mask&bit != 0 && insn.Match&bit == 0
}

func explicitOperands(insn *opcodes.Insn) int {
	n := 0
	for _, f := range insn.Fields {
		if f.Kind != opcodes.KindVm && f.Kind != opcodes.KindNf {
			n++
		}
	}
	return n
}

func (m *operandMapper) fail(idx int, msg string, args ...interface{}) {
	if m.err == nil {
		m.err = &OperandError{Insn: m.insn.Name, Index: idx, Msg: fmt.Sprintf(msg, args...)}
	}
}

func (m *operandMapper) next() (asm.Operand, int, bool) {
	if m.pos == len(m.ops) {
		m.fail(-1, "expected more than %v operands", len(m.ops))
		return asm.Operand{}, 0, false
	}
	idx := m.pos
	op := m.ops[idx]
	m.pos++
	if op.Kind == asm.OperandMask {
		m.fail(idx, "mask operand must be last")
		return asm.Operand{}, 0, false
	}
	return op, idx, true
}

func (m *operandMapper) finish() error {
	if m.err == nil && m.pos != len(m.ops) {
		m.fail(m.pos, "unexpected extra operand %q", m.ops[m.pos].Text)
	}
	return m.err
}

func (m *operandMapper) Value(kind opcodes.Kind) uint32 {
	switch kind {
	case opcodes.KindVm:
		if m.masked {
			return 0
		}
		return 1
	case opcodes.KindNf:
		return 0
	case opcodes.KindZimm10, opcodes.KindZimm11:
		return m.vtype(kind)
	}
	op, idx, ok := m.next()
	if !ok {
		return 0
	}
	var (
		v   uint32
		err error
	)
	switch kind {
	case opcodes.KindRd, opcodes.KindRs1, opcodes.KindRs2:
		v, err = scalarReg(op.Text)
	case opcodes.KindVd, opcodes.KindVs1, opcodes.KindVs2, opcodes.KindVs3:
		v, err = vectorReg(op.Text)
	case opcodes.KindSimm5:
		v, err = immediate(op, -16, 15)
	case opcodes.KindZimm:
		v, err = immediate(op, 0, 31)
	default:
		panic(fmt.Sprintf("no operand rule for field kind %v", kind))
	}
	if err != nil {
		m.fail(idx, "%v", err)
	}
	return v
}

func immediate(op asm.Operand, lo, hi int64) (uint32, error) {
	if op.Kind != asm.OperandInteger {
		return 0, fmt.Errorf("want integer, got %q", op.Text)
	}
	v, err := asm.ParseInt(op.Text)
	if err != nil {
		return 0, err
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("immediate %v is out of range [%v, %v]", v, lo, hi)
	}
	return uint32(v) & 0x1f, nil
}

// vtype consumes either a single integer or the rest of the operands as
// vtype keywords: e<sew>[, m<lmul>][, ta|tu][, ma|mu].
func (m *operandMapper) vtype(kind opcodes.Kind) uint32 {
	op, idx, ok := m.next()
	if !ok {
		return 0
	}
	if op.Kind == asm.OperandInteger {
		limit := int64(1)<<10 - 1
		if kind == opcodes.KindZimm11 {
			limit = 1<<11 - 1
		}
		v, err := asm.ParseInt(op.Text)
		if err != nil || v < 0 || v > limit {
			m.fail(idx, "bad vtype immediate %q", op.Text)
		}
		return uint32(v)
	}
	sew, ok := parseSew(op.Text)
	if !ok {
		m.fail(idx, "bad element width %q", op.Text)
		return 0
	}
	vt := Vtype{Sew: sew, Lmul: VlmulM1}
	var seenLmul, seenTail, seenMask bool
	for m.pos < len(m.ops) && m.err == nil {
		op, idx, _ := m.next()
		switch text := op.Text; {
		case text == "ta" || text == "tu":
			seenTail = check(m, idx, seenTail, text)
			vt.Ta = text == "ta"
		case text == "ma" || text == "mu":
			seenMask = check(m, idx, seenMask, text)
			vt.Ma = text == "ma"
		default:
			lmul, ok := parseVlmul(text)
			if !ok || seenTail || seenMask {
				m.fail(idx, "bad vtype operand %q", text)
				continue
			}
			seenLmul = check(m, idx, seenLmul, text)
			vt.Lmul = lmul
		}
	}
	return vt.Encode()
}

func check(m *operandMapper, idx int, seen bool, text string) bool {
	if seen {
		m.fail(idx, "duplicate vtype operand %q", text)
	}
	return true
}

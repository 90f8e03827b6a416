// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"slices"

	"github.com/riscvuzz/rvvfuzz/pkg/rvv/opcodes"
)

const opcodeOPV = 0x57

// Ternary multiply-add forms keep vs1/rs1 right after the destination
// so that the multiplicands are adjacent in assembler syntax.
var (
	vvTernary = makeSet(
		"vmacc.vv", "vnmsac.vv", "vmadd.vv", "vnmsub.vv",
		"vwmaccu.vv", "vwmacc.vv", "vwmaccsu.vv",
		"vfmacc.vv", "vfnmacc.vv", "vfmsac.vv", "vfnmsac.vv",
		"vfmadd.vv", "vfnmadd.vv", "vfmsub.vv", "vfnmsub.vv",
		"vfwmacc.vv", "vfwnmacc.vv", "vfwmsac.vv", "vfwnmsac.vv",
	)
	vxTernary = makeSet(
		"vmacc.vx", "vnmsac.vx", "vmadd.vx", "vnmsub.vx",
		"vwmaccu.vx", "vwmacc.vx", "vwmaccsu.vx", "vwmaccus.vx",
		"vfmacc.vf", "vfnmacc.vf", "vfmsac.vf", "vfnmsac.vf",
		"vfmadd.vf", "vfnmadd.vf", "vfmsub.vf", "vfnmsub.vf",
		"vfwmacc.vf", "vfwnmacc.vf", "vfwmsac.vf", "vfwnmsac.vf",
	)
)

func makeSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// IsTernary reports whether name is one of the multiply-add mnemonics
// exempt from vs2 reordering.
func IsTernary(name string) bool {
	return vvTernary[name] || vxTernary[name]
}

// Reorder returns the instruction fields in an order that, read from the end,
// matches assembler operand order. The table lists vs2 before vs1/rs1/simm5,
// while the assembler writes vs2 first for ordinary binary OP-V instructions.
// insn.Fields is not modified.
func Reorder(insn *opcodes.Insn) []opcodes.Field {
	fields := slices.Clone(insn.Fields)
	if insn.Opcode() != opcodeOPV {
		return fields
	}
	swap := func(a, b opcodes.Kind) {
		i, j := fieldIndex(fields, a), fieldIndex(fields, b)
		if i != -1 && j != -1 {
			fields[i], fields[j] = fields[j], fields[i]
		}
	}
	swap(opcodes.KindSimm5, opcodes.KindVs2)
	if !vvTernary[insn.Name] {
		swap(opcodes.KindVs1, opcodes.KindVs2)
	}
	if !vxTernary[insn.Name] {
		swap(opcodes.KindRs1, opcodes.KindVs2)
	}
	return fields
}

func fieldIndex(fields []opcodes.Field, kind opcodes.Kind) int {
	return slices.IndexFunc(fields, func(f opcodes.Field) bool {
		return f.Kind == kind
	})
}

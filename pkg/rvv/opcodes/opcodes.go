// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package opcodes holds the static RISC-V vector instruction table:
// instruction name -> (base encoding, ordered field layout).
//
// The table is kept in rv_v in the riscv-opcodes text format and is parsed once
// when the package is initialized. It is read-only afterwards.
package opcodes

import (
	_ "embed"
	"fmt"
	"sort"
)

// Kind is the kind of an instruction operand field.
type Kind int

const (
	KindInvalid Kind = iota
	KindRd
	KindRs1
	KindRs2
	KindVd
	KindVs1
	KindVs2
	KindVs3
	KindSimm5
	KindZimm
	KindZimm10
	KindZimm11
	KindVm
	KindNf
	kindLast
)

type kindInfo struct {
	name   string
	offset uint // lowest bit of the field
	width  uint
}

var kinds = [kindLast]kindInfo{
	KindInvalid: {"invalid", 0, 0},
	KindRd:      {"rd", 7, 5},
	KindRs1:     {"rs1", 15, 5},
	KindRs2:     {"rs2", 20, 5},
	KindVd:      {"vd", 7, 5},
	KindVs1:     {"vs1", 15, 5},
	KindVs2:     {"vs2", 20, 5},
	KindVs3:     {"vs3", 7, 5},
	KindSimm5:   {"simm5", 15, 5},
	KindZimm:    {"zimm", 15, 5},
	KindZimm10:  {"zimm10", 20, 10},
	KindZimm11:  {"zimm11", 20, 11},
	KindVm:      {"vm", 25, 1},
	KindNf:      {"nf", 29, 3},
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind)
	for k := KindInvalid + 1; k < kindLast; k++ {
		m[kinds[k].name] = k
	}
	return m
}()

func (k Kind) String() string {
	if k < 0 || k >= kindLast {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k].name
}

// ParseKind returns the field kind with the given table name.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	return k, ok
}

// Field is one operand field of an instruction.
type Field struct {
	Kind   Kind
	Offset uint // bit offset of the least significant bit
	Width  uint
}

// Mask returns the bits of the instruction word occupied by the field.
func (f Field) Mask() uint32 {
	return rangeMask(f.Offset+f.Width-1, f.Offset)
}

func (f Field) String() string {
	return fmt.Sprintf("%v@%d", f.Kind, f.Offset)
}

// Insn is a single table entry.
type Insn struct {
	Name string
	// Match has all fixed opcode/funct bits set, fields are zero.
	Match uint32
	// Mask covers the fixed bits in Match.
	Mask uint32
	// Fields are in table order: most significant field first.
	// This is the bit-layout convention, not assembler operand order.
	Fields []Field
}

// Opcode returns the major opcode (low 7 bits of the base encoding).
func (insn *Insn) Opcode() uint32 {
	return insn.Match & 0x7f
}

// Has reports whether the instruction declares a field of the given kind.
func (insn *Insn) Has(kind Kind) bool {
	return insn.Index(kind) != -1
}

// Index returns the position of the field of the given kind in Fields, or -1.
func (insn *Insn) Index(kind Kind) int {
	for i, f := range insn.Fields {
		if f.Kind == kind {
			return i
		}
	}
	return -1
}

// FieldMask returns the union of all field masks.
func (insn *Insn) FieldMask() uint32 {
	var mask uint32
	for _, f := range insn.Fields {
		mask |= f.Mask()
	}
	return mask
}

//go:embed rv_v
var rvvData []byte

var (
	insns   []*Insn
	insnMap map[string]*Insn
)

func init() {
	var err error
	insns, err = Parse(rvvData)
	if err != nil {
		panic(fmt.Sprintf("bad rv_v table: %v", err))
	}
	insnMap = make(map[string]*Insn, len(insns))
	for _, insn := range insns {
		insnMap[insn.Name] = insn
	}
	sort.Slice(insns, func(i, j int) bool {
		return insns[i].Name < insns[j].Name
	})
}

// Lookup finds the unique table entry for name.
func Lookup(name string) (*Insn, bool) {
	insn, ok := insnMap[name]
	return insn, ok
}

// All returns all table entries sorted by name.
// The returned entries must not be modified.
func All() []*Insn {
	return insns
}

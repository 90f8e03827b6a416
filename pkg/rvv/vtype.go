// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"fmt"
	"strings"
)

// Vlmul is the 3-bit vlmul encoding of the vtype register.
type Vlmul uint8

const (
	VlmulM1  Vlmul = 0b000
	VlmulM2  Vlmul = 0b001
	VlmulM4  Vlmul = 0b010
	VlmulM8  Vlmul = 0b011
	VlmulMf8 Vlmul = 0b101
	VlmulMf4 Vlmul = 0b110
	VlmulMf2 Vlmul = 0b111
)

// vlmuls lists the legal codes in the order used for cumulative sampling.
// 0b100 is reserved.
var vlmuls = []struct {
	name string
	code Vlmul
}{
	{"Mf8", VlmulMf8},
	{"Mf4", VlmulMf4},
	{"Mf2", VlmulMf2},
	{"M1", VlmulM1},
	{"M2", VlmulM2},
	{"M4", VlmulM4},
	{"M8", VlmulM8},
}

var vlmulByName = func() map[string]Vlmul {
	m := make(map[string]Vlmul)
	for _, v := range vlmuls {
		m[v.name] = v.code
	}
	return m
}()

func (v Vlmul) String() string {
	for _, l := range vlmuls {
		if l.code == v {
			return l.name
		}
	}
	return fmt.Sprintf("Vlmul(%#b)", uint8(v))
}

// parseVlmul accepts assembler spelling (mf8, m1) case-insensitively.
func parseVlmul(name string) (Vlmul, bool) {
	for _, l := range vlmuls {
		if strings.EqualFold(l.name, name) {
			return l.code, true
		}
	}
	return 0, false
}

// Vtype is the vtype byte set by vsetvli/vsetivli:
// bits [7] ma, [6] ta, [5:3] vsew, [2:0] vlmul.
type Vtype struct {
	Sew  uint8 // vsew code: 0 = e8, 1 = e16, ... 7 = e1024
	Lmul Vlmul
	Ta   bool
	Ma   bool
}

func (vt Vtype) Encode() uint32 {
	v := uint32(vt.Lmul&0x7) | uint32(vt.Sew&0x7)<<3
	if vt.Ta {
		v |= 1 << 6
	}
	if vt.Ma {
		v |= 1 << 7
	}
	return v
}

func (vt Vtype) String() string {
	ta, ma := "tu", "mu"
	if vt.Ta {
		ta = "ta"
	}
	if vt.Ma {
		ma = "ma"
	}
	return fmt.Sprintf("e%v,%v,%v,%v", 8<<vt.Sew, strings.ToLower(vt.Lmul.String()), ta, ma)
}

// parseSew converts an element width keyword like "e32" to the vsew code.
func parseSew(s string) (uint8, bool) {
	for code := uint8(0); code < 8; code++ {
		if s == fmt.Sprintf("e%v", 8<<code) {
			return code, true
		}
	}
	return 0, false
}

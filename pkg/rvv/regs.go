// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"fmt"
	"strconv"
	"strings"
)

var gprNames = map[string]uint32{
	"zero": 0, "ra": 1, "sp": 2, "gp": 3, "tp": 4,
	"t0": 5, "t1": 6, "t2": 7,
	"s0": 8, "fp": 8, "s1": 9,
	"a0": 10, "a1": 11, "a2": 12, "a3": 13, "a4": 14, "a5": 15, "a6": 16, "a7": 17,
	"s2": 18, "s3": 19, "s4": 20, "s5": 21, "s6": 22, "s7": 23, "s8": 24, "s9": 25, "s10": 26, "s11": 27,
	"t3": 28, "t4": 29, "t5": 30, "t6": 31,
}

var fprNames = map[string]uint32{
	"ft0": 0, "ft1": 1, "ft2": 2, "ft3": 3, "ft4": 4, "ft5": 5, "ft6": 6, "ft7": 7,
	"fs0": 8, "fs1": 9,
	"fa0": 10, "fa1": 11, "fa2": 12, "fa3": 13, "fa4": 14, "fa5": 15, "fa6": 16, "fa7": 17,
	"fs2": 18, "fs3": 19, "fs4": 20, "fs5": 21, "fs6": 22, "fs7": 23, "fs8": 24, "fs9": 25, "fs10": 26, "fs11": 27,
	"ft8": 28, "ft9": 29, "ft10": 30, "ft11": 31,
}

// numberedReg parses names like "x17" or "v3".
func numberedReg(name, prefix string) (uint32, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" || len(rest) > 1 && rest[0] == '0' {
		return 0, false
	}
	n, err := strconv.ParseUint(rest, 10, 8)
	if err != nil || n >= numRegs {
		return 0, false
	}
	return uint32(n), true
}

// scalarReg resolves an integer or floating-point register name.
// Memory operands "(a0)" and "0(a0)" resolve to the base register.
func scalarReg(name string) (uint32, error) {
	if open := strings.IndexByte(name, '('); open != -1 && strings.HasSuffix(name, ")") {
		if offset := name[:open]; offset != "" && offset != "0" {
			return 0, fmt.Errorf("vector memory operands take no offset: %q", name)
		}
		name = name[open+1 : len(name)-1]
	}
	if reg, ok := gprNames[name]; ok {
		return reg, nil
	}
	if reg, ok := fprNames[name]; ok {
		return reg, nil
	}
	if reg, ok := numberedReg(name, "x"); ok {
		return reg, nil
	}
	if reg, ok := numberedReg(name, "f"); ok {
		return reg, nil
	}
	return 0, fmt.Errorf("bad scalar register %q", name)
}

func vectorReg(name string) (uint32, error) {
	if reg, ok := numberedReg(name, "v"); ok {
		return reg, nil
	}
	return 0, fmt.Errorf("bad vector register %q", name)
}

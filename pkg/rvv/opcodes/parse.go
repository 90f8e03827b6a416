// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package opcodes

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Parse parses an instruction table in the riscv-opcodes format:
//
//	vadd.vv  31..26=0x00 vm vs2 vs1 14..12=0x0 vd 6..0=0x57
//
// Fixed bits and fields must not overlap. Names must be unique.
func Parse(data []byte) ([]*Insn, error) {
	var res []*Insn
	seen := make(map[string]bool)
	s := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; s.Scan(); lineNo++ {
		fields := strings.Fields(trimComment(s.Text()))
		if len(fields) == 0 {
			continue
		}
		insn, err := parseInsn(fields)
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", lineNo, err)
		}
		if seen[insn.Name] {
			return nil, fmt.Errorf("line %v: duplicate instruction %v", lineNo, insn.Name)
		}
		seen[insn.Name] = true
		res = append(res, insn)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("no instructions")
	}
	return res, nil
}

func parseInsn(parts []string) (*Insn, error) {
	insn := &Insn{Name: parts[0]}
	var used uint32
	for _, part := range parts[1:] {
		if strings.IndexByte(part, '=') != -1 {
			val, mask, err := parseMatchSpec(part)
			if err != nil {
				return nil, fmt.Errorf("%v: %w", insn.Name, err)
			}
			if used&mask != 0 {
				return nil, fmt.Errorf("%v: %v overlaps other bits", insn.Name, part)
			}
			used |= mask
			insn.Match |= val
			insn.Mask |= mask
			continue
		}
		kind, ok := ParseKind(part)
		if !ok {
			return nil, fmt.Errorf("%v: unknown field %q", insn.Name, part)
		}
		if insn.Has(kind) {
			return nil, fmt.Errorf("%v: duplicate field %v", insn.Name, part)
		}
		info := kinds[kind]
		f := Field{Kind: kind, Offset: info.offset, Width: info.width}
		if used&f.Mask() != 0 {
			return nil, fmt.Errorf("%v: field %v overlaps other bits", insn.Name, part)
		}
		used |= f.Mask()
		insn.Fields = append(insn.Fields, f)
	}
	return insn, nil
}

// parseMatchSpec parses "hi..lo=val" or "bit=val" into the shifted value and its mask.
func parseMatchSpec(spec string) (val, mask uint32, err error) {
	rawRange, rawVal, _ := strings.Cut(spec, "=")
	rawHi, rawLo, isRange := strings.Cut(rawRange, "..")
	if !isRange {
		rawLo = rawHi
	}
	hi, err := strconv.ParseUint(rawHi, 10, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("bad bit range %q", spec)
	}
	lo, err := strconv.ParseUint(rawLo, 10, 8)
	if err != nil || lo > hi || hi > 31 {
		return 0, 0, fmt.Errorf("bad bit range %q", spec)
	}
	v, err := strconv.ParseUint(rawVal, 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("bad value %q", spec)
	}
	if v>>(hi-lo+1) != 0 {
		return 0, 0, fmt.Errorf("value does not fit into %q", spec)
	}
	return uint32(v) << lo, rangeMask(uint(hi), uint(lo)), nil
}

func rangeMask(hi, lo uint) uint32 {
	return uint32((uint64(1) << (hi + 1)) - (uint64(1) << lo))
}

func trimComment(line string) string {
	if hash := strings.IndexByte(line, '#'); hash != -1 {
		return line[:hash]
	}
	return line
}

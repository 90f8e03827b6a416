// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/riscvuzz/rvvfuzz/pkg/rvv/opcodes"
)

// Rand is the source of randomness for field synthesis.
// *math/rand.Rand implements it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

func defaultRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Synthesizer produces random field values biased towards edge cases.
type Synthesizer struct {
	cfg *Config
	r   Rand
}

func NewSynthesizer(cfg *Config, r Rand) *Synthesizer {
	return &Synthesizer{cfg: cfg, r: r}
}

// Value returns a value for a field of the given kind.
// The value is not shifted to the field offset.
func (s *Synthesizer) Value(kind opcodes.Kind) uint32 {
	cfg := s.cfg
	switch kind {
	case opcodes.KindRd, opcodes.KindRs1, opcodes.KindRs2:
		return s.reg(cfg.GPRSpecial, cfg.SpecialGPRs, cfg.GPRs)
	case opcodes.KindVd, opcodes.KindVs1, opcodes.KindVs2, opcodes.KindVs3:
		return s.reg(cfg.VREGSpecial, cfg.SpecialVREGs, cfg.VREGs)
	case opcodes.KindSimm5:
		return uint32(s.simm(5)) & 0x1f
	case opcodes.KindZimm:
		return s.uimm(5) & 0x1f
	case opcodes.KindZimm10, opcodes.KindZimm11:
		return s.Vtype().Encode()
	case opcodes.KindVm:
		return uint32(s.r.Intn(2))
	case opcodes.KindNf:
		fields := s.r.Intn(8) + 1
		return uint32(fields - 1)
	}
	panic(fmt.Sprintf("no value rule for field kind %v", kind))
}

func (s *Synthesizer) chance(p float64) bool {
	return s.r.Float64() < p
}

func (s *Synthesizer) reg(special float64, specialRegs, regs []uint32) uint32 {
	if s.chance(special) {
		return specialRegs[s.r.Intn(len(specialRegs))]
	}
	return regs[s.r.Intn(len(regs))]
}

func (s *Synthesizer) simm(bits uint) int32 {
	if s.chance(s.cfg.IMMSpecial) {
		return s.cfg.SpecialSimms[s.r.Intn(len(s.cfg.SpecialSimms))]
	}
	lo := -(1 << (bits - 1))
	return int32(lo + s.r.Intn(1<<bits))
}

func (s *Synthesizer) uimm(bits uint) uint32 {
	if s.chance(s.cfg.IMMSpecial) {
		return s.cfg.SpecialUimms[s.r.Intn(len(s.cfg.SpecialUimms))]
	}
	return uint32(s.r.Intn(1 << bits))
}

// Vtype returns a random vtype byte.
func (s *Synthesizer) Vtype() Vtype {
	skewed := math.Pow(s.r.Float64(), s.cfg.Zimm10Bias)
	sew := min(int(math.Floor(skewed*8)), 7)
	return Vtype{
		Sew:  uint8(sew),
		Lmul: s.vlmul(),
		Ta:   s.chance(0.5),
		Ma:   s.chance(0.5),
	}
}

func (s *Synthesizer) vlmul() Vlmul {
	roll := s.r.Float64()
	cumulative := 0.0
	for _, l := range vlmuls {
		cumulative += s.cfg.VlmulProbabilities[l.name]
		if roll < cumulative {
			return l.code
		}
	}
	return VlmulM1
}

// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"math"
	"testing"

	"github.com/riscvuzz/rvvfuzz/pkg/rvv/opcodes"
	"github.com/riscvuzz/rvvfuzz/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constRand always returns the same values, Intn is clamped to n-1.
type constRand struct {
	f float64
	n int
}

func (r constRand) Float64() float64 { return r.f }
func (r constRand) Intn(n int) int   { return min(r.n, n-1) }

func TestSpecialSimm(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IMMSpecial = 1
	allowed := make(map[uint32]bool)
	for _, v := range cfg.SpecialSimms {
		allowed[uint32(v)&0x1f] = true
	}
	syn := NewSynthesizer(cfg, testutil.Rand(t))
	for i := 0; i < testutil.IterCount(); i++ {
		v := syn.Value(opcodes.KindSimm5)
		if !allowed[v] {
			t.Fatalf("simm5 value %#x is not a special value", v)
		}
	}
}

func TestImmediateRanges(t *testing.T) {
	cfg := DefaultConfig()
	syn := NewSynthesizer(cfg, testutil.Rand(t))
	for i := 0; i < testutil.IterCount(); i++ {
		assert.Less(t, syn.Value(opcodes.KindSimm5), uint32(32))
		assert.Less(t, syn.Value(opcodes.KindZimm), uint32(32))
		assert.Less(t, syn.Value(opcodes.KindNf), uint32(8))
		assert.Less(t, syn.Value(opcodes.KindVm), uint32(2))
		assert.Less(t, syn.Value(opcodes.KindZimm10), uint32(256))
	}
	// Uniform draws cover the whole signed range.
	assert.Equal(t, uint32(0x10), NewSynthesizer(cfg, constRand{f: 0.99, n: 0}).Value(opcodes.KindSimm5))
	assert.Equal(t, uint32(0x0f), NewSynthesizer(cfg, constRand{f: 0.99, n: 31}).Value(opcodes.KindSimm5))
	assert.Equal(t, uint32(31), NewSynthesizer(cfg, constRand{f: 0.99, n: 31}).Value(opcodes.KindZimm))
	assert.Equal(t, uint32(7), NewSynthesizer(cfg, constRand{f: 0.99, n: 7}).Value(opcodes.KindNf))
}

func TestRegisterPools(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GPRs = []uint32{5}
	cfg.VREGs = []uint32{8, 16}
	cfg.GPRSpecial = 0
	cfg.VREGSpecial = 0
	syn := NewSynthesizer(cfg, testutil.Rand(t))
	for i := 0; i < testutil.IterCount(); i++ {
		assert.Equal(t, uint32(5), syn.Value(opcodes.KindRs1))
		assert.Contains(t, []uint32{8, 16}, syn.Value(opcodes.KindVs3))
	}
	cfg.GPRSpecial = 1
	cfg.SpecialGPRs = []uint32{31}
	assert.Equal(t, uint32(31), syn.Value(opcodes.KindRd))

	// A pool that is never drawn from may be empty.
	cfg.GPRs = nil
	require.NoError(t, cfg.Validate())
	for i := 0; i < testutil.IterCount(); i++ {
		assert.Equal(t, uint32(31), syn.Value(opcodes.KindRs2))
	}
}

func TestVlmulNeverReserved(t *testing.T) {
	syn := NewSynthesizer(DefaultConfig(), testutil.Rand(t))
	seen := make(map[Vlmul]bool)
	for i := 0; i < 10*testutil.IterCount(); i++ {
		vt := syn.Vtype()
		if vt.Lmul == 4 || vt.Lmul > 7 {
			t.Fatalf("reserved vlmul %v", vt.Lmul)
		}
		seen[vt.Lmul] = true
		v := syn.Value(opcodes.KindZimm11)
		if v&0x7 == 4 {
			t.Fatalf("reserved vlmul in vtype %#x", v)
		}
	}
	if !testing.Short() {
		assert.Len(t, seen, len(vlmuls))
	}
}

func TestVlmulSampling(t *testing.T) {
	cfg := DefaultConfig()
	// Cumulative order is Mf8, Mf4, Mf2, M1, M2, M4, M8.
	tests := []struct {
		roll float64
		want Vlmul
	}{
		{0, VlmulMf8},
		{0.19, VlmulMf8},
		{0.2, VlmulMf4},
		{0.33, VlmulMf2},
		{0.45, VlmulM1},
		{0.57, VlmulM2},
		{0.69, VlmulM4},
		{0.81, VlmulM8},
		{0.999, VlmulM8},
	}
	for _, test := range tests {
		syn := NewSynthesizer(cfg, constRand{f: test.roll})
		assert.Equal(t, test.want, syn.vlmul(), "roll %v", test.roll)
	}
	// Probabilities summing to less than 1 fall back to M1.
	cfg.VlmulProbabilities = map[string]float64{"M8": 0.5}
	assert.Equal(t, VlmulM8, NewSynthesizer(cfg, constRand{f: 0.4}).vlmul())
	assert.Equal(t, VlmulM1, NewSynthesizer(cfg, constRand{f: 0.6}).vlmul())
	cfg.VlmulProbabilities = nil
	assert.Equal(t, VlmulM1, NewSynthesizer(cfg, constRand{f: 0}).vlmul())
}

func TestSewBias(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint8(0), NewSynthesizer(cfg, constRand{f: 0}).Vtype().Sew)
	assert.Equal(t, uint8(7), NewSynthesizer(cfg, constRand{f: 0.99}).Vtype().Sew)
	// 0.25^0.5 = 0.5 -> e128.
	assert.Equal(t, uint8(4), NewSynthesizer(cfg, constRand{f: 0.25}).Vtype().Sew)
	cfg.Zimm10Bias = 2
	// 0.5^2 = 0.25 -> e32.
	assert.Equal(t, uint8(2), NewSynthesizer(cfg, constRand{f: 0.5}).Vtype().Sew)

	// Bias below 1 skews towards wide elements.
	cfg.Zimm10Bias = 0.5
	syn := NewSynthesizer(cfg, testutil.Rand(t))
	wide := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if syn.Vtype().Sew >= 4 {
			wide++
		}
	}
	assert.Greater(t, wide, n*2/3)
}

func TestMaskRatio(t *testing.T) {
	syn := NewSynthesizer(DefaultConfig(), testutil.Rand(t))
	const n = 10000
	ones := 0
	for i := 0; i < n; i++ {
		ones += int(syn.Value(opcodes.KindVm))
	}
	ratio := float64(ones) / n
	if math.Abs(ratio-0.5) > 0.03 {
		t.Fatalf("vm=1 ratio %v is too far from 0.5", ratio)
	}
}

func TestUnknownKindPanics(t *testing.T) {
	syn := NewSynthesizer(DefaultConfig(), constRand{})
	assert.Panics(t, func() { syn.Value(opcodes.KindInvalid) })
}

func TestVtype(t *testing.T) {
	vt := Vtype{Sew: 2, Lmul: VlmulM4, Ta: true, Ma: true}
	assert.Equal(t, uint32(0xd2), vt.Encode())
	assert.Equal(t, "e32,m4,ta,ma", vt.String())
	vt = Vtype{Sew: 0, Lmul: VlmulMf8}
	assert.Equal(t, uint32(0x05), vt.Encode())
	assert.Equal(t, "e8,mf8,tu,mu", vt.String())
	assert.Equal(t, "Vlmul(0b100)", Vlmul(4).String())
	sew, ok := parseSew("e1024")
	assert.True(t, ok)
	assert.Equal(t, uint8(7), sew)
	_, ok = parseSew("e2048")
	assert.False(t, ok)
	lmul, ok := parseVlmul("MF2")
	assert.True(t, ok)
	assert.Equal(t, VlmulMf2, lmul)
}

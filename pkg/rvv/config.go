// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/riscvuzz/rvvfuzz/pkg/config"
)

// Config controls the random field value synthesis.
// JSON names match the config.json files used by the RISCVuzz tooling.
type Config struct {
	GPRs  []uint32 `json:"GPRs"`
	VREGs []uint32 `json:"VREGs"`

	SpecialGPRs  []uint32 `json:"SPECIAL_GPRS"`
	SpecialVREGs []uint32 `json:"SPECIAL_VREGS"`
	SpecialSimms []int32  `json:"SPECIAL_SIMMS"`
	SpecialUimms []uint32 `json:"SPECIAL_UIMMS"`

	// Probabilities of drawing from the corresponding special pool.
	GPRSpecial  float64 `json:"GPR_SPECIAL"`
	VREGSpecial float64 `json:"VREG_SPECIAL"`
	IMMSpecial  float64 `json:"IMM_SPECIAL"`

	// Settings of the scalar instruction generator that shares the config file.
	// They are validated, but not used here. Scalar fp operands of .vf forms come from GPRs.
	FREGs       []uint32 `json:"FREGs,omitempty"`
	SpecialFPRs []uint32 `json:"SPECIAL_FPRS,omitempty"`
	FPRSpecial  float64  `json:"FPR_SPECIAL,omitempty"`
	FlipProb    float64  `json:"FLIP_PROBABILITY,omitempty"`
	EndianProb  float64  `json:"ENDIAN_PROBABILITY,omitempty"`

	// Exponent applied to the uniform draw for vsew: <1 favors wide SEW, >1 favors narrow SEW.
	Zimm10Bias float64 `json:"ZIMM10_BIAS"`
	// Keyed by Mf8, Mf4, Mf2, M1, M2, M4, M8. Sum must not exceed 1, the rest goes to M1.
	VlmulProbabilities map[string]float64 `json:"VLMUL_PROBABILITIES"`
}

var ErrInvalidConfig = errors.New("invalid config")

func DefaultConfig() *Config {
	return &Config{
		GPRs:         regRange(),
		VREGs:        regRange(),
		SpecialGPRs:  []uint32{0, 1, 2, 31},
		SpecialVREGs: []uint32{0, 1, 31},
		SpecialSimms: []int32{0, 1, -1, 1<<11 - 1, -(1 << 11)},
		SpecialUimms: []uint32{0, 1, 1<<12 - 1, 1 << 12, 1 << 10},
		GPRSpecial:   0.2,
		VREGSpecial:  0.3,
		IMMSpecial:   0.875,
		FREGs:        regRange(),
		SpecialFPRs:  []uint32{0, 1, 31},
		FPRSpecial:   0.2,
		FlipProb:     0.5,
		EndianProb:   0.5,
		Zimm10Bias:   0.5,
		VlmulProbabilities: map[string]float64{
			"Mf8": 0.2,
			"Mf4": 0.12,
			"Mf2": 0.12,
			"M1":  0.12,
			"M2":  0.12,
			"M4":  0.12,
			"M8":  0.2,
		},
	}
}

func regRange() []uint32 {
	regs := make([]uint32, numRegs)
	for i := range regs {
		regs[i] = uint32(i)
	}
	return regs
}

const numRegs = 32

// LoadConfig loads a JSON or YAML config file. Fields missing in the file keep default values.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.VlmulProbabilities = nil
	if err := config.LoadFile(filename, cfg); err != nil {
		return nil, err
	}
	if cfg.VlmulProbabilities == nil {
		cfg.VlmulProbabilities = DefaultConfig().VlmulProbabilities
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", filename, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	probs := []struct {
		name string
		val  float64
	}{
		{"GPR_SPECIAL", cfg.GPRSpecial},
		{"VREG_SPECIAL", cfg.VREGSpecial},
		{"IMM_SPECIAL", cfg.IMMSpecial},
		{"FPR_SPECIAL", cfg.FPRSpecial},
		{"FLIP_PROBABILITY", cfg.FlipProb},
		{"ENDIAN_PROBABILITY", cfg.EndianProb},
	}
	for _, p := range probs {
		if !validProb(p.val) {
			return fmt.Errorf("%w: %v = %v is not in [0, 1]", ErrInvalidConfig, p.name, p.val)
		}
	}
	regPools := []struct {
		name string
		regs []uint32
		prob float64
	}{
		{"GPRs", cfg.GPRs, 1 - cfg.GPRSpecial},
		{"VREGs", cfg.VREGs, 1 - cfg.VREGSpecial},
		{"SPECIAL_GPRS", cfg.SpecialGPRs, cfg.GPRSpecial},
		{"SPECIAL_VREGS", cfg.SpecialVREGs, cfg.VREGSpecial},
		{"FREGs", cfg.FREGs, 0},
		{"SPECIAL_FPRS", cfg.SpecialFPRs, 0},
	}
	for _, pool := range regPools {
		if pool.prob > 0 && len(pool.regs) == 0 {
			return fmt.Errorf("%w: %v is empty", ErrInvalidConfig, pool.name)
		}
		for _, reg := range pool.regs {
			if reg >= numRegs {
				return fmt.Errorf("%w: %v contains bad register %v", ErrInvalidConfig, pool.name, reg)
			}
		}
	}
	if cfg.IMMSpecial > 0 && (len(cfg.SpecialSimms) == 0 || len(cfg.SpecialUimms) == 0) {
		return fmt.Errorf("%w: IMM_SPECIAL is %v, but special immediate pools are empty",
			ErrInvalidConfig, cfg.IMMSpecial)
	}
	if !(cfg.Zimm10Bias > 0) || math.IsInf(cfg.Zimm10Bias, 0) {
		return fmt.Errorf("%w: ZIMM10_BIAS = %v must be positive", ErrInvalidConfig, cfg.Zimm10Bias)
	}
	var names []string
	for name := range cfg.VlmulProbabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	sum := 0.0
	for _, name := range names {
		prob := cfg.VlmulProbabilities[name]
		if _, ok := vlmulByName[name]; !ok {
			return fmt.Errorf("%w: unknown LMUL %q in VLMUL_PROBABILITIES", ErrInvalidConfig, name)
		}
		if !validProb(prob) {
			return fmt.Errorf("%w: VLMUL_PROBABILITIES[%v] = %v is not in [0, 1]", ErrInvalidConfig, name, prob)
		}
		sum += prob
	}
	if sum > 1+sumEpsilon {
		return fmt.Errorf("%w: VLMUL_PROBABILITIES sum to %v", ErrInvalidConfig, sum)
	}
	return nil
}

const sumEpsilon = 1e-9

func validProb(p float64) bool {
	return p >= 0 && p <= 1
}

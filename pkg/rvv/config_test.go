// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package rvv

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	sum := 0.0
	for _, p := range cfg.VlmulProbabilities {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		err    string
	}{
		{"empty GPRs", func(cfg *Config) { cfg.GPRs = nil }, "GPRs is empty"},
		{"empty FREGs", func(cfg *Config) { cfg.FREGs = nil }, ""},
		{"bad VREG", func(cfg *Config) { cfg.VREGs = []uint32{1, 32} }, "VREGs contains bad register 32"},
		{"only special GPRs", func(cfg *Config) { cfg.GPRs, cfg.GPRSpecial = nil, 1 }, ""},
		{"only special VREGs", func(cfg *Config) { cfg.VREGs, cfg.VREGSpecial = nil, 1 }, ""},
		{"empty VREGs", func(cfg *Config) { cfg.VREGs, cfg.VREGSpecial = nil, 0.99 }, "VREGs is empty"},
		{"empty special GPRs", func(cfg *Config) { cfg.SpecialGPRs = nil }, "SPECIAL_GPRS is empty"},
		{"unused special GPRs", func(cfg *Config) { cfg.SpecialGPRs, cfg.GPRSpecial = nil, 0 }, ""},
		{"empty special simms", func(cfg *Config) { cfg.SpecialSimms = nil }, "special immediate pools are empty"},
		{"unused special imms", func(cfg *Config) {
			cfg.SpecialSimms, cfg.SpecialUimms, cfg.IMMSpecial = nil, nil, 0
		}, ""},
		{"empty FPR pools", func(cfg *Config) { cfg.FREGs, cfg.SpecialFPRs = nil, nil }, ""},
		{"bad special FPR", func(cfg *Config) { cfg.SpecialFPRs = []uint32{32} }, "SPECIAL_FPRS contains bad register 32"},
		{"bad FPR prob", func(cfg *Config) { cfg.FPRSpecial = 2 }, "FPR_SPECIAL = 2 is not in [0, 1]"},
		{"bad flip prob", func(cfg *Config) { cfg.FlipProb = -1 }, "FLIP_PROBABILITY = -1 is not in [0, 1]"},
		{"bad endian prob", func(cfg *Config) { cfg.EndianProb = 1.5 }, "ENDIAN_PROBABILITY = 1.5 is not in [0, 1]"},
		{"negative prob", func(cfg *Config) { cfg.VREGSpecial = -0.1 }, "VREG_SPECIAL = -0.1 is not in [0, 1]"},
		{"large prob", func(cfg *Config) { cfg.IMMSpecial = 1.5 }, "IMM_SPECIAL = 1.5 is not in [0, 1]"},
		{"NaN prob", func(cfg *Config) { cfg.GPRSpecial = math.NaN() }, "GPR_SPECIAL = NaN is not in [0, 1]"},
		{"zero bias", func(cfg *Config) { cfg.Zimm10Bias = 0 }, "ZIMM10_BIAS = 0 must be positive"},
		{"inf bias", func(cfg *Config) { cfg.Zimm10Bias = math.Inf(1) }, "ZIMM10_BIAS = +Inf must be positive"},
		{"unknown lmul", func(cfg *Config) { cfg.VlmulProbabilities["M16"] = 0 }, `unknown LMUL "M16"`},
		{"lowercase lmul", func(cfg *Config) { cfg.VlmulProbabilities["m1"] = 0 }, `unknown LMUL "m1"`},
		{"bad lmul prob", func(cfg *Config) { cfg.VlmulProbabilities["M2"] = 2 }, "VLMUL_PROBABILITIES[M2] = 2"},
		{"lmul sum", func(cfg *Config) { cfg.VlmulProbabilities["M2"] = 0.5 }, "VLMUL_PROBABILITIES sum to"},
		{"lmul shortfall", func(cfg *Config) { cfg.VlmulProbabilities = map[string]float64{"M8": 0.1} }, ""},
		{"no lmul", func(cfg *Config) { cfg.VlmulProbabilities = nil }, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.modify(cfg)
			err := cfg.Validate()
			if test.err == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, test.err)
		})
	}
}

func writeFile(t *testing.T, name, data string) string {
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(data), 0644))
	return file
}

func TestLoadConfig(t *testing.T) {
	file := writeFile(t, "config.json", `
# Only vector registers 8-15 and no special immediates.
{
	"VREGs": [8, 9, 10, 11, 12, 13, 14, 15],
	"IMM_SPECIAL": 0,
	"VLMUL_PROBABILITIES": {"M8": 1.0}
}
`)
	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	want := DefaultConfig()
	want.VREGs = []uint32{8, 9, 10, 11, 12, 13, 14, 15}
	want.IMMSpecial = 0
	want.VlmulProbabilities = map[string]float64{"M8": 1.0}
	assert.Equal(t, want, cfg)
}

// Config files shared with the scalar generator carry its fp and mutation settings,
// and spell the register pools the way it does.
func TestLoadSharedConfig(t *testing.T) {
	file := writeFile(t, "config.json", `{
	"GPRs": [0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
		16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31],
	"VREGS": [0, 1, 2, 3, 4, 5, 6, 7],
	"FREGS": [0, 1, 2, 3],
	"SPECIAL_GPRS": [0, 1, 2, 31],
	"SPECIAL_FPRS": [0, 1, 31],
	"SPECIAL_VREGS": [0, 1, 31],
	"SPECIAL_SIMMS": [0, 1, -1, 2047, -2048],
	"SPECIAL_UIMMS": [0, 1, 4095, 4096, 1024],
	"GPR_SPECIAL": 0.2,
	"FPR_SPECIAL": 0.25,
	"VREG_SPECIAL": 0.3,
	"IMM_SPECIAL": 0.875,
	"FLIP_PROBABILITY": 0.5,
	"ENDIAN_PROBABILITY": 0.125,
	"ZIMM10_BIAS": 0.5,
	"VLMUL_PROBABILITIES": {"Mf8": 0.2, "Mf4": 0.12, "Mf2": 0.12, "M1": 0.12, "M2": 0.12, "M4": 0.12, "M8": 0.2}
}`)
	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	want := DefaultConfig()
	want.VREGs = []uint32{0, 1, 2, 3, 4, 5, 6, 7}
	want.FREGs = []uint32{0, 1, 2, 3}
	want.FPRSpecial = 0.25
	want.EndianProb = 0.125
	assert.Equal(t, want, cfg)

	_, err = LoadConfig(writeFile(t, "config.json", `{"SPECIAL_FPRS": [0, 33]}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "SPECIAL_FPRS contains bad register 33")
}

func TestLoadConfigYAML(t *testing.T) {
	file := writeFile(t, "config.yaml", `
GPRs: [10, 11, 12]
GPR_SPECIAL: 0
ZIMM10_BIAS: 1
`)
	cfg, err := LoadConfig(file)
	require.NoError(t, err)
	want := DefaultConfig()
	want.GPRs = []uint32{10, 11, 12}
	want.GPRSpecial = 0
	want.Zimm10Bias = 1
	assert.Equal(t, want, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  string
	}{
		{"config.json", `{"GPRS": [1]}`, `unknown field "GPRS"`},
		{"config.json", `{"VLMUL_PROBABILITIES": {"M1": 0.8, "M2": 0.8}}`, "VLMUL_PROBABILITIES sum to"},
		{"config.json", `{"SPECIAL_SIMMS": [1.5]}`, "failed to parse config file"},
		{"config.yml", "VREGs: [40]\n", "VREGs contains bad register 40"},
	}
	for _, test := range tests {
		t.Run(test.data, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, test.name, test.data))
			assert.ErrorContains(t, err, test.err)
		})
	}
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read config file")
}

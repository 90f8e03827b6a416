// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains various helper utilitites useful for implementation of command line tools.
package tool

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/riscvuzz/rvvfuzz/pkg/log"
)

func Failf(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func Fail(err error) {
	Failf("%v", err)
}

// Init parses command line flags and installs -cpuprofile/-memprofile handling.
// The returned function must be called before the tool exits.
func Init(set *flag.FlagSet, args []string) (func(), error) {
	cpuprof := set.String("cpuprofile", "", "write cpu profile to this file")
	memprof := set.String("memprofile", "", "write memory profile to this file")
	if err := set.Parse(args); err != nil {
		return nil, err
	}
	return installProfiling(*cpuprof, *memprof), nil
}

// Seed returns seed, or a time-based seed if seed is 0.
// The effective seed is logged at verbosity 1.
func Seed(seed int64) int64 {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Logf(1, "seed=%v", seed)
	return seed
}

func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

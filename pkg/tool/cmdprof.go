// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package tool

import (
	"os"
	"runtime"
	"runtime/pprof"
)

// installProfiling starts cpu profiling if cpuprof is set and returns a function
// that stops it and writes the heap profile to memprof if that is set.
func installProfiling(cpuprof, memprof string) func() {
	stopCPU := func() {}
	if cpuprof != "" {
		f, err := os.Create(cpuprof)
		if err != nil {
			Failf("failed to create cpuprofile file: %v", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			Failf("failed to start cpu profile: %v", err)
		}
		stopCPU = func() {
			pprof.StopCPUProfile()
			f.Close()
		}
	}
	return func() {
		stopCPU()
		if memprof != "" {
			writeHeapProfile(memprof)
		}
	}
}

func writeHeapProfile(file string) {
	f, err := os.Create(file)
	if err != nil {
		Failf("failed to create memprofile file: %v", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		Failf("failed to write mem profile: %v", err)
	}
}

// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// rvv-as encodes a single vector instruction given on the command line.
// On success it prints the 32-bit word as 0x%08x without a trailing newline,
// otherwise it prints the input line unchanged.
//
//	rvv-as 'vadd.vv v1, v2, v3'
//	rvv-as -assemble 'vle64.v v3, (a0), v0.t'
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/riscvuzz/rvvfuzz/pkg/log"
	"github.com/riscvuzz/rvvfuzz/pkg/rvv"
	"github.com/riscvuzz/rvvfuzz/pkg/tool"
)

var (
	flagConfig   = flag.String("config", "", "JSON or YAML field synthesis config (default: built-in)")
	flagSeed     = flag.Int64("seed", 0, "prng seed (default: time-based)")
	flagAssemble = flag.Bool("assemble", false, "take field values from the operands instead of random synthesis")
	flagDump     = flag.Bool("dump", false, "dump the parsed line and the matched instruction to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: rvv-as [flags] <instruction>\n")
		flag.PrintDefaults()
	}
	done, err := tool.Init(flag.CommandLine, os.Args[1:])
	if err != nil {
		tool.Fail(err)
	}
	defer done()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	cfg := rvv.DefaultConfig()
	if *flagConfig != "" {
		if cfg, err = rvv.LoadConfig(*flagConfig); err != nil {
			tool.Fail(err)
		}
	}
	line := strings.Join(flag.Args(), " ")
	var r rvv.Rand
	if !*flagAssemble {
		r = tool.NewRand(tool.Seed(*flagSeed))
	}
	encodeLine(os.Stdout, os.Stderr, line, cfg, r)
}

// encodeLine assembles line if r is nil and encodes it with random fields otherwise.
func encodeLine(out, dump io.Writer, line string, cfg *rvv.Config, r rvv.Rand) {
	var (
		res rvv.Result
		err error
	)
	if r == nil {
		res, err = rvv.Assemble(line)
	} else {
		res, err = rvv.Encode(line, cfg, r)
	}
	if *flagDump {
		spew.Fdump(dump, res)
	}
	if err != nil {
		log.Logf(1, "%v: %v", line, err)
	}
	if err != nil || res.Status != rvv.StatusEncoded {
		fmt.Fprintln(out, line)
		return
	}
	fmt.Fprintf(out, "0x%08x", res.Word)
}

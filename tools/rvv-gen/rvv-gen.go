// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// rvv-gen encodes an assembly file line by line and writes fuzzing input.
// Vector instructions get randomly synthesized operands, the rest of the lines
// are passed through (inst/byte formats) or dropped (hex/bin/c formats).
//
//	rvv-gen -in seeds.S -count 100 -format c -out fuzz_buffer.h
package main

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riscvuzz/rvvfuzz/pkg/config"
	"github.com/riscvuzz/rvvfuzz/pkg/log"
	"github.com/riscvuzz/rvvfuzz/pkg/rvv"
	"github.com/riscvuzz/rvvfuzz/pkg/rvv/asm"
	"github.com/riscvuzz/rvvfuzz/pkg/stat"
	"github.com/riscvuzz/rvvfuzz/pkg/tool"
	"golang.org/x/sync/errgroup"
)

var (
	flagIn         = flag.String("in", "", "input assembly file (default: stdin)")
	flagOut        = flag.String("out", "", "output file (default: stdout)")
	flagCount      = flag.Int("count", 1, "number of passes over the input")
	flagSeed       = flag.Int64("seed", 0, "prng seed (default: time-based)")
	flagProcs      = flag.Int("procs", runtime.NumCPU(), "number of parallel encoding jobs")
	flagConfig     = flag.String("config", "", "JSON or YAML field synthesis config (default: built-in)")
	flagFormat     = flag.String("format", "hex", "output format: hex, inst, byte, bin or c")
	flagAssemble   = flag.Bool("assemble", false, "take field values from the operands instead of random synthesis")
	flagComment    = flag.Bool("comment", false, "add the source line as a comment (inst and byte formats)")
	flagHTTP       = flag.String("http", "", "serve Prometheus /metrics on this address")
	flagDumpConfig = flag.Bool("dump-config", false, "print the effective config as JSON, or save it to -out, and exit")
)

var (
	statEncoded = stat.New("encoded", "Encoded vector instructions",
		stat.Console, stat.Rate{}, stat.Prometheus("rvv_gen_encoded_total"))
	statPassed = stat.New("passed through", "Labels and non-vector instructions",
		stat.Prometheus("rvv_gen_passed_total"))
	statMalformed = stat.New("malformed", "Lines with unexpected parse tree shape",
		stat.Console, stat.Prometheus("rvv_gen_malformed_total"))
	statErrors = stat.New("errors", "Lines with syntax or operand errors",
		stat.Console, stat.Prometheus("rvv_gen_errors_total"))
	statLatency = stat.New("encode latency", "Per-line encoding time (ns)",
		stat.Distribution{}, stat.Prometheus("rvv_gen_encode_latency_ns"))
)

func main() {
	done, err := tool.Init(flag.CommandLine, os.Args[1:])
	if err != nil {
		tool.Fail(err)
	}
	defer done()
	log.EnableLogCaching(1000, 1<<20)
	cfg := rvv.DefaultConfig()
	if *flagConfig != "" {
		if cfg, err = rvv.LoadConfig(*flagConfig); err != nil {
			tool.Fail(err)
		}
	}
	if *flagDumpConfig {
		if err := dumpConfig(os.Stdout, cfg, *flagOut); err != nil {
			tool.Fail(err)
		}
		return
	}
	format, ok := formats[*flagFormat]
	if !ok {
		tool.Failf("unknown format %q", *flagFormat)
	}
	if *flagCount < 1 || *flagProcs < 1 {
		tool.Failf("-count and -procs must be positive")
	}
	if *flagHTTP != "" {
		serveMetrics(*flagHTTP)
	}
	lines, err := readLines(*flagIn)
	if err != nil {
		tool.Fail(err)
	}
	gen := &generator{
		cfg:      cfg,
		seed:     tool.Seed(*flagSeed),
		procs:    *flagProcs,
		assemble: *flagAssemble,
	}
	start := time.Now()
	results, err := gen.run(context.Background(), lines, *flagCount)
	if err != nil {
		tool.Fail(err)
	}
	out := io.Writer(os.Stdout)
	if *flagOut != "" {
		f, err := os.Create(*flagOut)
		if err != nil {
			tool.Failf("failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	if err := format(w, results, *flagComment); err != nil {
		tool.Fail(err)
	}
	if err := w.Flush(); err != nil {
		tool.Fail(err)
	}
	log.Logf(0, "encoded %v lines in %v", len(results), time.Since(start))
	for _, ui := range stat.Collect(stat.All) {
		log.Logf(1, "%-16v %v", ui.Name+":", ui.Value)
	}
	log.Logf(1, "%-16v %v", "mean latency:", &gen.latency)
	errorSummary(os.Stderr, statErrors.Val())
}

// dumpConfig saves cfg to file (YAML for .yaml/.yml), or writes it to w as JSON if file is empty.
func dumpConfig(w io.Writer, cfg *rvv.Config, file string) error {
	if file != "" {
		return config.SaveFile(file, cfg)
	}
	data, err := config.SaveData(cfg, false)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// errorSummary prints the recent log if some lines failed and their errors were not printed already.
func errorSummary(w io.Writer, failed int) {
	if failed == 0 || log.V(1) {
		return
	}
	fmt.Fprintf(w, "%v lines failed to encode, recent log:\n%v", failed, log.CachedLogOutput())
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	log.Logf(0, "serving metrics on http://%v/metrics", addr)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("failed to serve metrics: %v", err)
		}
	}()
}

func readLines(file string) ([]string, error) {
	in := io.Reader(os.Stdin)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}
	var lines []string
	s := bufio.NewScanner(in)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}

type generator struct {
	cfg      *rvv.Config
	seed     int64
	procs    int
	assemble bool
	latency  stat.Mean[time.Duration]
}

type result struct {
	line string
	res  rvv.Result
	err  error
}

func (res *result) encoded() bool {
	return res.err == nil && res.res.Status == rvv.StatusEncoded
}

// run encodes count passes over lines. Job i uses its own source seeded with seed+i,
// so the output does not depend on the number of procs. Results are in input order.
func (gen *generator) run(ctx context.Context, lines []string, count int) ([]result, error) {
	if err := gen.cfg.Validate(); err != nil {
		return nil, err
	}
	results := make([]result, len(lines)*count)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(gen.procs)
	for i := range results {
		if egCtx.Err() != nil {
			break
		}
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			results[i] = gen.encode(i, lines[i%len(lines)])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (gen *generator) encode(idx int, line string) result {
	start := time.Now()
	var (
		res rvv.Result
		err error
	)
	if gen.assemble {
		res, err = rvv.Assemble(line)
	} else {
		res, err = rvv.Encode(line, gen.cfg, tool.NewRand(gen.seed+int64(idx)))
	}
	took := time.Since(start)
	statLatency.Add(int(took))
	gen.latency.Add(took)
	var synerr *asm.SyntaxError
	switch {
	case errors.As(err, &synerr):
		// Syntax errors are expected for directives and other non-instruction lines.
		log.Logf(1, "line %q: %v", line, err)
		statErrors.Add(1)
	case err != nil:
		log.Logf(0, "line %q: %v", line, err)
		statErrors.Add(1)
	case res.Status == rvv.StatusMalformed:
		statMalformed.Add(1)
	case res.Status == rvv.StatusNotInstruction:
		statPassed.Add(1)
	default:
		statEncoded.Add(1)
	}
	return result{line: line, res: res, err: err}
}

type formatFunc func(w io.Writer, results []result, comment bool) error

var formats = map[string]formatFunc{
	"hex":  formatHex,
	"inst": formatInst,
	"byte": formatByte,
	"bin":  formatBin,
	"c":    formatC,
}

func formatHex(w io.Writer, results []result, comment bool) error {
	for _, res := range results {
		if res.encoded() {
			fmt.Fprintf(w, "0x%08x\n", res.res.Word)
		}
	}
	return nil
}

func formatInst(w io.Writer, results []result, comment bool) error {
	return formatAsm(w, results, comment, func(word uint32) string {
		return fmt.Sprintf(".inst 0x%08x", word)
	})
}

func formatByte(w io.Writer, results []result, comment bool) error {
	return formatAsm(w, results, comment, func(word uint32) string {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], word)
		return fmt.Sprintf(".byte 0x%02x, 0x%02x, 0x%02x, 0x%02x", b[0], b[1], b[2], b[3])
	})
}

// formatAsm replaces encoded lines with a directive keeping the line indentation.
func formatAsm(w io.Writer, results []result, comment bool, directive func(uint32) string) error {
	for _, res := range results {
		if !res.encoded() {
			fmt.Fprintln(w, res.line)
			continue
		}
		indent := res.line[:len(res.line)-len(strings.TrimLeft(res.line, " "))]
		fmt.Fprintf(w, "%v%v", indent, directive(res.res.Word))
		if comment {
			fmt.Fprintf(w, " # %032b - %v", res.res.Word, strings.TrimSpace(res.line))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func formatBin(w io.Writer, results []result, comment bool) error {
	for _, res := range results {
		if !res.encoded() {
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, res.res.Word); err != nil {
			return err
		}
	}
	return nil
}

func formatC(w io.Writer, results []result, comment bool) error {
	fmt.Fprintf(w, "uint32_t fuzz_buffer[] = {\n")
	for _, res := range results {
		if res.encoded() {
			fmt.Fprintf(w, "    0x%08x,\n", res.res.Word)
		}
	}
	fmt.Fprintf(w, "};\n")
	return nil
}

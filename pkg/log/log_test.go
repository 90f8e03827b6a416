// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func init() {
	EnableLogCaching(3, 30)
}

func TestCaching(t *testing.T) {
	defer func() { prependTime = true }()
	prependTime = false
	steps := []struct {
		v    int
		msg  string
		want []string
	}{
		{1, `line "vadd.vv ,,,"`, []string{`line "vadd.vv ,,,"`}},
		{2, "not cached", []string{`line "vadd.vv ,,,"`}},
		{0, "seed 42", []string{`line "vadd.vv ,,,"`, "seed 42"}},
		// Over the memory limit, the oldest entries go first.
		{1, "bad vm", []string{"seed 42", "bad vm"}},
		{0, "a", []string{"seed 42", "bad vm", "a"}},
		// Over the line limit.
		{0, "b", []string{"bad vm", "a", "b"}},
		// A single entry over the memory limit is kept.
		{1, strings.Repeat("x", 40), []string{strings.Repeat("x", 40)}},
	}
	for i, step := range steps {
		Logf(step.v, "%s", step.msg)
		want := strings.Join(step.want, "\n") + "\n"
		if got := CachedLogOutput(); got != want {
			t.Fatalf("step %v: logged %q\nwant: %q\ngot:  %q", i, step.msg, want, got)
		}
	}

	prependTime = true
	Logf(1, "timed")
	out := CachedLogOutput()
	assert.Regexp(t, regexp.MustCompile(`(?m)^\d{4}/\d\d/\d\d \d\d:\d\d:\d\d timed$`), out)
}

func TestVerbosity(t *testing.T) {
	defer SetVerbosity(0)
	assert.True(t, V(0))
	assert.False(t, V(1))
	SetVerbosity(2)
	assert.True(t, V(2))
	assert.False(t, V(3))
}

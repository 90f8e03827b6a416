// Copyright 2026 syzkaller project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package stat

import (
	"fmt"
	"sync"
)

// Sample covers time.Duration and plain counters.
type Sample interface {
	~int64 | ~float64
}

// Mean tracks the running mean and the maximum of samples.
// The zero value is ready to use.
type Mean[T Sample] struct {
	mu    sync.Mutex
	count int64
	mean  T
	max   T
}

func (m *Mean[T]) Add(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	m.mean += (v - m.mean) / T(m.count)
	if m.count == 1 || v > m.max {
		m.max = v
	}
}

func (m *Mean[T]) Value() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mean
}

func (m *Mean[T]) Max() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.max
}

func (m *Mean[T]) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *Mean[T]) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%v (max %v, %v samples)", m.mean, m.max, m.count)
}

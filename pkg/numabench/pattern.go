// Copyright 2023 The numabench authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package numabench

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Pattern selects a region traversal order.
type Pattern string

const (
	PatternSequential Pattern = "sequential"
	PatternRandom     Pattern = "random"
	PatternStride     Pattern = "stride"
)

// PatternGenerator precomputes index sequences for timed access
// passes. The generator owns its PRNG state: two generators created
// with the same seed produce identical sequences regardless of what
// else runs in the process.
type PatternGenerator struct {
	rng *rand.Rand
}

func NewPatternGenerator(seed int64) *PatternGenerator {
	return &PatternGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Sequential returns indices 0..n-1 where n is the smaller of size
// and limit. The limit bounds pass length on huge regions.
func (g *PatternGenerator) Sequential(size, limit int) ([]int, error) {
	if size <= 0 || limit <= 0 {
		return nil, errors.Errorf("invalid sequential pattern: size %d, limit %d", size, limit)
	}
	n := size
	if n > limit {
		n = limit
	}
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		indices[i] = i
	}
	return indices, nil
}

// Random returns count independent draws uniformly in [0, size).
func (g *PatternGenerator) Random(size, count int) ([]int, error) {
	if size <= 0 || count < 0 {
		return nil, errors.Errorf("invalid random pattern: size %d, count %d", size, count)
	}
	indices := make([]int, count)
	for i := 0; i < count; i++ {
		indices[i] = g.rng.Intn(size)
	}
	return indices, nil
}

// Stride returns count indices (i*stride) mod size.
func (g *PatternGenerator) Stride(size, count, stride int) ([]int, error) {
	if size <= 0 || count < 0 || stride <= 0 {
		return nil, errors.Errorf("invalid stride pattern: size %d, count %d, stride %d", size, count, stride)
	}
	indices := make([]int, count)
	for i := 0; i < count; i++ {
		indices[i] = (i * stride) % size
	}
	return indices, nil
}

// Warmup returns random indices for the untimed pass that brings the
// region out of a cold cache state consistently across patterns.
func (g *PatternGenerator) Warmup(size, count int) ([]int, error) {
	return g.Random(size, count)
}

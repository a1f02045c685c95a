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
	"testing"
)

func TestRunSequentialChecksum(t *testing.T) {
	region, err := newRegionElems(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	region.Init()

	gen := NewPatternGenerator(12345)
	indices, err := gen.Sequential(region.Len(), 1000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := NewAccessRunner(region).Run(indices, false)

	// Exactly one access per element, bounded by region size.
	if result.Accesses != 4 {
		t.Errorf("expected 4 accesses, got %d", result.Accesses)
	}
	// Init sets element i to i%100, so the read-only sum is 0+1+2+3.
	if result.Checksum != 6 {
		t.Errorf("expected checksum 6, got %d", result.Checksum)
	}
	if result.Elapsed < 0 {
		t.Errorf("negative elapsed time %v", result.Elapsed)
	}
	if result.ThroughputMBps < 0 || result.AvgLatencyNs < 0 {
		t.Errorf("negative derived metrics: %.2f MB/s, %.2f ns", result.ThroughputMBps, result.AvgLatencyNs)
	}
}

func TestRunDegenerateStridePass(t *testing.T) {
	// A stride that always hits index 0 must still produce a full
	// result without error.
	region, err := newRegionElems(64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	region.Init()

	indices, err := NewPatternGenerator(12345).Stride(region.Len(), 1000, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := NewAccessRunner(region).Run(indices, false)
	if result.Accesses != 1000 {
		t.Errorf("expected 1000 accesses, got %d", result.Accesses)
	}
	if result.Checksum != 0 {
		t.Errorf("expected checksum 0 from all-zero region element, got %d", result.Checksum)
	}
	if result.AvgLatencyNs < 0 {
		t.Errorf("latency must be reported without error, got %.2f", result.AvgLatencyNs)
	}
}

func TestRunReadModifyWrite(t *testing.T) {
	region, err := newRegionElems(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	region.Init()

	indices := []int{0, 1, 2}
	result := NewAccessRunner(region).Run(indices, true)

	// The pass reads, accumulates and stores sum%100 back:
	// idx 0: sum=0, data[0]=0; idx 1: sum=1, data[1]=1;
	// idx 2: sum=3, data[2]=3.
	if result.Checksum != 3 {
		t.Errorf("expected checksum 3, got %d", result.Checksum)
	}
	if region.data[2] != 3 {
		t.Errorf("expected write-back 3 at index 2, got %d", region.data[2])
	}
	// Untouched elements keep their init values.
	if region.data[3] != 3 || region.data[7] != 7 {
		t.Errorf("untouched elements changed: %v", region.data)
	}
}

func TestWarmupDoesNotWrite(t *testing.T) {
	region, err := newRegionElems(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	region.Init()

	runner := NewAccessRunner(region)
	warmup, err := NewPatternGenerator(12345).Warmup(region.Len(), 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := runner.Warmup(warmup)
	for i, v := range region.data {
		if v != int64(i%100) {
			t.Fatalf("warmup modified element %d: %d", i, v)
		}
	}
	// The returned sum is the caller's sink against dead-code
	// elimination and must match the values actually read.
	want := int64(0)
	for _, idx := range warmup {
		want += int64(idx % 100)
	}
	if sum != want {
		t.Errorf("expected warmup sum %d, got %d", want, sum)
	}
}

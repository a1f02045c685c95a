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

func TestPartitionChunks(t *testing.T) {
	tcases := []struct {
		name        string
		size        int
		workers     int
		expectError bool
		covered     int
	}{
		{name: "even split", size: 100, workers: 4, covered: 100},
		{name: "remainder truncated", size: 103, workers: 4, covered: 100},
		{name: "single worker", size: 17, workers: 1, covered: 17},
		{name: "workers equal size", size: 8, workers: 8, covered: 8},
		{name: "more workers than elements", size: 3, workers: 4, expectError: true},
		{name: "zero workers", size: 100, workers: 0, expectError: true},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			chunks, err := partitionChunks(tc.size, tc.workers)
			if tc.expectError {
				if err == nil {
					t.Fatalf("expected error, got chunks %v", chunks)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(chunks) != tc.workers {
				t.Fatalf("expected %d chunks, got %d", tc.workers, len(chunks))
			}
			covered := 0
			seen := make(map[int]bool)
			for _, chunk := range chunks {
				if chunk[0] < 0 || chunk[1] > tc.size || chunk[0] >= chunk[1] {
					t.Fatalf("invalid chunk %v for size %d", chunk, tc.size)
				}
				for i := chunk[0]; i < chunk[1]; i++ {
					if seen[i] {
						t.Fatalf("element %d covered by two chunks", i)
					}
					seen[i] = true
					covered += 1
				}
			}
			if covered != tc.covered {
				t.Errorf("expected %d covered elements, got %d", tc.covered, covered)
			}
			if covered != tc.workers*(tc.size/tc.workers) {
				t.Errorf("coverage %d != workers*(size/workers) %d", covered, tc.workers*(tc.size/tc.workers))
			}
		})
	}
}

func TestConcurrentRun(t *testing.T) {
	region, err := newRegionElems(400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	region.Init()

	result, err := NewConcurrentAccessRunner(region).Run(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Workers) != 4 {
		t.Fatalf("expected 4 worker results, got %d", len(result.Workers))
	}
	if result.ElementsCovered != 400 {
		t.Errorf("expected 400 covered elements, got %d", result.ElementsCovered)
	}

	// Workers sum disjoint chunks of the same region, so their
	// checksums add up to the full sequential sum.
	expected := int64(0)
	for i := 0; i < region.Len(); i++ {
		expected += int64(i % 100)
	}
	if result.Checksum != expected {
		t.Errorf("expected aggregate checksum %d, got %d", expected, result.Checksum)
	}
	for _, w := range result.Workers {
		if w.Err != nil {
			t.Errorf("worker %d failed: %v", w.Worker, w.Err)
		}
		if w.Result.Accesses != 100 {
			t.Errorf("worker %d: expected 100 accesses, got %d", w.Worker, w.Result.Accesses)
		}
		if w.Result.Elapsed > result.WallTime {
			t.Errorf("worker %d elapsed %v exceeds wall time %v", w.Worker, w.Result.Elapsed, result.WallTime)
		}
	}
}

func TestConcurrentRunTruncation(t *testing.T) {
	region, err := newRegionElems(103)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	region.Init()

	result, err := NewConcurrentAccessRunner(region).Run(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The 3-element remainder is dropped, not redistributed.
	if result.ElementsCovered != 100 {
		t.Errorf("expected 100 covered elements, got %d", result.ElementsCovered)
	}
}

func TestConcurrentRunErrors(t *testing.T) {
	region, err := newRegionElems(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewConcurrentAccessRunner(region).Run(0); err == nil {
		t.Errorf("expected error for zero workers")
	}
	if _, err := NewConcurrentAccessRunner(region).Run(5); err == nil {
		t.Errorf("expected error for more workers than elements")
	}
}

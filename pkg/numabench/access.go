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
	"time"
)

// AccessResult reports one timed pass over a region. Callers must
// consume Checksum (log or aggregate it), that is what keeps the
// compiler from eliding the access loop.
type AccessResult struct {
	Accesses       int
	Elapsed        time.Duration
	Checksum       int64
	ThroughputMBps float64
	AvgLatencyNs   float64
}

// AccessRunner executes timed index-sequence passes over one region.
type AccessRunner struct {
	region *Region
	clock  *Clock
}

func NewAccessRunner(region *Region) *AccessRunner {
	return &AccessRunner{
		region: region,
		clock:  NewClock(),
	}
}

// Warmup runs an untimed read pass over the given indices.
func (a *AccessRunner) Warmup(indices []int) int64 {
	sum := int64(0)
	data := a.region.data
	for _, idx := range indices {
		sum += data[idx]
	}
	return sum
}

// Run executes one timed pass over the precomputed indices. The
// measured interval covers only the access loop. With readModifyWrite
// every access also stores a derived value back, exercising the store
// path in addition to loads.
func (a *AccessRunner) Run(indices []int, readModifyWrite bool) AccessResult {
	sum := int64(0)
	data := a.region.data
	start := a.clock.NowUSec()
	if readModifyWrite {
		for _, idx := range indices {
			sum += data[idx]
			data[idx] = sum % 100
		}
	} else {
		for _, idx := range indices {
			sum += data[idx]
		}
	}
	elapsed := a.clock.Since(start)
	return newAccessResult(len(indices), elapsed, sum)
}

func newAccessResult(accesses int, elapsed time.Duration, checksum int64) AccessResult {
	result := AccessResult{
		Accesses: accesses,
		Elapsed:  elapsed,
		Checksum: checksum,
	}
	ns := float64(elapsed.Nanoseconds())
	if ns <= 0 {
		// Sub-microsecond passes are below clock resolution.
		ns = 1
	}
	bytes := float64(accesses) * regionElemSize
	result.ThroughputMBps = (bytes / MB) / (ns / 1e9)
	if accesses > 0 {
		result.AvgLatencyNs = ns / float64(accesses)
	}
	return result
}

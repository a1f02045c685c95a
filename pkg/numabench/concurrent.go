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
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// WorkerResult is one worker's timed pass over its region chunk.
type WorkerResult struct {
	Worker int
	Result AccessResult
	Err    error
}

// ConcurrentResult aggregates a multi-worker run. WallTime spans
// worker creation through the join of the last worker, so it includes
// scheduling overhead that per-worker Elapsed times do not.
type ConcurrentResult struct {
	Workers         []WorkerResult
	WallTime        time.Duration
	ElementsCovered int
	Checksum        int64
}

// ConcurrentAccessRunner partitions a region into disjoint contiguous
// chunks and runs one sequential read pass per chunk on its own
// goroutine. Chunks never overlap, so workers share no mutable state.
type ConcurrentAccessRunner struct {
	region *Region
	clock  *Clock
}

func NewConcurrentAccessRunner(region *Region) *ConcurrentAccessRunner {
	return &ConcurrentAccessRunner{
		region: region,
		clock:  NewClock(),
	}
}

// partitionChunks returns workerCount [start, end) element ranges of
// size/workerCount elements each. A remainder of a non-divisible size
// is truncated, the tail elements are not covered by any chunk.
func partitionChunks(size, workerCount int) ([][2]int, error) {
	if workerCount < 1 {
		return nil, errors.Errorf("invalid worker count %d, expected >= 1", workerCount)
	}
	chunk := size / workerCount
	if chunk == 0 {
		return nil, errors.Errorf("region of %d elements too small for %d workers", size, workerCount)
	}
	chunks := make([][2]int, workerCount)
	for w := 0; w < workerCount; w++ {
		chunks[w] = [2]int{w * chunk, (w + 1) * chunk}
	}
	return chunks, nil
}

// Run spawns workerCount workers and joins them all. Any worker error
// fails the whole run.
func (c *ConcurrentAccessRunner) Run(workerCount int) (*ConcurrentResult, error) {
	chunks, err := partitionChunks(c.region.Len(), workerCount)
	if err != nil {
		return nil, err
	}
	results := make([]WorkerResult, workerCount)
	var wg sync.WaitGroup
	wallStart := c.clock.NowUSec()
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w] = c.runWorker(w, chunks[w])
		}(w)
	}
	wg.Wait()
	wallTime := c.clock.Since(wallStart)

	var errs *multierror.Error
	checksum := int64(0)
	covered := 0
	for _, wr := range results {
		if wr.Err != nil {
			errs = multierror.Append(errs, errors.Wrapf(wr.Err, "worker %d", wr.Worker))
			continue
		}
		checksum += wr.Result.Checksum
		covered += wr.Result.Accesses
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &ConcurrentResult{
		Workers:         results,
		WallTime:        wallTime,
		ElementsCovered: covered,
		Checksum:        checksum,
	}, nil
}

// runWorker times a sequential summation pass over one chunk. The
// measured interval is the worker's own access loop only.
func (c *ConcurrentAccessRunner) runWorker(worker int, chunk [2]int) WorkerResult {
	start, end := chunk[0], chunk[1]
	if start < 0 || end > c.region.Len() || start >= end {
		return WorkerResult{
			Worker: worker,
			Err:    errors.Errorf("chunk [%d, %d) out of region bounds [0, %d)", start, end, c.region.Len()),
		}
	}
	sum := int64(0)
	data := c.region.data[start:end]
	clock := NewClock()
	t0 := clock.NowUSec()
	for i := range data {
		sum += data[i]
	}
	elapsed := clock.Since(t0)
	return WorkerResult{
		Worker: worker,
		Result: newAccessResult(end-start, elapsed, sum),
	}
}

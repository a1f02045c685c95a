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
	"fmt"
	"time"
)

// Status labels of one migration timeline sample, derived from the
// local node's share of resolved sampled pages.
const (
	StatusAllRemote = "All_Remote"
	StatusAllLocal  = "All_Local"
	StatusMigrating = "Migrating"
)

// NodeDistribution counts sampled pages per NUMA node. Unresolved
// pages are excluded from the counts but included in Samples, so
// percentages over all nodes may sum below 100.
type NodeDistribution struct {
	Counts  [numNodes]int
	Samples int
}

// newNodeDistribution counts pages per node from a batched locator
// result. Nodes outside [0, numNodes) are treated as unresolved.
func newNodeDistribution(nodes []Node) NodeDistribution {
	dist := NodeDistribution{Samples: len(nodes)}
	for _, node := range nodes {
		if node >= 0 && node < numNodes {
			dist.Counts[node] += 1
		}
	}
	return dist
}

// Percent returns the node's integer share of all sampled pages.
func (d NodeDistribution) Percent(node Node) int {
	if node < 0 || node >= numNodes || d.Samples == 0 {
		return 0
	}
	return d.Counts[node] * 100 / d.Samples
}

// Changed reports whether per-node counts differ between two
// distributions.
func (d NodeDistribution) Changed(other NodeDistribution) bool {
	return d.Counts != other.Counts
}

func (d NodeDistribution) String() string {
	return fmt.Sprintf("Node0=%d%%, Node1=%d%%", d.Percent(0), d.Percent(1))
}

// classifyStatus derives the coarse status label from the local
// node's percentage. Partial migration is the expected steady state
// of the timeline, so anything between the boundary cases is simply
// "Migrating".
func classifyStatus(localPercent int) string {
	switch {
	case localPercent == 0:
		return StatusAllRemote
	case localPercent == 100:
		return StatusAllLocal
	default:
		return StatusMigrating
	}
}

// Sample is one migration timeline entry: the timed burst duration of
// an iteration and the node distribution observed right after it.
// Samples are immutable once emitted.
type Sample struct {
	Iteration int
	BurstTime time.Duration
	Dist      NodeDistribution
	Status    string
}

// CSVRow formats the sample in the machine-parsable per-iteration
// order: iteration, burst seconds, node0 percent, node1 percent,
// status.
func (s Sample) CSVRow() string {
	return fmt.Sprintf("%d, %.3f, %d, %d, %s",
		s.Iteration, s.BurstTime.Seconds(), s.Dist.Percent(0), s.Dist.Percent(1), s.Status)
}

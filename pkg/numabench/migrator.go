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

	"github.com/pkg/errors"
)

// MigrationOutcome reports one forced page move: how many pages were
// requested onto Target and how many actually landed there. Pinned or
// otherwise unmovable pages are tolerated, they simply do not count
// as moved.
type MigrationOutcome struct {
	Requested int
	Moved     int
	Target    Node
}

// PageMigrator forces every page of a region onto a target node with
// one batched move_pages(2) request.
type PageMigrator struct {
	// settle is how long to wait after a move request before node
	// location queries can be trusted. Migration is not synchronous
	// with the request's return on all kernel versions.
	settle time.Duration
}

func NewPageMigrator(settle time.Duration) *PageMigrator {
	return &PageMigrator{settle: settle}
}

// ForceToNode requests migration of all pages of the region to the
// target node and waits for the settle period. A failed batched
// request is soft: it is logged and reported as a zero-moved outcome.
// An invalid target node is a hard error.
func (m *PageMigrator) ForceToNode(region *Region, target Node) (MigrationOutcome, error) {
	if target < 0 || target >= numNodes {
		return MigrationOutcome{}, errors.Errorf("invalid target node %d", target)
	}
	pages := region.PageAddrs()
	outcome := MigrationOutcome{
		Requested: len(pages),
		Target:    target,
	}
	nodes := make([]int, len(pages))
	intTarget := int(target)
	for i := range nodes {
		nodes[i] = intTarget
	}

	log.Infof("forcing %d pages to node %d", len(pages), target)
	sysRet, status, err := movePagesSyscall(0, uint(len(pages)), pages, nodes, MPOL_MF_MOVE)
	if err != nil {
		log.Warnf("move_pages to node %d failed: %v", target, err)
		stats.Store(StatsHeartbeat{name: "move_pages error: " + err.Error()})
		return outcome, nil
	}

	destNodeCount := 0
	otherNodeCount := 0
	statusErrorCounts := make(map[int]int)
	for _, node := range status {
		if node == intTarget {
			destNodeCount += 1
		} else if node < 0 {
			statusErrorCounts[-node] += 1
		} else {
			otherNodeCount += 1
		}
	}
	outcome.Moved = destNodeCount
	if sysRet > 0 {
		log.Warnf("move_pages left %d of %d pages unmigrated", sysRet, len(pages))
	}
	stats.Store(StatsMoved{
		sysRet:         sysRet,
		destNode:       intTarget,
		reqCount:       len(pages),
		destNodeCount:  destNodeCount,
		otherNodeCount: otherNodeCount,
		errorCounts:    statusErrorCounts,
	})
	log.Infof("moved %d/%d pages to node %d", destNodeCount, len(pages), target)

	if m.settle > 0 {
		time.Sleep(m.settle)
	}
	return outcome, nil
}

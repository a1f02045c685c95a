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

// Tests here cover the placement-independent parts only. Whether
// pages actually move depends on the hosting kernel and node count,
// so end-to-end migration runs are exercised by the migrate test of
// the binary, not by unit tests.

func TestForceToNodeInvalidTarget(t *testing.T) {
	region, err := newRegionElems(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	migrator := NewPageMigrator(0)
	for _, target := range []Node{NodeUnknown, numNodes, 100} {
		if _, err := migrator.ForceToNode(region, target); err == nil {
			t.Errorf("expected error for target node %d", target)
		}
	}
}

func TestMovePagesSyscallEmptyBatch(t *testing.T) {
	ret, status, err := movePagesSyscall(0, 0, nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ret != 0 || len(status) != 0 {
		t.Errorf("expected empty result, got ret=%d status=%v", ret, status)
	}
}

func TestMovePagesSyscallNodeRange(t *testing.T) {
	region, err := newRegionElems(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	region.Init()
	pages := region.PageAddrs()
	if _, _, err := movePagesSyscall(0, uint(len(pages)), pages, []int{-2}, MPOL_MF_MOVE); err == nil {
		t.Errorf("expected error for out of range node")
	}
	if _, _, err := movePagesSyscall(0, uint(len(pages)), pages, []int{40000}, MPOL_MF_MOVE); err == nil {
		t.Errorf("expected error for out of range node")
	}
}

func TestLocatorEmptyBatch(t *testing.T) {
	nodes, err := NodeLocator{}.NodesOf(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("expected no nodes, got %v", nodes)
	}
}

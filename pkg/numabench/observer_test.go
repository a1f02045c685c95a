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
	"time"

	"github.com/pkg/errors"
)

// The observer's full protocol needs a two-node host and a kernel
// with balancing enabled, and its outcome is probabilistic. Unit
// tests cover the derived reporting; the timeline trend is asserted
// by running the migrate test of the binary.

func TestLocalNodeOf(t *testing.T) {
	resolverTo := func(node int) NodeResolver {
		return func(cpu int) (int, error) {
			return node, nil
		}
	}
	failingResolver := func(cpu int) (int, error) {
		return -1, errors.Errorf("cpu%d not in sysfs", cpu)
	}
	tcases := []struct {
		name        string
		nodeID      int
		resolve     NodeResolver
		expectNode  Node
		expectError bool
	}{
		{
			name:       "getcpu node in model, resolver unused",
			nodeID:     1,
			resolve:    failingResolver,
			expectNode: 1,
		},
		{
			name:        "getcpu node out of model, no resolver",
			nodeID:      4,
			expectError: true,
		},
		{
			name:       "getcpu node out of model, sysfs resolves",
			nodeID:     4,
			resolve:    resolverTo(0),
			expectNode: 0,
		},
		{
			name:        "getcpu node out of model, sysfs out of model too",
			nodeID:      4,
			resolve:     resolverTo(4),
			expectError: true,
		},
		{
			name:        "getcpu node out of model, sysfs fails",
			nodeID:      -1,
			resolve:     failingResolver,
			expectError: true,
		},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			node, err := localNodeOf(7, tc.nodeID, tc.resolve)
			if tc.expectError {
				if err == nil {
					t.Fatalf("expected error, got node %d", node)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if node != tc.expectNode {
				t.Errorf("expected node %d, got %d", tc.expectNode, node)
			}
		})
	}
}

func TestSummaryOverhead(t *testing.T) {
	summary := &MigrationSummary{
		BurstTime: 3 * time.Second,
		WallTime:  10 * time.Second,
	}
	if overhead := summary.Overhead(); overhead != 7*time.Second {
		t.Errorf("expected 7s overhead, got %v", overhead)
	}
}

func TestSummaryMigrationSignal(t *testing.T) {
	baseline := newNodeDistribution([]Node{1, 1, 1, 1})
	migrated := newNodeDistribution([]Node{0, 0, 1, 1})
	same := newNodeDistribution([]Node{1, 1, 1, 1})
	if !baseline.Changed(migrated) {
		t.Errorf("expected migration signal for changed distribution")
	}
	if baseline.Changed(same) {
		t.Errorf("expected no migration signal for identical distribution")
	}
}

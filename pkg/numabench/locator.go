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

// NodeLocator resolves which NUMA node currently backs virtual pages
// of the calling process. Queries are side-effect free: move_pages(2)
// with a NULL node list only reads placement, it never migrates.
type NodeLocator struct{}

// NodesOf resolves the backing node of every address in one batched
// kernel request. Pages whose status cannot be resolved (not
// resident, for instance) come back as NodeUnknown.
func (l NodeLocator) NodesOf(addrs []uintptr) ([]Node, error) {
	count := uint(len(addrs))
	_, status, err := movePagesSyscall(0, count, addrs, nil, 0)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, len(status))
	for i, s := range status {
		if s < 0 {
			nodes[i] = NodeUnknown
		} else {
			nodes[i] = Node(s)
		}
	}
	return nodes, nil
}

// NodeOf resolves the backing node of a single address.
func (l NodeLocator) NodeOf(addr uintptr) Node {
	nodes, err := l.NodesOf([]uintptr{addr})
	if err != nil || len(nodes) != 1 {
		return NodeUnknown
	}
	return nodes[0]
}

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

/*

	Package numabench measures memory access performance on NUMA
	systems and observes the kernel's automatic page balancing.

	Component types

	1. Pattern generators (pattern.go) precompute index sequences
	for sequential, random and stride traversals of a memory
	region. Sequences are computed before any timing starts so
	that generation cost never pollutes a measurement.

	2. Access runners (access.go, concurrent.go) execute timed
	read or read-modify-write passes over a region using
	precomputed indices, single-threaded or with one worker per
	disjoint region chunk.

	3. Page placement primitives (move_linux.go, locator.go,
	migrator.go) query and force the NUMA node backing the pages
	of a region through batched move_pages(2) requests.

	The migration observer (observer.go)

	The observer manufactures a worst-case placement mismatch by
	forcing all pages of a region onto the remote node, then
	interleaves timed random access bursts with untimed pauses and
	node distribution sampling. The resulting sample timeline
	shows whether and how fast the kernel's balancer migrates the
	pages back toward the accessing CPU.

	Supporting modules

	1. Region (region.go) owns the measured memory.
	2. Clock (clock.go) provides monotonic microsecond timestamps.
	3. Stats (stats.go) accumulates page move and burst statistics.
	4. Config (config.go) carries the experiment parameters.
*/

package numabench

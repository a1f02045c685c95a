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

// Package sysfs discovers the NUMA topology details numabench needs:
// which nodes exist and which node a CPU belongs to.
package sysfs

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	// SysfsRootPath is the mount path of sysfs.
	SysfsRootPath = "/sys"
	// sysfs devices/cpu subdirectory path
	sysfsCpuPath = "devices/system/cpu"
	// sysfs device/node subdirectory path
	sysfsNumaNodePath = "devices/system/node"
)

// System holds the discovered NUMA topology.
type System struct {
	path  string // sysfs mount point
	nodes []int  // NUMA node ids, sorted
}

// DiscoverSystem discovers NUMA nodes from the default sysfs mount.
func DiscoverSystem() (*System, error) {
	return DiscoverSystemAt(SysfsRootPath)
}

// DiscoverSystemAt discovers NUMA nodes from the given sysfs mount
// point. Separate from DiscoverSystem so tests can run against a
// fake sysfs tree.
func DiscoverSystemAt(path string) (*System, error) {
	sys := &System{path: path}
	entries, err := filepath.Glob(filepath.Join(path, sysfsNumaNodePath, "node[0-9]*"))
	if err != nil {
		return nil, sysfsError(path, "failed to list NUMA nodes: %v", err)
	}
	var errs *multierror.Error
	for _, entry := range entries {
		id := getEnumeratedID(filepath.Base(entry))
		if id < 0 {
			errs = multierror.Append(errs, sysfsError(entry, "failed to parse node id"))
			continue
		}
		sys.nodes = append(sys.nodes, id)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	sort.Ints(sys.nodes)
	return sys, nil
}

// NodeIDs returns the ids of all NUMA nodes in the system.
func (sys *System) NodeIDs() []int {
	return sys.nodes
}

// NodeCount returns the number of NUMA nodes in the system.
func (sys *System) NodeCount() int {
	return len(sys.nodes)
}

// NodeForCPU resolves the NUMA node a CPU belongs to.
func (sys *System) NodeForCPU(cpu int) (int, error) {
	path := filepath.Join(sys.path, sysfsCpuPath, fmt.Sprintf("cpu%d", cpu))
	node, err := filepath.Glob(filepath.Join(path, "node[0-9]*"))
	if err != nil || len(node) != 1 {
		return -1, sysfsError(path, "failed to resolve node of CPU %d", cpu)
	}
	id := getEnumeratedID(filepath.Base(node[0]))
	if id < 0 {
		return -1, sysfsError(node[0], "failed to parse node id")
	}
	return id, nil
}

// Get the trailing enumeration part of a name.
func getEnumeratedID(name string) int {
	id := 0
	base := 1
	for idx := len(name) - 1; idx > 0; idx-- {
		d := name[idx]

		if '0' <= d && d <= '9' {
			id += base * (int(d) - '0')
			base *= 10
		} else {
			if base > 1 {
				return id
			}

			return -1
		}
	}

	return -1
}

// sysfsError returns a formatted error prefixed with a sysfs path.
func sysfsError(path string, format string, args ...interface{}) error {
	return errors.Errorf("sysfs: %s: %s", path, fmt.Sprintf(format, args...))
}

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
	"unsafe"

	"github.com/pkg/errors"
)

// regionElemSize is the width of one region element in bytes.
const regionElemSize = 8

// Region is a contiguous heap-owned array of int64 elements whose
// placement on NUMA nodes is measured and manipulated. The region is
// owned by the test driver for its whole lifetime.
type Region struct {
	data []int64
}

// NewRegion allocates a region of sizeMB mebibytes.
func NewRegion(sizeMB int) (*Region, error) {
	if sizeMB <= 0 {
		return nil, errors.Errorf("invalid region size %d MB, expected > 0", sizeMB)
	}
	elemCount := sizeMB * MB / regionElemSize
	return &Region{data: make([]int64, elemCount)}, nil
}

// newRegionElems allocates a region with an exact element count.
func newRegionElems(elemCount int) (*Region, error) {
	if elemCount <= 0 {
		return nil, errors.Errorf("invalid region element count %d, expected > 0", elemCount)
	}
	return &Region{data: make([]int64, elemCount)}, nil
}

// Init writes every element so that all pages of the region are
// faulted in before any placement query or measurement.
func (r *Region) Init() {
	for i := range r.data {
		r.data[i] = int64(i % 100)
	}
}

// Len returns the element count.
func (r *Region) Len() int {
	return len(r.data)
}

// SizeBytes returns the region size in bytes.
func (r *Region) SizeBytes() uint64 {
	return uint64(len(r.data)) * regionElemSize
}

// PageCount returns the number of pages the region spans, the last
// partial page included.
func (r *Region) PageCount() int {
	return int((r.SizeBytes() + constUPagesize - 1) / constUPagesize)
}

func (r *Region) baseAddr() uintptr {
	return uintptr(unsafe.Pointer(&r.data[0]))
}

// PageAddrs returns one address per page of the region, each
// constPagesize bytes apart from the region base.
func (r *Region) PageAddrs() []uintptr {
	base := r.baseAddr()
	addrs := make([]uintptr, r.PageCount())
	for i := range addrs {
		addrs[i] = base + uintptr(i)*uintptr(constPagesize)
	}
	return addrs
}

// SampleAddrs returns addresses of count elements spread evenly
// across the region, for node distribution sampling. If count exceeds
// the element count, one address per element is returned.
func (r *Region) SampleAddrs(count int) []uintptr {
	if count > len(r.data) {
		count = len(r.data)
	}
	if count < 1 {
		count = 1
	}
	step := len(r.data) / count
	base := r.baseAddr()
	addrs := make([]uintptr, count)
	for i := 0; i < count; i++ {
		addrs[i] = base + uintptr(step*i)*regionElemSize
	}
	return addrs
}

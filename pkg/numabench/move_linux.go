//go:build linux
// +build linux

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
	"golang.org/x/sys/unix"
)

func movePagesSyscall(pid int, count uint, pages []uintptr, nodes []int, flags int) (uint, []int, error) {

	// syscall:
	// long move_pages(int pid, unsigned long count, void **pages,
	//                 const int *nodes, int *status, int flags);

	var err error

	if count == 0 {
		return 0, []int{}, nil
	}

	// The kernel takes C ints. Go int is 64 bits on a 64-bit
	// system, so marshal through int32 with a range check.
	nodesPtr := unsafe.Pointer(nil)
	if nodes != nil {
		cNodes := make([]int32, len(nodes))
		for i := 0; i < len(nodes); i++ {
			if nodes[i] < 0 || nodes[i] > 32767 {
				return 0, []int{}, errors.Errorf("int value error: %d", nodes[i])
			}
			cNodes[i] = int32(nodes[i]) // safe downcast
		}
		nodesPtr = unsafe.Pointer(&cNodes[0])
	}

	cStatus := make([]int32, count)

	ret, _, en := unix.Syscall6(unix.SYS_MOVE_PAGES, uintptr(pid), uintptr(count), uintptr(unsafe.Pointer(&pages[0])), uintptr(nodesPtr), uintptr(unsafe.Pointer(&cStatus[0])), uintptr(flags))
	if en != 0 {
		err = unix.Errno(en)
	}

	status := make([]int, count)
	for i := uint(0); i < count; i++ {
		status[i] = int(cStatus[i])
	}

	return uint(ret), status, err
}

// getcpuSyscall calls getcpu(2) directly and returns the CPU the
// calling thread runs on and the NUMA node that CPU belongs to. The
// pinned x/sys revision has no unix.Getcpu wrapper.
func getcpuSyscall() (int, int, error) {
	var cpu, node uint32
	_, _, en := unix.Syscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), uintptr(unsafe.Pointer(&node)), 0)
	if en != 0 {
		return -1, -1, unix.Errno(en)
	}
	return int(cpu), int(node), nil
}

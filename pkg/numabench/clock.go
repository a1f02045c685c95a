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
)

// Clock provides monotonic timestamps with microsecond resolution.
// Timestamps are offsets from the clock's creation, so they are
// comparable only within one Clock instance. Reading the clock goes
// through the vDSO on Linux, it does not enter the kernel.
type Clock struct {
	start time.Time
}

func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// NowUSec returns microseconds elapsed since the clock was created.
func (c *Clock) NowUSec() int64 {
	return time.Since(c.start).Microseconds()
}

// Since returns the duration elapsed since a timestamp previously
// obtained from NowUSec.
func (c *Clock) Since(usec int64) time.Duration {
	return time.Duration(c.NowUSec()-usec) * time.Microsecond
}

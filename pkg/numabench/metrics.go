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
	"github.com/prometheus/client_golang/prometheus"
)

var (
	moveCallsDesc = prometheus.NewDesc(
		"numabench_move_pages_calls_total",
		"Number of batched move_pages requests issued.",
		nil, nil,
	)

	movedPagesDesc = prometheus.NewDesc(
		"numabench_pages_total",
		"Pages by final placement after forced moves.",
		[]string{
			"placement",
		}, nil,
	)

	requestedPagesDesc = prometheus.NewDesc(
		"numabench_requested_pages_total",
		"Pages requested to move in batched move_pages requests.",
		nil, nil,
	)

	burstsDesc = prometheus.NewDesc(
		"numabench_access_bursts_total",
		"Timed access bursts executed by the migration observer.",
		nil, nil,
	)

	burstSecondsDesc = prometheus.NewDesc(
		"numabench_access_burst_seconds_total",
		"Time accumulated inside timed access bursts.",
		nil, nil,
	)
)

type collector struct {
	stats *Stats
}

// NewCollector creates a Prometheus collector exposing the engine's
// accumulated statistics.
func NewCollector() prometheus.Collector {
	return &collector{stats: GetStats()}
}

// Describe implements prometheus.Collector interface.
func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- moveCallsDesc
	ch <- movedPagesDesc
	ch <- requestedPagesDesc
	ch <- burstsDesc
	ch <- burstSecondsDesc
}

// Collect implements prometheus.Collector interface.
func (c *collector) Collect(ch chan<- prometheus.Metric) {
	reqPages, destPages, otherPages, errorPages := c.stats.MovedPages()
	ch <- prometheus.MustNewConstMetric(
		moveCallsDesc,
		prometheus.CounterValue,
		float64(c.stats.MoveCalls()),
	)
	ch <- prometheus.MustNewConstMetric(
		requestedPagesDesc,
		prometheus.CounterValue,
		float64(reqPages),
	)
	ch <- prometheus.MustNewConstMetric(
		movedPagesDesc,
		prometheus.CounterValue,
		float64(destPages),
		"destination",
	)
	ch <- prometheus.MustNewConstMetric(
		movedPagesDesc,
		prometheus.CounterValue,
		float64(otherPages),
		"other",
	)
	ch <- prometheus.MustNewConstMetric(
		movedPagesDesc,
		prometheus.CounterValue,
		float64(errorPages),
		"error",
	)
	bursts, burstTime := c.stats.Bursts()
	ch <- prometheus.MustNewConstMetric(
		burstsDesc,
		prometheus.CounterValue,
		float64(bursts),
	)
	ch <- prometheus.MustNewConstMetric(
		burstSecondsDesc,
		prometheus.CounterValue,
		burstTime.Seconds(),
	)
}

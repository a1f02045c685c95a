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

package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/numa-tools/numabench/pkg/numabench"
	"github.com/numa-tools/numabench/pkg/sysfs"
)

func exit(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, fmt.Sprintf("numabench: "+format+"\n", a...))
	os.Exit(1)
}

func serveMetrics(address string) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(numabench.NewCollector())
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(address, nil); err != nil {
			fmt.Fprintf(os.Stderr, "numabench: metrics listener on %q failed: %v\n", address, err)
		}
	}()
}

func runPattern(region *numabench.Region, config *numabench.Config, pattern numabench.Pattern) {
	switch pattern {
	case numabench.PatternStride:
		fmt.Printf("=== Stride Access Pattern (stride=%d) ===\n", config.Stride)
	case numabench.PatternRandom:
		fmt.Printf("=== Random Access Pattern ===\n")
	default:
		fmt.Printf("=== Sequential Access Pattern ===\n")
	}

	gen := numabench.NewPatternGenerator(config.Seed)
	runner := numabench.NewAccessRunner(region)

	warmup, err := gen.Warmup(region.Len(), config.WarmupAccesses)
	if err != nil {
		exit("generating warmup indices: %v", err)
	}
	warmupSum := runner.Warmup(warmup)

	var indices []int
	switch pattern {
	case numabench.PatternRandom:
		indices, err = gen.Random(region.Len(), config.PatternAccesses)
	case numabench.PatternStride:
		indices, err = gen.Stride(region.Len(), config.PatternAccesses, config.Stride)
	default:
		indices, err = gen.Sequential(region.Len(), config.PatternAccesses)
	}
	if err != nil {
		exit("generating %s indices: %v", pattern, err)
	}

	result := runner.Run(indices, false)
	fmt.Printf("Throughput: %.2f MB/s (%d accesses)\n", result.ThroughputMBps, result.Accesses)
	fmt.Printf("Average latency: %.2f ns per access\n", result.AvgLatencyNs)
	fmt.Printf("Time: %.3f seconds\n", result.Elapsed.Seconds())
	fmt.Printf("Sum (prevent optimization): %d\n", warmupSum+result.Checksum)
}

func runThreads(region *numabench.Region, threads int) {
	fmt.Printf("=== Multi-threaded Test (%d threads) ===\n", threads)
	runner := numabench.NewConcurrentAccessRunner(region)
	result, err := runner.Run(threads)
	if err != nil {
		exit("multi-threaded run failed: %v", err)
	}
	for _, w := range result.Workers {
		fmt.Printf("Thread %d: sum=%d, time=%.3fs\n", w.Worker, w.Result.Checksum, w.Result.Elapsed.Seconds())
	}
	fmt.Printf("Total parallel time: %.3f seconds\n", result.WallTime.Seconds())
	fmt.Printf("Elements covered: %d of %d\n", result.ElementsCovered, region.Len())
}

func runMigrate(region *numabench.Region, config *numabench.Config, sys *sysfs.System) {
	fmt.Printf("=== Page Migration Test ===\n")
	observer := numabench.NewMigrationObserver(region, config)
	observer.SetNodeResolver(sys.NodeForCPU)

	fmt.Printf("Iteration, IterTime(s), Node0%%, Node1%%, Status\n")
	summary, err := observer.Run(func(s numabench.Sample) {
		fmt.Println(s.CSVRow())
	})
	if err != nil {
		exit("migration test failed: %v", err)
	}

	fmt.Printf("Initial distribution: %s\n", summary.Baseline)
	fmt.Printf("Final distribution: %s\n", summary.Final)
	migrated := "NO"
	if summary.Migrated {
		migrated = "YES"
	}
	fmt.Printf("Migration occurred: %s\n", migrated)
	fmt.Printf("\n=== Performance Summary ===\n")
	fmt.Printf("Pure access time: %.3f seconds\n", summary.BurstTime.Seconds())
	fmt.Printf("Total wall time (includes pauses): %.3f seconds\n", summary.WallTime.Seconds())
	fmt.Printf("Overhead (sampling + sleeping): %.3f seconds\n", summary.Overhead().Seconds())
	fmt.Printf(numabench.GetStats().Dump() + "\n")
}

func main() {
	optSizeMB := flag.Int("size-mb", 0, "-size-mb=SIZE region size in MB, required")
	optTest := flag.String("test", "sequential", "-test=<sequential|random|stride|threads|migrate>")
	optThreads := flag.Int("threads", 4, "-threads=COUNT workers for the threads test")
	optConfig := flag.String("config", "", "-config=FILE experiment parameters (YAML or JSON)")
	optMetrics := flag.String("metrics-address", "", "-metrics-address=ADDR serve Prometheus metrics")
	optDebug := flag.Bool("debug", false, "-debug enables debug logging")

	flag.Parse()

	numabench.SetLogger(stdlog.New(os.Stderr, "", 0))
	numabench.SetLogDebug(*optDebug)

	if *optSizeMB <= 0 {
		exit("missing -size-mb=SIZE")
	}

	config := numabench.DefaultConfig()
	if *optConfig != "" {
		var err error
		config, err = numabench.LoadConfigFile(*optConfig)
		if err != nil {
			exit("%v", err)
		}
	}

	sys, err := sysfs.DiscoverSystem()
	if err != nil {
		exit("NUMA not available: %v", err)
	}
	if sys.NodeCount() < 2 {
		exit("NUMA not available: found %d node(s), need at least 2", sys.NodeCount())
	}

	if *optMetrics != "" {
		serveMetrics(*optMetrics)
	}

	region, err := numabench.NewRegion(*optSizeMB)
	if err != nil {
		exit("memory allocation failed: %v", err)
	}
	fmt.Printf("Allocating %d MB (%d elements)...\n", *optSizeMB, region.Len())
	fmt.Printf("Initializing array...\n")
	region.Init()
	fmt.Printf("Initialization complete.\n\n")

	switch *optTest {
	case "random":
		runPattern(region, config, numabench.PatternRandom)
	case "stride":
		runPattern(region, config, numabench.PatternStride)
	case "threads":
		runThreads(region, *optThreads)
	case "migrate":
		runMigrate(region, config, sys)
	case "sequential":
		runPattern(region, config, numabench.PatternSequential)
	default:
		// Unrecognized test types fall back to sequential.
		runPattern(region, config, numabench.PatternSequential)
	}

	fmt.Printf("\nTest completed successfully\n")
}

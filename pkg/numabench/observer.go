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

	"github.com/pkg/errors"
)

// MigrationObserver runs the full page migration experiment: it
// manufactures a worst-case placement mismatch by forcing all pages
// of the region onto the remote node, then interleaves timed random
// read-modify-write bursts with untimed pauses and node distribution
// sampling. The kernel's balancer is an uncontrolled background
// actor: coordination with it is best-effort polling with a fixed
// settle time, never a synchronization primitive.
type MigrationObserver struct {
	region   *Region
	config   *Config
	clock    *Clock
	locator  NodeLocator
	migrator *PageMigrator
	gen      *PatternGenerator
	resolve  NodeResolver
}

// NodeResolver resolves the NUMA node a CPU belongs to. The observer
// falls back to it when getcpu(2) reports a node outside the
// two-node model, typically sysfs.System.NodeForCPU.
type NodeResolver func(cpu int) (int, error)

// MigrationSummary reports one observer run. BurstTime accumulates
// only the timed access loops; WallTime spans the whole iteration
// loop, so WallTime-BurstTime is the sampling and pause overhead.
type MigrationSummary struct {
	LocalNode  Node
	RemoteNode Node
	Outcome    MigrationOutcome
	Baseline   NodeDistribution
	Final      NodeDistribution
	Timeline   []Sample
	Migrated   bool
	BurstTime  time.Duration
	WallTime   time.Duration
}

// Overhead is the time the loop spent outside timed bursts.
func (s *MigrationSummary) Overhead() time.Duration {
	return s.WallTime - s.BurstTime
}

func NewMigrationObserver(region *Region, config *Config) *MigrationObserver {
	return &MigrationObserver{
		region:   region,
		config:   config,
		clock:    NewClock(),
		locator:  NodeLocator{},
		migrator: NewPageMigrator(config.Settle()),
		gen:      NewPatternGenerator(config.Seed),
	}
}

// SetNodeResolver installs the CPU to node fallback resolver.
func (o *MigrationObserver) SetNodeResolver(resolve NodeResolver) {
	o.resolve = resolve
}

// localNodeOf validates the node getcpu reported for a CPU, falling
// back to the resolver when the node is outside the two-node model.
func localNodeOf(cpu, nodeID int, resolve NodeResolver) (Node, error) {
	local := Node(nodeID)
	if local >= 0 && local < numNodes {
		return local, nil
	}
	if resolve == nil {
		return NodeUnknown, errors.Errorf("local node %d outside the two-node model", nodeID)
	}
	resolved, err := resolve(cpu)
	if err != nil {
		return NodeUnknown, errors.Wrapf(err, "resolving node of CPU %d", cpu)
	}
	if resolved < 0 || resolved >= numNodes {
		return NodeUnknown, errors.Errorf("node %d of CPU %d outside the two-node model", resolved, cpu)
	}
	log.Warnf("getcpu reported node %d for CPU %d, using sysfs node %d instead", nodeID, cpu, resolved)
	return Node(resolved), nil
}

// Run executes the experiment and returns its summary. emit, if not
// nil, is called once per iteration with the produced sample, in
// iteration order.
func (o *MigrationObserver) Run(emit func(Sample)) (*MigrationSummary, error) {
	cpu, nodeID, err := getcpuSyscall()
	if err != nil {
		return nil, errors.Wrap(err, "resolving local NUMA node")
	}
	local, err := localNodeOf(cpu, nodeID, o.resolve)
	if err != nil {
		return nil, err
	}
	remote := Node(1) - local
	log.Infof("running on CPU %d (node %d), forcing pages to remote node %d", cpu, local, remote)

	outcome, err := o.migrator.ForceToNode(o.region, remote)
	if err != nil {
		return nil, err
	}

	sampleAddrs := o.region.SampleAddrs(o.config.SampleCount(o.region.Len()))
	log.Infof("sampling %d pages per distribution check", len(sampleAddrs))
	baseline, err := o.sampleDistribution(sampleAddrs)
	if err != nil {
		return nil, err
	}
	log.Infof("initial distribution: %s", baseline)

	runner := NewAccessRunner(o.region)
	timeline := make([]Sample, 0, o.config.Iterations)
	burstTotal := time.Duration(0)
	wallStart := o.clock.NowUSec()
	for iter := 0; iter < o.config.Iterations; iter++ {
		// Index generation stays outside the timed burst.
		indices, err := o.gen.Random(o.region.Len(), o.config.BurstAccesses)
		if err != nil {
			return nil, err
		}
		burst := runner.Run(indices, true)
		burstTotal += burst.Elapsed
		stats.Store(StatsBurst{accesses: burst.Accesses, duration: burst.Elapsed})

		// Untimed: let the balancing scanner observe locality.
		time.Sleep(o.config.Pause())

		dist, err := o.sampleDistribution(sampleAddrs)
		if err != nil {
			return nil, err
		}
		sample := Sample{
			Iteration: iter,
			BurstTime: burst.Elapsed,
			Dist:      dist,
			Status:    classifyStatus(dist.Percent(local)),
		}
		timeline = append(timeline, sample)
		if emit != nil {
			emit(sample)
		}
	}
	wallTime := o.clock.Since(wallStart)

	final, err := o.sampleDistribution(sampleAddrs)
	if err != nil {
		return nil, err
	}
	log.Infof("final distribution: %s", final)

	return &MigrationSummary{
		LocalNode:  local,
		RemoteNode: remote,
		Outcome:    outcome,
		Baseline:   baseline,
		Final:      final,
		Timeline:   timeline,
		Migrated:   baseline.Changed(final),
		BurstTime:  burstTotal,
		WallTime:   wallTime,
	}, nil
}

func (o *MigrationObserver) sampleDistribution(addrs []uintptr) (NodeDistribution, error) {
	nodes, err := o.locator.NodesOf(addrs)
	if err != nil {
		return NodeDistribution{}, errors.Wrap(err, "sampling node distribution")
	}
	return newNodeDistribution(nodes), nil
}

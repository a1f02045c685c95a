package numabench

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stats accumulates engine-wide counters: page move requests, access
// bursts and heartbeat events. One instance per process, concurrent
// Store calls are serialized with a mutex.
type Stats struct {
	mutex         sync.Mutex
	namePulse     map[string]*StatsPulse
	sumMoveCalls  uint64
	sumReqPages   uint64
	sumDestPages  uint64
	sumOtherPages uint64
	sumErrorPages uint64
	sumBursts     uint64
	sumBurstTime  time.Duration
	lastMove      StatsMoved
}

type StatsPulse struct {
	sumBeats   uint64
	firstBeat  int64
	latestBeat int64
}

type StatsHeartbeat struct {
	name string
}

type StatsMoved struct {
	sysRet         uint
	destNode       int
	reqCount       int
	destNodeCount  int
	otherNodeCount int
	errorCounts    map[int]int
}

type StatsBurst struct {
	accesses int
	duration time.Duration
}

var stats *Stats = newStats()

func newStats() *Stats {
	return &Stats{
		namePulse: make(map[string]*StatsPulse),
	}
}

func GetStats() *Stats {
	return stats
}

func (s *Stats) Store(entry interface{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	switch v := entry.(type) {
	case StatsHeartbeat:
		pulse, ok := s.namePulse[v.name]
		if !ok {
			pulse = &StatsPulse{firstBeat: time.Now().UnixNano()}
			s.namePulse[v.name] = pulse
		}
		pulse.sumBeats += 1
		pulse.latestBeat = time.Now().UnixNano()
	case StatsMoved:
		s.sumMoveCalls += 1
		s.sumReqPages += uint64(v.reqCount)
		s.sumDestPages += uint64(v.destNodeCount)
		s.sumOtherPages += uint64(v.otherNodeCount)
		for _, cnt := range v.errorCounts {
			s.sumErrorPages += uint64(cnt)
		}
		s.lastMove = v
	case StatsBurst:
		s.sumBursts += 1
		s.sumBurstTime += v.duration
	}
}

// MovedPages returns accumulated page counts over all recorded
// moves, by final placement.
func (s *Stats) MovedPages() (reqPages, destPages, otherPages, errorPages uint64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sumReqPages, s.sumDestPages, s.sumOtherPages, s.sumErrorPages
}

// LastMove returns the most recently recorded page move.
func (s *Stats) LastMove() StatsMoved {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.lastMove
}

func (s *Stats) MoveCalls() uint64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sumMoveCalls
}

func (s *Stats) Bursts() (uint64, time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sumBursts, s.sumBurstTime
}

func (s *Stats) Dump() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	lines := []string{
		fmt.Sprintf("move_pages calls: %d", s.sumMoveCalls),
		fmt.Sprintf("pages requested: %d", s.sumReqPages),
		fmt.Sprintf("pages on destination node: %d", s.sumDestPages),
		fmt.Sprintf("pages on other nodes: %d", s.sumOtherPages),
		fmt.Sprintf("pages with status errors: %d", s.sumErrorPages),
		fmt.Sprintf("access bursts: %d", s.sumBursts),
		fmt.Sprintf("access burst time: %s", s.sumBurstTime),
	}
	names := make([]string, 0, len(s.namePulse))
	for name := range s.namePulse {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("heartbeat %q: %d", name, s.namePulse[name].sumBeats))
	}
	return strings.Join(lines, "\n")
}

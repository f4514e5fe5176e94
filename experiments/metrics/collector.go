package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration     time.Duration
	Rollouts     int
	Cutoff       int
	FullPlayouts int
	Cutoffs      int
	Nodes        int
	IsTreeReset  bool
}

type MoveMetric struct {
	Step   int
	Player int // 0 for alpha, 1 for beta
	Atomic string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalAtomics   int
	TotalPlies     int
	HitTurnLimit   bool
}

type Collector interface {
	Start(cutoff int)
	SetTreeReset(value bool)
	AddRollout()
	AddFullPlayout()
	AddCutoff()
	Complete(nodes int) SearchMetric
}

type collector struct {
	cutoff       int
	startTime    time.Time
	rollouts     atomic.Int32
	fullPlayouts atomic.Int32
	cutoffs      atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) Start(cutoff int) {
	m.startTime = time.Now()
	m.cutoff = cutoff
	m.rollouts.Store(0)
	m.fullPlayouts.Store(0)
	m.cutoffs.Store(0)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete(nodes int) SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Rollouts:     int(m.rollouts.Load()),
		Cutoff:       m.cutoff,
		FullPlayouts: int(m.fullPlayouts.Load()),
		Cutoffs:      int(m.cutoffs.Load()),
		Nodes:        nodes,
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(cutoff int)                {}
func (m *dummyCollector) SetTreeReset(value bool)         {}
func (m *dummyCollector) AddRollout()                     {}
func (m *dummyCollector) AddFullPlayout()                 {}
func (m *dummyCollector) AddCutoff()                      {}
func (m *dummyCollector) Complete(nodes int) SearchMetric { return SearchMetric{} }

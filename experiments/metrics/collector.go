package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Engine      string
	Duration    time.Duration
	Nodes       int // Positions visited by minimax and alpha-beta
	Simulations int // Playouts run by the UCB1 search
}

type MoveMetric struct {
	Step   int
	Player string
	Action int
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Outcome        string
	Winner         string // "" on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers the counters of a single search invocation. A fresh
// collector is started for every top-level search.
type Collector interface {
	Start(engine string)
	AddNode()
	AddSimulation()
	Complete() SearchMetric
}

type collector struct {
	engine      string
	startTime   time.Time
	nodes       atomic.Int64
	simulations atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(engine string) {
	m.engine = engine
	m.startTime = time.Now()
	m.nodes.Store(0)
	m.simulations.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddSimulation() {
	m.simulations.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Engine:      m.engine,
		Duration:    time.Since(m.startTime),
		Nodes:       int(m.nodes.Load()),
		Simulations: int(m.simulations.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(engine string)    {}
func (m *dummyCollector) AddNode()               {}
func (m *dummyCollector) AddSimulation()         {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }

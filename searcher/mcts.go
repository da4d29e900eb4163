package searcher

import (
	"context"
	"math"

	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

type Option func(mcts *MCTS)

// ActionStats are the UCB1 statistics of one root action. Score is +Inf until
// the action has been visited.
type ActionStats struct {
	Action  game.Action
	Rewards float64
	Visits  int
	Score   float64
}

// Mean is the average playout utility, 0 before the first visit.
func (s ActionStats) Mean() float64 {
	if s.Visits == 0 {
		return 0
	}
	return s.Rewards / float64(s.Visits)
}

type MCTSResult struct {
	Action game.Action
	Stats  []ActionStats // In legal action order
	Metric metrics.SearchMetric
}

// MCTS is a depth-1 Monte Carlo search: root actions are chosen by UCB1 and
// evaluated with uniformly random playouts. Every call owns its statistics and
// its random source.
type MCTS struct {
	cSquared float64
	seed     func() uint64
	metrics  func() metrics.Collector
}

// WithExploration sets the exploration constant C of the UCB1 formula.
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.cSquared = c * c
		}
	}
}

// WithSeed makes every search replay the same playouts.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = func() uint64 { return seed }
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		cSquared: CSquared,
		seed:     func() uint64 { return frand.Uint64n(math.MaxUint64) },
		metrics:  metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *MCTS) Name() string {
	return "ucb1"
}

// Search runs budget playouts from board with player to move and returns the
// most visited root action.
func (m *MCTS) Search(ctx context.Context, board game.Board, player game.Player, budget int) (MCTSResult, error) {
	if budget <= 0 {
		return MCTSResult{Action: game.NoAction}, errors.Wrapf(ErrInvalidBudget, "got %d", budget)
	}
	if err := checkSearchable(board, player); err != nil {
		return MCTSResult{Action: game.NoAction}, err
	}

	c := m.metrics()
	c.Start(m.Name())
	rng := rand.New(rand.NewSource(m.seed()))

	actions := board.LegalActions()
	stats := make([]ActionStats, len(actions))
	for i, action := range actions {
		stats[i] = ActionStats{Action: action, Score: math.Inf(1)}
	}

	total := 0
	for i := 0; i < budget; i++ {
		if err := cancelled(ctx); err != nil {
			return MCTSResult{Action: game.NoAction, Stats: stats, Metric: c.Complete()}, err
		}

		ith := selectAction(stats)
		utility, err := rollout(board, player, stats[ith].Action, rng)
		if err != nil {
			return MCTSResult{Action: game.NoAction, Stats: stats, Metric: c.Complete()}, err
		}
		c.AddSimulation()

		total++
		stats[ith].Rewards += utility
		stats[ith].Visits++
		m.rescore(stats, total)
	}

	best := mostVisited(stats)
	metric := c.Complete()
	log.Debug().
		Str("engine", m.Name()).
		Str("board", board.String()).
		Int("action", int(stats[best].Action)).
		Int("visits", stats[best].Visits).
		Float64("mean", stats[best].Mean()).
		Int("budget", budget).
		Msg("search complete")
	return MCTSResult{Action: stats[best].Action, Stats: stats, Metric: metric}, nil
}

// rescore recomputes UCB1 = mean + C*sqrt(ln(total)/visits) for every visited
// action. total already counts the playout just completed, so it is never 0;
// unvisited actions keep their +Inf score.
func (m *MCTS) rescore(stats []ActionStats, total int) {
	if total <= 0 {
		panic("cannot compute UCB1: 0 simulations")
	}
	lnN := math.Log(float64(total))
	for i := range stats {
		if n := float64(stats[i].Visits); n > 0 {
			stats[i].Score = stats[i].Mean() + math.Sqrt(m.cSquared*lnN/n)
		}
	}
}

// selectAction returns the index of the highest score, the first one on ties.
func selectAction(stats []ActionStats) int {
	maxIndex := 0
	maxScore := math.Inf(-1)
	for i, s := range stats {
		if s.Score > maxScore {
			maxScore = s.Score
			maxIndex = i
		}
	}
	return maxIndex
}

func mostVisited(stats []ActionStats) int {
	bestIndex := 0
	for i, s := range stats {
		if s.Visits > stats[bestIndex].Visits {
			bestIndex = i
		}
	}
	return bestIndex
}

// rollout plays action for player, then random moves for both sides until the
// game ends, and scores the final board for player.
func rollout(board game.Board, player game.Player, action game.Action, rng *rand.Rand) (float64, error) {
	state, err := board.Apply(player, action)
	if err != nil {
		return 0, err
	}
	mover := player.Other()
	for {
		if utility, ok := state.Utility(player); ok {
			return utility, nil
		}
		moves := state.LegalActions()
		move := moves[rng.Intn(len(moves))] // Random rollout policy
		if state, err = state.Apply(mover, move); err != nil {
			return 0, err
		}
		mover = mover.Other()
	}
}

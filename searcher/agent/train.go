package agent

import (
	"context"
	"math"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	mcts        *searcher.MCTS
	budget      int
	temperature float64
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that samples actions in proportion to their
// UCB1 visit counts, sharpened or flattened by temperature. It varies the games
// played between otherwise deterministic opponents. Not safe for concurrent use.
func NewSamplingAgent(mcts *searcher.MCTS, budget int, temperature float64, seed uint64) Agent {
	return &samplingAgent{
		mcts:        mcts,
		budget:      budget,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *samplingAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (game.Action, metrics.SearchMetric, error) {
	if a.temperature <= 0 {
		return game.NoAction, metrics.SearchMetric{}, errors.Errorf("temperature must be positive, got %v", a.temperature)
	}
	result, err := a.mcts.Search(ctx, board, player, a.budget)
	if err != nil {
		return game.NoAction, result.Metric, err
	}
	policy := adjustTemperature(result.Stats, a.temperature)
	return sample(result.Stats, policy, a.rng.Float64()), result.Metric, nil
}

// adjustTemperature maps visit counts to probabilities visits^(1/temperature),
// normalized.
func adjustTemperature(stats []searcher.ActionStats, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]float64, len(stats))
	for i, s := range stats {
		prob := math.Pow(float64(s.Visits), exponent)
		sum += prob
		adjusted[i] = prob
	}
	// Normalize
	for i := range adjusted {
		adjusted[i] /= sum
	}
	return adjusted
}

func sample(stats []searcher.ActionStats, policy []float64, sampled float64) game.Action {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return stats[i].Action
		}
	}
	return stats[len(stats)-1].Action // Fallback in case of rounding errors
}

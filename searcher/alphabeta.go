package searcher

import (
	"context"
	"math"

	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
)

// AlphaBeta proves the same value as Minimax while skipping subtrees that cannot
// change the result. Its node count depends on the action ordering.
type AlphaBeta struct {
	ordering game.Ordering
}

func NewAlphaBeta(ordering game.Ordering) *AlphaBeta {
	return &AlphaBeta{ordering: ordering}
}

func (a *AlphaBeta) Name() string {
	return "alphabeta/" + a.ordering.String()
}

func (a *AlphaBeta) Search(ctx context.Context, board game.Board, player game.Player) (SearchResult, error) {
	if err := checkSearchable(board, player); err != nil {
		return SearchResult{Action: game.NoAction}, err
	}

	c := metrics.NewCollector()
	c.Start(a.Name())
	action, value, err := a.value(ctx, board, player, maximizing, math.Inf(-1), math.Inf(1), c)
	metric := c.Complete()
	if err != nil {
		return SearchResult{Action: game.NoAction, Metric: metric}, err
	}

	log.Debug().
		Str("engine", metric.Engine).
		Str("board", board.String()).
		Int("action", int(action)).
		Float64("value", value).
		Int("nodes", metric.Nodes).
		Dur("duration", metric.Duration).
		Msg("search complete")
	return SearchResult{Action: action, Value: value, Metric: metric}, nil
}

// value is the pruned counterpart of Minimax.value. alpha is the value the
// maximizer is already guaranteed, beta the value the minimizer is already
// guaranteed; both are passed by value so siblings never share them.
func (a *AlphaBeta) value(ctx context.Context, board game.Board, maximizer game.Player, t turn, alpha, beta float64, c metrics.Collector) (game.Action, float64, error) {
	c.AddNode()
	if err := cancelled(ctx); err != nil {
		return game.NoAction, 0, err
	}
	if utility, ok := board.Utility(maximizer); ok {
		return game.NoAction, utility, nil
	}

	mover := t.mover(maximizer)
	bestAction := game.NoAction
	best := t.worst()
	for _, action := range board.Actions(a.ordering) {
		child, err := board.Apply(mover, action)
		if err != nil {
			return game.NoAction, 0, err
		}
		_, v, err := a.value(ctx, child, maximizer, t.next(), alpha, beta, c)
		if err != nil {
			return game.NoAction, 0, err
		}

		if t == maximizing {
			if v > best {
				best = v
				bestAction = action
				alpha = math.Max(alpha, best)
			}
			if best >= beta { // Minimizing parent already has a better reply
				return bestAction, best, nil
			}
		} else {
			if v < best {
				best = v
				bestAction = action
				beta = math.Min(beta, best)
			}
			if best <= alpha { // Maximizing parent already has a better move
				return bestAction, best, nil
			}
		}
	}
	return bestAction, best, nil
}

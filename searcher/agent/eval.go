package agent

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
)

// Prover is implemented by the exhaustive engines, Minimax and AlphaBeta.
type Prover interface {
	Search(ctx context.Context, board game.Board, player game.Player) (searcher.SearchResult, error)
}

type provingAgent struct {
	prover Prover
}

// NewProvingAgent returns an agent that always plays a proven optimal action.
func NewProvingAgent(prover Prover) Agent {
	return provingAgent{prover: prover}
}

func (a provingAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (game.Action, metrics.SearchMetric, error) {
	result, err := a.prover.Search(ctx, board, player)
	return result.Action, result.Metric, err
}

type evaluationAgent struct {
	mcts   *searcher.MCTS
	budget int
}

// NewEvaluationAgent returns an agent playing the most visited action of a UCB1
// search with the given simulation budget.
func NewEvaluationAgent(mcts *searcher.MCTS, budget int) Agent {
	return evaluationAgent{mcts: mcts, budget: budget}
}

func (a evaluationAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (game.Action, metrics.SearchMetric, error) {
	result, err := a.mcts.Search(ctx, board, player, a.budget)
	return result.Action, result.Metric, err
}

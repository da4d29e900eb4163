package agent

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
)

type Agent interface {
	// FindMove returns the action to play for player on board and the metrics of
	// the search that produced it
	FindMove(ctx context.Context, board game.Board, player game.Player) (game.Action, metrics.SearchMetric, error)
}

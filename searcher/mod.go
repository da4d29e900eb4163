package searcher

import (
	"context"
	"math"

	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/pkg/errors"
)

// Hyperparameters for UCB1

const CSquared = 2.0 // Exploration constant C = sqrt(2), squared

var (
	ErrNoLegalAction = errors.New("no legal action: board is terminal")
	ErrInvalidBudget = errors.New("simulation budget must be positive")
	ErrCancelled     = errors.New("search cancelled")
)

// SearchResult is the recommendation of a minimax or alpha-beta search. Value is
// the proven game value from the searching player's perspective.
type SearchResult struct {
	Action game.Action
	Value  float64
	Metric metrics.SearchMetric
}

// turn tags which side moves at a node of the recursion.
type turn int

const (
	maximizing turn = iota
	minimizing
)

func (t turn) next() turn {
	if t == maximizing {
		return minimizing
	}
	return maximizing
}

// mover returns whose mark is placed at a node, given the maximizing player.
func (t turn) mover(maximizer game.Player) game.Player {
	if t == maximizing {
		return maximizer
	}
	return maximizer.Other()
}

// worst is the initial best value of a node before any child is seen.
func (t turn) worst() float64 {
	if t == maximizing {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// improves reports whether value strictly beats best for the side to move, so
// the first-seen action keeps ties.
func (t turn) improves(value, best float64) bool {
	if t == maximizing {
		return value > best
	}
	return value < best
}

func checkSearchable(board game.Board, player game.Player) error {
	if !player.Valid() {
		return errors.Wrapf(game.ErrInvalidPlayer, "player %d", player)
	}
	if outcome := board.Outcome(); outcome.IsTerminal() {
		return errors.Wrapf(ErrNoLegalAction, "board %s is %s", board, outcome)
	}
	return nil
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(ErrCancelled, "%v", err)
	}
	return nil
}

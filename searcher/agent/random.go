package agent

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"
)

type randomAgent struct {
	intn func(n int) int
}

// NewRandomAgent returns a baseline agent playing uniformly random legal actions.
func NewRandomAgent() Agent {
	return randomAgent{intn: frand.Intn}
}

// NewSeededRandomAgent is NewRandomAgent with a reproducible sequence. Not safe
// for concurrent use.
func NewSeededRandomAgent(seed uint64) Agent {
	return randomAgent{intn: rand.New(rand.NewSource(seed)).Intn}
}

func (a randomAgent) FindMove(ctx context.Context, board game.Board, player game.Player) (game.Action, metrics.SearchMetric, error) {
	actions := board.LegalActions()
	if len(actions) == 0 {
		return game.NoAction, metrics.SearchMetric{}, errors.Wrapf(searcher.ErrNoLegalAction, "board %s", board)
	}
	return actions[a.intn(len(actions))], metrics.SearchMetric{Engine: "random"}, nil
}

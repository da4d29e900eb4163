package searcher

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/rs/zerolog/log"
)

// Minimax exhaustively searches the game tree to every terminal board. It keeps
// no state between calls and is safe for concurrent use.
type Minimax struct {
	ordering game.Ordering
}

func NewMinimax(ordering game.Ordering) *Minimax {
	return &Minimax{ordering: ordering}
}

func (m *Minimax) Name() string {
	return "minimax/" + m.ordering.String()
}

// Search returns the action maximizing the value for player, who moves next on
// board. Ties keep the first action in enumeration order.
func (m *Minimax) Search(ctx context.Context, board game.Board, player game.Player) (SearchResult, error) {
	if err := checkSearchable(board, player); err != nil {
		return SearchResult{Action: game.NoAction}, err
	}

	c := metrics.NewCollector()
	c.Start(m.Name())
	action, value, err := m.value(ctx, board, player, maximizing, c)
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

// value evaluates board with the side given by t to move. It plays maxValue when
// t is maximizing and minValue otherwise.
func (m *Minimax) value(ctx context.Context, board game.Board, maximizer game.Player, t turn, c metrics.Collector) (game.Action, float64, error) {
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
	for _, action := range board.Actions(m.ordering) {
		child, err := board.Apply(mover, action)
		if err != nil {
			return game.NoAction, 0, err
		}
		_, v, err := m.value(ctx, child, maximizer, t.next(), c)
		if err != nil {
			return game.NoAction, 0, err
		}
		if t.improves(v, best) {
			best = v
			bestAction = action
		}
	}
	return bestAction, best, nil
}

package engine

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"

	"github.com/pkg/errors"
)

// ErrIllegalAgentMove is returned when an agent answers with an occupied or
// nonexistent cell.
var ErrIllegalAgentMove = errors.New("agent returned an illegal action")

type Engine interface {
	// Run plays a game until it is decided
	Run(ctx context.Context) (outcome game.Outcome, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

package engine

import (
	"context"
	"time"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var _ Engine = (*Local)(nil)

// Local plays both agents in-process, alternating from the side to move on Board.
type Local struct {
	Board  game.Board
	Agents map[game.Player]agent.Agent
}

// LocalEngine plays agentX as X against agentO as O from the empty board.
func LocalEngine(agentX, agentO agent.Agent) *Local {
	return LocalEngineFrom(game.Board{}, agentX, agentO)
}

// LocalEngineFrom starts the game from board; the side to move is inferred
// from the mark counts.
func LocalEngineFrom(board game.Board, agentX, agentO agent.Agent) *Local {
	if agentX == nil || agentO == nil {
		panic("need two agents")
	}
	return &Local{
		Board: board,
		Agents: map[game.Player]agent.Agent{
			game.X: agentX,
			game.O: agentO,
		},
	}
}

// Run executes the game loop until the board is decided.
func (e *Local) Run(ctx context.Context) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	player := e.Board.Turn()
	gameMetric := metrics.GameMetric{
		StartingPlayer: player.String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Debug().Msgf("player %s is starting on %s", player, e.Board)

	step := 1
	for !e.Board.Outcome().IsTerminal() {
		action, searchMetric, err := e.Agents[player].FindMove(ctx, e.Board, player)
		if err != nil {
			return game.Undecided, gameMetric, moveMetrics, errors.Wrapf(err, "step %d: player %s", step, player)
		}
		legal := e.Board.LegalActions()
		if !slices.Contains(legal, action) {
			return game.Undecided, gameMetric, moveMetrics,
				errors.Wrapf(ErrIllegalAgentMove, "step %d: player %s chose %d, legal %v", step, player, action, legal)
		}

		// Legality was checked against LegalActions
		e.Board, _ = e.Board.Apply(player, action)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player.String(),
			Action:       int(action),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("step %d: player %s played %d -> %s", step, player, action, e.Board)

		player = player.Other()
		step++
	}

	outcome := e.Board.Outcome()
	gameMetric.Outcome = outcome.String()
	if winner, ok := outcome.Winner(); ok {
		gameMetric.Winner = winner.String()
	}
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)

	log.Debug().Msgf("game over after %d moves: %s", gameMetric.TotalMoves, outcome)
	return outcome, gameMetric, moveMetrics, nil
}

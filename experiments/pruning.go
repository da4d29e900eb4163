package experiments

import (
	"context"

	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var pruningPositions = []string{
	"_________",
	"____X____",
	"X________",
	"_X_______",
	"XO_OX____",
	"XOX_O____",
}

type prover interface {
	Name() string
	Search(ctx context.Context, board game.Board, player game.Player) (searcher.SearchResult, error)
}

// RunPruningExperiment searches a fixed set of positions with minimax and both
// alpha-beta orderings and stores values and node counts. It fails if alpha-beta
// ever disagrees with minimax on a value.
func RunPruningExperiment(ctx context.Context, dir string) error {
	provers := []prover{
		searcher.NewMinimax(game.NaturalOrder),
		searcher.NewAlphaBeta(game.NaturalOrder),
		searcher.NewAlphaBeta(game.PriorityOrder),
	}

	log.Info().Msg("starting pruning experiment...")

	records := []metrics.SearchRecord{}
	for _, position := range pruningPositions {
		board, err := game.ParseBoard(position)
		if err != nil {
			return err
		}
		player := board.Turn()

		results := make([]searcher.SearchResult, len(provers))
		for i, p := range provers {
			results[i], err = p.Search(ctx, board, player)
			if err != nil {
				return errors.Wrapf(err, "%s on %s", p.Name(), position)
			}
			records = append(records, metrics.SearchRecord{
				Board:        position,
				Player:       player.String(),
				Value:        results[i].Value,
				SearchMetric: results[i].Metric,
			})
		}

		values := lo.Uniq(lo.Map(results, func(r searcher.SearchResult, _ int) float64 { return r.Value }))
		if len(values) != 1 {
			return errors.Errorf("engines disagree on %s: values %v", position, values)
		}
		log.Info().Msgf("position %s (%s to move): value %v, nodes %v", position, player, values[0],
			lo.Map(results, func(r searcher.SearchResult, _ int) int { return r.Metric.Nodes }))
	}

	log.Info().Msg("completed pruning experiment")

	writer, err := metrics.NewWriter(dir, "pruning")
	if err != nil {
		return errors.Wrap(err, "failed to create experiment writer")
	}
	if err := writer.WriteSearchRecords(records); err != nil {
		return err
	}
	log.Info().Msgf("stored search records in %s", writer.Dir())
	return nil
}

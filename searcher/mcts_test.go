package searcher

import (
	"context"
	"math"
	"testing"

	"tictactoe/game"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestMCTSSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("finds the immediate win", func(t *testing.T) {
		board := mustParse(t, "XO_OX____")
		for seed := uint64(1); seed <= 20; seed++ {
			got, err := NewMCTS(WithSeed(seed)).Search(ctx, board, game.X, 1000)

			require.NoError(t, err)
			require.Equal(t, game.Action(8), got.Action, "seed %d", seed)
		}
	})

	t.Run("finds the immediate win with a budget of 100 almost always", func(t *testing.T) {
		// 6 is a forced win too and, enumerated before 8, takes visit ties;
		// about 1.5% of searches at this budget end on it
		board := mustParse(t, "XO_OX____")
		const runs = 500
		misses := 0
		for seed := uint64(1); seed <= runs; seed++ {
			got, err := NewMCTS(WithSeed(seed)).Search(ctx, board, game.X, 100)
			require.NoError(t, err)
			if got.Action != 8 {
				misses++
			}
		}

		require.LessOrEqual(t, misses, runs/20, "At most 5%% of searches should miss the immediate win")
	})

	t.Run("winning action always scores a win", func(t *testing.T) {
		got, err := NewMCTS(WithSeed(7)).Search(ctx, mustParse(t, "XO_OX____"), game.X, 200)

		require.NoError(t, err)
		for _, s := range got.Stats {
			if s.Action == 8 {
				require.Equal(t, game.Win, s.Mean(), "Playing 8 ends the game at once")
			}
		}
	})

	t.Run("more budget never reduces the best action's visits", func(t *testing.T) {
		board := mustParse(t, "XO_OX____")
		visits := func(budget int) int {
			got, err := NewMCTS(WithSeed(3)).Search(ctx, board, game.X, budget)
			require.NoError(t, err)
			for _, s := range got.Stats {
				if s.Action == 8 {
					return s.Visits
				}
			}
			return 0
		}

		previous := 0
		for _, budget := range []int{10, 50, 100, 500, 1000} {
			v := visits(budget)
			require.GreaterOrEqual(t, v, previous, "budget %d", budget)
			previous = v
		}
	})

	t.Run("statistics account for every simulation", func(t *testing.T) {
		board := mustParse(t, "XOX_O____")
		got, err := NewMCTS(WithSeed(11), WithMetrics()).Search(ctx, board, game.X, 300)
		require.NoError(t, err)

		require.Len(t, got.Stats, len(board.LegalActions()))
		total := 0
		for i, s := range got.Stats {
			require.Equal(t, board.LegalActions()[i], s.Action, "Stats should follow legal action order")
			require.GreaterOrEqual(t, s.Visits, 1, "Every action should be tried")
			require.False(t, math.IsInf(s.Score, 1), "Visited actions should have a finite score")
			total += s.Visits
		}
		require.Equal(t, 300, total)
		require.Equal(t, 300, got.Metric.Simulations)
		require.Equal(t, "ucb1", got.Metric.Engine)
	})

	t.Run("tries each action once before exploiting", func(t *testing.T) {
		board := game.Board{}
		got, err := NewMCTS(WithSeed(5)).Search(ctx, board, game.X, 9)
		require.NoError(t, err)

		for _, s := range got.Stats {
			require.Equal(t, 1, s.Visits, "action %d", s.Action)
		}
		require.Equal(t, game.Action(0), got.Action, "Ties on visits should keep the first action")
	})

	t.Run("unvisited actions keep an infinite score", func(t *testing.T) {
		got, err := NewMCTS(WithSeed(5)).Search(ctx, game.Board{}, game.X, 4)
		require.NoError(t, err)

		for i, s := range got.Stats {
			if i < 4 {
				require.Equal(t, 1, s.Visits)
			} else {
				require.Equal(t, 0, s.Visits)
				require.True(t, math.IsInf(s.Score, 1))
			}
		}
	})

	t.Run("same seed replays the same search", func(t *testing.T) {
		board := mustParse(t, "X___O____")
		first, err := NewMCTS(WithSeed(42)).Search(ctx, board, game.X, 500)
		require.NoError(t, err)
		second, err := NewMCTS(WithSeed(42)).Search(ctx, board, game.X, 500)
		require.NoError(t, err)

		require.Equal(t, first.Stats, second.Stats)
		require.Equal(t, first.Action, second.Action)
	})

	t.Run("without exploration scores are plain means", func(t *testing.T) {
		got, err := NewMCTS(WithSeed(1), WithExploration(0)).Search(ctx, mustParse(t, "XO_OX____"), game.X, 100)
		require.NoError(t, err)

		require.Equal(t, 100, sumVisits(got.Stats))
		for _, s := range got.Stats {
			require.InDelta(t, s.Mean(), s.Score, 1e-12, "action %d", s.Action)
		}
	})

	t.Run("rejects a non-positive budget", func(t *testing.T) {
		for _, budget := range []int{0, -1} {
			got, err := NewMCTS().Search(ctx, game.Board{}, game.X, budget)

			require.True(t, errors.Is(err, ErrInvalidBudget))
			require.Equal(t, game.NoAction, got.Action)
		}
	})

	t.Run("rejects a player other than X or O", func(t *testing.T) {
		got, err := NewMCTS().Search(ctx, mustParse(t, "XO_OX____"), game.Player(0), 10)

		require.True(t, errors.Is(err, game.ErrInvalidPlayer))
		require.Equal(t, game.NoAction, got.Action)
	})

	t.Run("rejects a terminal board", func(t *testing.T) {
		_, err := NewMCTS().Search(ctx, mustParse(t, "XXXOO____"), game.O, 10)

		require.True(t, errors.Is(err, ErrNoLegalAction))
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		cancelledCtx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewMCTS().Search(cancelledCtx, game.Board{}, game.X, 10)

		require.True(t, errors.Is(err, ErrCancelled))
	})
}

func TestRescore(t *testing.T) {
	t.Run("computing UCB1 value", func(t *testing.T) {
		stats := []ActionStats{{Action: 0, Rewards: 5, Visits: 10}}
		NewMCTS().rescore(stats, 100)

		expected := 5.0/10 + math.Sqrt2*math.Sqrt(math.Log(100)/10.0)
		require.InDelta(t, expected, stats[0].Score, 0.0001,
			"Should compute mean + C*sqrt(ln(N)/n) with C = sqrt(2)")
	})

	t.Run("first simulation has no exploration bonus", func(t *testing.T) {
		stats := []ActionStats{{Action: 0, Rewards: 1, Visits: 1}}
		NewMCTS().rescore(stats, 1)

		require.Equal(t, 1.0, stats[0].Score, "ln(1) should zero the exploration term")
	})

	t.Run("unvisited actions keep an infinite score", func(t *testing.T) {
		stats := []ActionStats{{Action: 0, Rewards: 1, Visits: 1}, {Action: 1, Score: math.Inf(1)}}
		NewMCTS().rescore(stats, 1)

		require.True(t, math.IsInf(stats[1].Score, 1))
	})

	t.Run("panics with zero total simulations", func(t *testing.T) {
		require.Panics(t, func() {
			NewMCTS().rescore([]ActionStats{{Action: 0}}, 0)
		}, "Should panic when N is 0")
	})

	t.Run("exploration term increases with total simulations", func(t *testing.T) {
		few := []ActionStats{{Rewards: 5, Visits: 10}}
		many := []ActionStats{{Rewards: 5, Visits: 10}}
		NewMCTS().rescore(few, 100)
		NewMCTS().rescore(many, 1000)

		require.Greater(t, many[0].Score, few[0].Score)
	})

	t.Run("exploration term decreases with action visits", func(t *testing.T) {
		stats := []ActionStats{{Rewards: 5, Visits: 10}, {Rewards: 10, Visits: 20}}
		NewMCTS().rescore(stats, 100)

		require.Greater(t, stats[0].Score, stats[1].Score, "Same mean, more visits, smaller bonus")
	})

	t.Run("exploration constant scales the bonus", func(t *testing.T) {
		stats := []ActionStats{{Rewards: 5, Visits: 10}}
		NewMCTS(WithExploration(0)).rescore(stats, 100)

		require.Equal(t, 0.5, stats[0].Score)
	})
}

func TestSelectAction(t *testing.T) {
	t.Run("prefers the first unvisited action", func(t *testing.T) {
		stats := []ActionStats{
			{Action: 0, Visits: 1, Score: 2},
			{Action: 1, Score: math.Inf(1)},
			{Action: 2, Score: math.Inf(1)},
		}
		require.Equal(t, 1, selectAction(stats))
	})

	t.Run("picks the highest score, first on ties", func(t *testing.T) {
		stats := []ActionStats{
			{Action: 0, Visits: 1, Score: 1},
			{Action: 1, Visits: 1, Score: 3},
			{Action: 2, Visits: 1, Score: 3},
		}
		require.Equal(t, 1, selectAction(stats))
	})
}

func TestMostVisited(t *testing.T) {
	stats := []ActionStats{
		{Action: 3, Visits: 2, Rewards: 2},
		{Action: 5, Visits: 4, Rewards: -4},
		{Action: 7, Visits: 4, Rewards: 4},
	}
	require.Equal(t, 1, mostVisited(stats), "Should choose by visits, not by mean")
}

func TestRollout(t *testing.T) {
	t.Run("immediate win needs no random moves", func(t *testing.T) {
		u, err := rollout(mustParse(t, "XO_OX____"), game.X, 8, nil)

		require.NoError(t, err)
		require.Equal(t, game.Win, u)
	})

	t.Run("illegal root action fails", func(t *testing.T) {
		_, err := rollout(mustParse(t, "XO_OX____"), game.X, 0, nil)

		require.True(t, errors.Is(err, game.ErrIllegalMove))
	})
}

func sumVisits(stats []ActionStats) int {
	total := 0
	for _, s := range stats {
		total += s.Visits
	}
	return total
}

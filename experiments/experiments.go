package experiments

import (
	"context"
	"math"
	"runtime"

	"tictactoe/engine"
	"tictactoe/experiments/metrics"
	"tictactoe/game"
	"tictactoe/searcher"
	"tictactoe/searcher/agent"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

const NumGames = 30 // Per match up

var strengthConfigs = []metrics.AgentConfig{
	{ID: 1, Kind: metrics.Minimax, Ordering: "natural"},
	{ID: 2, Kind: metrics.AlphaBeta, Ordering: "priority"},
	{ID: 3, Kind: metrics.UCB1, Simulations: 100},
	{ID: 4, Kind: metrics.UCB1, Simulations: 1000},
	{ID: 5, Kind: metrics.Sampling, Simulations: 1000, Temperature: 1},
}

// RunStrengthExperiment pairs every agent against the random baseline, once
// playing X and once playing O.
func RunStrengthExperiment(ctx context.Context, dir string, games int) error {
	baseline := metrics.AgentConfig{ID: 0, Kind: metrics.Random}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range strengthConfigs {
		matchUps = append(matchUps,
			[]metrics.AgentConfig{config, baseline},
			[]metrics.AgentConfig{baseline, config},
		)
	}

	return runExperiment(ctx, dir, "strength", games, append(strengthConfigs, baseline), matchUps)
}

// RunBudgetExperiment pairs UCB1 agents of growing simulation budgets against a
// proven-optimal alpha-beta agent. No budget can win; stronger budgets draw more.
func RunBudgetExperiment(ctx context.Context, dir string, games int) error {
	optimal := metrics.AgentConfig{ID: 0, Kind: metrics.AlphaBeta, Ordering: "priority"}
	budgetConfigs := []metrics.AgentConfig{
		{ID: 1, Kind: metrics.UCB1, Simulations: 10},
		{ID: 2, Kind: metrics.UCB1, Simulations: 100},
		{ID: 3, Kind: metrics.UCB1, Simulations: 1000},
		{ID: 4, Kind: metrics.UCB1, Simulations: 10000},
	}

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range budgetConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, optimal})
	}

	return runExperiment(ctx, dir, "budget", games, append(budgetConfigs, optimal), matchUps)
}

type gameResult struct {
	outcome     game.Outcome
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
}

func runExperiment(ctx context.Context, dir, name string, games int, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) error {
	if games <= 0 {
		return errors.Errorf("number of games must be positive, got %d", games)
	}
	log.Info().Msgf("starting %s experiment...", name)

	// Games are independent, each one owns its agents
	results := make([][]gameResult, len(matchUps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for mi, matchup := range matchUps {
		results[mi] = make([]gameResult, games)
		for i := 0; i < games; i++ {
			mi, i, matchup := mi, i, matchup
			g.Go(func() error {
				outcome, gameMetric, moveMetrics, err := runGame(gctx, matchup[0], matchup[1])
				if err != nil {
					return errors.Wrapf(err, "matchup %d game %d", mi+1, i+1)
				}
				results[mi][i] = gameResult{outcome: outcome, gameMetric: gameMetric, moveMetrics: moveMetrics}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	for mi, matchup := range matchUps {
		tally := map[game.Outcome]int{}
		for _, result := range results[mi] {
			count++
			tally[result.outcome]++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     matchup[0].ID,
				Agent2:     matchup[1].ID,
				GameMetric: result.gameMetric,
			})
			for _, mm := range result.moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}
		}
		log.Info().Msgf("completed matchup %d of %d between agent1=%+v and agent2=%+v: X wins %d, O wins %d, draws %d",
			mi+1, len(matchUps), matchup[0], matchup[1], tally[game.XWins], tally[game.OWins], tally[game.Draw])
	}

	log.Info().Msgf("completed %s experiment", name)

	// Store experiment metadata and results
	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return errors.Wrap(err, "failed to create experiment writer")
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}

// runGame plays a single game with config1 as X and config2 as O.
func runGame(ctx context.Context, config1, config2 metrics.AgentConfig) (game.Outcome, metrics.GameMetric, []metrics.MoveMetric, error) {
	agentX, err := createAgent(config1)
	if err != nil {
		return game.Undecided, metrics.GameMetric{}, nil, err
	}
	agentO, err := createAgent(config2)
	if err != nil {
		return game.Undecided, metrics.GameMetric{}, nil, err
	}
	return engine.LocalEngine(agentX, agentO).Run(ctx)
}

func createAgent(config metrics.AgentConfig) (agent.Agent, error) {
	switch config.Kind {
	case metrics.Minimax:
		ordering, err := parseOrdering(config.Ordering)
		if err != nil {
			return nil, err
		}
		return agent.NewProvingAgent(searcher.NewMinimax(ordering)), nil
	case metrics.AlphaBeta:
		ordering, err := parseOrdering(config.Ordering)
		if err != nil {
			return nil, err
		}
		return agent.NewProvingAgent(searcher.NewAlphaBeta(ordering)), nil
	case metrics.UCB1:
		return agent.NewEvaluationAgent(createMCTS(config), config.Simulations), nil
	case metrics.Sampling:
		return agent.NewSamplingAgent(createMCTS(config), config.Simulations, config.Temperature, samplingSeed(config)), nil
	case metrics.Random:
		if config.Seed > 0 {
			return agent.NewSeededRandomAgent(config.Seed), nil
		}
		return agent.NewRandomAgent(), nil
	default:
		return nil, errors.Errorf("unknown agent kind %q", config.Kind)
	}
}

// samplingSeed returns the configured seed, or a freshly drawn one when it is 0.
func samplingSeed(config metrics.AgentConfig) uint64 {
	if config.Seed > 0 {
		return config.Seed
	}
	return frand.Uint64n(math.MaxUint64)
}

func createMCTS(config metrics.AgentConfig) *searcher.MCTS {
	options := []searcher.Option{searcher.WithMetrics()}
	if config.Seed > 0 {
		options = append(options, searcher.WithSeed(config.Seed))
	}
	return searcher.NewMCTS(options...)
}

func parseOrdering(s string) (game.Ordering, error) {
	switch s {
	case "", "natural":
		return game.NaturalOrder, nil
	case "priority":
		return game.PriorityOrder, nil
	default:
		return game.NaturalOrder, errors.Errorf("unknown ordering %q", s)
	}
}

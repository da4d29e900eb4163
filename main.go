package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"tictactoe/experiments"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	experiment string
	games      int
	out        string
	debug      bool
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.experiment, "experiment", "strength", "experiment to run: strength, budget or pruning")
	flag.IntVar(&cfg.games, "games", experiments.NumGames, "games per matchup")
	flag.StringVar(&cfg.out, "out", "results", "directory for CSV results")
	flag.BoolVar(&cfg.debug, "debug", false, "log every search and move")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msgf("%s experiment failed", cfg.experiment)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	switch cfg.experiment {
	case "strength":
		return experiments.RunStrengthExperiment(ctx, cfg.out, cfg.games)
	case "budget":
		return experiments.RunBudgetExperiment(ctx, cfg.out, cfg.games)
	case "pruning":
		return experiments.RunPruningExperiment(ctx, cfg.out)
	default:
		flag.Usage()
		return errors.Errorf("unknown experiment %q", cfg.experiment)
	}
}

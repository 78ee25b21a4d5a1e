package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/movenet/config"
	"github.com/domino14/movenet/dataloaders"
	"github.com/domino14/movenet/features"
	"github.com/domino14/movenet/trainer"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("training-failed")
	}
}

func run() error {
	cfg := config.DefaultConfig()
	if err := cfg.Load(os.Args[1:]); err != nil {
		return err
	}

	var logger zerolog.Logger
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(os.Stderr).Level(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel)
	}
	zerolog.DefaultContextLogger = &logger
	log.Info().Msgf("Loaded config: %v", cfg.AllSettings())

	if err := cfg.Validate(); err != nil {
		return err
	}
	outDir, err := cfg.EnsureOutputDir()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	boardSize := cfg.GetInt(config.ConfigBoardSize)
	opts := []dataloaders.Option{dataloaders.WithBoardSize(boardSize)}
	if cfg.GetBool(config.ConfigRandomFlip) {
		opts = append(opts, dataloaders.WithRandomFlip(config.NewRand(cfg.GetInt64(config.ConfigSeed))))
	}
	reader, err := dataloaders.NewPositionReader(cfg.GetString(config.ConfigDataPath),
		cfg.GetInt(config.ConfigBatchSize), opts...)
	if err != nil {
		return err
	}
	defer reader.Close()

	var source dataloaders.BatchSource = reader
	if cfg.GetBool(config.ConfigPrefetch) {
		p := dataloaders.NewPrefetcher(ctx, reader)
		defer p.Close()
		source = p
	}

	enc, err := features.NewEncoder(boardSize)
	if err != nil {
		return err
	}
	model := trainer.NewPriorModel(enc)
	if cfg.GetBool(config.ConfigResume) {
		if err := trainer.Resume(model, cfg.GetString(config.ConfigPreviousCheckpoint)); err != nil {
			return err
		}
	}

	log.Info().Int("board-size", boardSize).Str("output-dir", outDir).Msg("starting-training")
	t := &trainer.Trainer{
		Source:    source,
		Model:     model,
		MaxSteps:  cfg.GetInt(config.ConfigMaxSteps),
		LogEvery:  cfg.GetInt(config.ConfigLogEvery),
		OutputDir: outDir,
	}
	summary, err := t.Run(ctx)
	if err != nil {
		return err
	}
	log.Info().Float64("mean-accuracy", summary.Accuracy.Mean()).
		Str("checkpoint", summary.LastCheckpoint).Msg("done")
	return nil
}

// batchinfo prepares a few batches from a training file and prints what the
// reader produced. It is meant for checking a data file before training.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/domino14/movenet/config"
	"github.com/domino14/movenet/dataloaders"
	"github.com/domino14/movenet/features"
	"github.com/domino14/movenet/move"
	"github.com/domino14/movenet/stats"
)

func main() {
	inputFile := pflag.String("input-file", "", "file of training records")
	batchSize := pflag.Int("batch-size", 100, "examples per batch")
	batches := pflag.Int("batches", 1, "number of batches to prepare")
	boardSize := pflag.Int("board-size", move.DefaultBoardSize, "side of the square board")
	randomFlip := pflag.Bool("random-flip", false, "randomly rotate examples by 180 degrees")
	seed := pflag.Int64("seed", 0, "augmentation seed; 0 picks a random seed")
	show := pflag.Int("show", -1, "print the board of this slot of every batch")
	bins := pflag.Int("bins", 10, "histogram buckets for the labels")
	debug := pflag.Bool("debug", false, "debug logging")
	pflag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if *inputFile == "" {
		fmt.Fprintln(os.Stderr, "please indicate --input-file")
		os.Exit(1)
	}
	if err := run(*inputFile, *batchSize, *batches, *boardSize, *randomFlip, *seed, *show, *bins); err != nil {
		log.Fatal().Err(err).Msg("batchinfo-failed")
	}
}

func run(path string, batchSize, batches, boardSize int, randomFlip bool, seed int64, show, bins int) error {
	opts := []dataloaders.Option{dataloaders.WithBoardSize(boardSize)}
	if randomFlip {
		opts = append(opts, dataloaders.WithRandomFlip(config.NewRand(seed)))
	}
	reader, err := dataloaders.NewPositionReader(path, batchSize, opts...)
	if err != nil {
		return err
	}
	defer reader.Close()

	enc, err := features.NewEncoder(boardSize)
	if err != nil {
		return err
	}
	codec := enc.Codec()

	for i := 0; i < batches; i++ {
		fmt.Printf("batch %d: cursor before %d", i, reader.Cursor())
		wrapped, err := reader.PrepareNextBatch()
		if err != nil {
			return err
		}
		b := reader.Batch()
		fmt.Printf(", after %d, wrapped %v, epoch %d, fingerprint %016x\n",
			reader.Cursor(), wrapped, reader.Epoch(), b.Fingerprint())

		distinct := lo.Uniq(b.LabelData())
		fmt.Printf("%d distinct labels, shape %v\n", len(distinct), b.Positions().Shape())
		if err := stats.FprintHistogram(os.Stdout, stats.LabelHistogram(b.LabelData(), bins), 40); err != nil {
			return err
		}

		if show >= 0 && show < b.Size() {
			label := move.Index(b.LabelData()[show])
			pos := enc.Decode(b.Slot(show))
			fmt.Printf("slot %d, label %s\n", show, codec.Token(pos.ToMove(), label))
			fmt.Print(pos.ToDisplayText())
		}
	}
	return nil
}

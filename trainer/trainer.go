package trainer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/domino14/movenet/dataloaders"
	"github.com/domino14/movenet/stats"
)

const (
	AccuracyLogName    = "train_accuracy.txt"
	CheckpointBaseName = "model.ckpt"
)

// Trainer runs steps 0 through MaxSteps, one batch per step. Every
// LogEvery steps it measures accuracy on the current batch, appends
// "<step> <accuracy>" to the accuracy log and writes a checkpoint.
type Trainer struct {
	Source    dataloaders.BatchSource
	Model     Model
	MaxSteps  int
	LogEvery  int
	OutputDir string
}

// Summary describes a finished run.
type Summary struct {
	Steps          int
	Epochs         int
	Accuracy       stats.Statistic
	LastCheckpoint string
}

// CheckpointPath is where the checkpoint for step is written.
func CheckpointPath(dir string, step int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d", CheckpointBaseName, step))
}

// Resume loads model weights from a checkpoint written by a previous run.
func Resume(m Model, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := m.Load(f); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Info().Str("checkpoint", path).Msg("resumed-training")
	return nil
}

func saveCheckpoint(m Model, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := m.Save(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (t *Trainer) Run(ctx context.Context) (summary *Summary, err error) {
	if t.LogEvery <= 0 {
		return nil, fmt.Errorf("log interval must be positive, got %d", t.LogEvery)
	}
	accFile, err := os.Create(filepath.Join(t.OutputDir, AccuracyLogName))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := accFile.Close(); err == nil {
			err = cerr
		}
	}()
	accWriter := bufio.NewWriter(accFile)

	summary = &Summary{}
	for step := 0; step <= t.MaxSteps; step++ {
		batch, wrapped, err := t.Source.Next(ctx)
		if err != nil {
			return summary, fmt.Errorf("step %d: %w", step, err)
		}
		if wrapped {
			summary.Epochs++
			log.Info().Int("step", step).Int("epoch", summary.Epochs).Msg("new-epoch")
		}
		if err := t.Model.Train(batch.Positions(), batch.Labels()); err != nil {
			return summary, fmt.Errorf("training step %d: %w", step, err)
		}
		summary.Steps = step + 1

		if step%t.LogEvery != 0 {
			continue
		}
		acc, err := t.Model.Accuracy(batch.Positions(), batch.Labels())
		if err != nil {
			return summary, fmt.Errorf("accuracy at step %d: %w", step, err)
		}
		summary.Accuracy.Push(acc)
		if _, err := fmt.Fprintf(accWriter, "%d %g\n", step, acc); err != nil {
			return summary, err
		}
		if err := accWriter.Flush(); err != nil {
			return summary, err
		}
		log.Info().Int("step", step).Float64("train-accuracy", acc).
			Float64("mean", summary.Accuracy.Mean()).
			Float64("ci95", summary.Accuracy.HalfWidth(95)).
			Msg("train-accuracy")

		path := CheckpointPath(t.OutputDir, step)
		if err := saveCheckpoint(t.Model, path); err != nil {
			return summary, fmt.Errorf("saving checkpoint: %w", err)
		}
		summary.LastCheckpoint = path
	}
	log.Info().Int("steps", summary.Steps).Int("epochs", summary.Epochs).Msg("training-finished")
	return summary, nil
}

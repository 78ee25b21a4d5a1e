package dataloaders

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/movenet/features"
	"github.com/domino14/movenet/move"
)

// Rand is the source of augmentation decisions. *frand.RNG and
// *math/rand.Rand both satisfy it.
type Rand interface {
	Float64() float64
}

// BatchSource hands out consecutive training batches. wrapped reports that
// the data source was exhausted and restarted while preparing the batch.
type BatchSource interface {
	Next(ctx context.Context) (b *Batch, wrapped bool, err error)
}

type Option func(*PositionReader)

// WithRandomFlip rotates each example by 180 degrees with probability 0.5,
// drawing one value from r per example.
func WithRandomFlip(r Rand) Option {
	return func(pr *PositionReader) {
		pr.flipRand = r
	}
}

// WithBoardSize sets the board size the records are written for.
func WithBoardSize(n int) Option {
	return func(pr *PositionReader) {
		pr.boardSize = n
	}
}

// PositionReader reads state-action records from a text file and prepares
// batches of encoded positions. Each line of the file is a sequence of
// moves like
//
//	B[b3] W[c6] B[d6] W[c7] B[f5] W[d8] B[f7] W[f6]
//
// where the last move (f6) is the label and the ones before it are the
// position. A blank line or the end of the file starts a new epoch.
//
// A PositionReader is not safe for concurrent use.
type PositionReader struct {
	path      string
	batchSize int
	boardSize int
	flipRand  Rand

	file    *os.File
	br      *bufio.Reader
	encoder *features.Encoder
	codec   move.Codec
	batch   *Batch

	cursor int
	epoch  int
	closed bool

	// scratch for one record
	moves []move.Index
}

func NewPositionReader(path string, batchSize int, opts ...Option) (*PositionReader, error) {
	pr := &PositionReader{
		path:      path,
		batchSize: batchSize,
		boardSize: move.DefaultBoardSize,
	}
	for _, opt := range opts {
		opt(pr)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, batchSize)
	}
	enc, err := features.NewEncoder(pr.boardSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	pr.encoder = enc
	pr.codec = enc.Codec()

	need, ok := SizeInBytes(batchSize, enc.Width(), enc.Depth())
	if !ok {
		return nil, fmt.Errorf("%w: batch size %d overflows", ErrInvalidConfig, batchSize)
	}
	if total := memory.TotalMemory(); total > 0 && need > total/2 {
		return nil, fmt.Errorf("%w: batch of %d needs %d bytes, system has %d",
			ErrInvalidConfig, batchSize, need, total)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	pr.file = f
	pr.br = bufio.NewReaderSize(f, 1<<16)

	first, err := pr.readLine()
	if err == nil && first == "" {
		err = fmt.Errorf("%w: %s", ErrEmptySource, path)
	}
	if err == nil {
		err = pr.rewind()
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	pr.batch = NewBatch(batchSize, enc.Width(), enc.Depth())
	log.Debug().Str("path", path).Int("batch-size", batchSize).
		Int("board-size", pr.boardSize).Bool("random-flip", pr.flipRand != nil).
		Msg("opened-position-reader")
	return pr, nil
}

// readLine returns the next line with surrounding whitespace removed. The
// end of the file is returned as an empty line.
func (pr *PositionReader) readLine() (string, error) {
	line, err := pr.br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", &SourceError{Op: "read", Path: pr.path, Err: err}
	}
	return strings.TrimSpace(line), nil
}

func (pr *PositionReader) rewind() error {
	if _, err := pr.file.Seek(0, io.SeekStart); err != nil {
		return &SourceError{Op: "seek", Path: pr.path, Err: err}
	}
	pr.br.Reset(pr.file)
	pr.cursor = 0
	return nil
}

// Batch returns the reader's batch buffers. Their contents are replaced by
// every call to PrepareNextBatch.
func (pr *PositionReader) Batch() *Batch {
	return pr.batch
}

// Cursor is the number of records read since the start of the current epoch.
func (pr *PositionReader) Cursor() int {
	return pr.cursor
}

// Epoch is the number of times the reader has wrapped around to the start
// of the data source.
func (pr *PositionReader) Epoch() int {
	return pr.epoch
}

func (pr *PositionReader) BatchSize() int {
	return pr.batchSize
}

// PrepareNextBatch fills the reader's batch with the next batchSize
// records. It returns true if the data source was restarted along the way.
// If an error is returned the batch is left cleared.
func (pr *PositionReader) PrepareNextBatch() (bool, error) {
	return pr.fill(pr.batch)
}

// Next implements BatchSource.
func (pr *PositionReader) Next(ctx context.Context) (*Batch, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	wrapped, err := pr.PrepareNextBatch()
	if err != nil {
		return nil, false, err
	}
	return pr.batch, wrapped, nil
}

func (pr *PositionReader) fill(b *Batch) (bool, error) {
	if pr.closed {
		return false, ErrReaderClosed
	}
	b.Clear()
	wrapped := false
	for i := 0; i < b.Size(); i++ {
		line, err := pr.readLine()
		if err != nil {
			b.Clear()
			return wrapped, err
		}
		if line == "" {
			if err := pr.rewind(); err != nil {
				b.Clear()
				return wrapped, err
			}
			pr.epoch++
			wrapped = true
			log.Debug().Int("epoch", pr.epoch).Msg("data-source-wrapped")
			line, err = pr.readLine()
			if err == nil && line == "" {
				err = fmt.Errorf("%w: %s", ErrEmptySource, pr.path)
			}
			if err != nil {
				b.Clear()
				return wrapped, err
			}
		}
		pr.cursor++
		if err := pr.buildAt(b, i, line); err != nil {
			b.Clear()
			return wrapped, err
		}
	}
	return wrapped, nil
}

func (pr *PositionReader) buildAt(b *Batch, i int, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return &FormatError{Line: pr.cursor, Record: line, Err: ErrMalformedRecord}
	}
	pr.moves = pr.moves[:0]
	for _, tok := range tokens {
		m, err := pr.codec.Parse(tok)
		if err != nil {
			return &FormatError{Line: pr.cursor, Record: line, Err: err}
		}
		pr.moves = append(pr.moves, m)
	}
	if pr.flipRand != nil && pr.flipRand.Float64() < 0.5 {
		for j, m := range pr.moves {
			pr.moves[j] = pr.codec.Rotate180(m)
		}
	}
	last := len(pr.moves) - 1
	pr.encoder.Encode(pr.moves[:last], pr.moves[last], b.Slot(i), &b.LabelData()[i])
	return nil
}

// Close releases the data source. Closing twice is harmless.
func (pr *PositionReader) Close() error {
	if pr.closed {
		return nil
	}
	pr.closed = true
	if err := pr.file.Close(); err != nil {
		return &SourceError{Op: "close", Path: pr.path, Err: err}
	}
	return nil
}

package dataloaders

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type prefetched struct {
	batch   *Batch
	wrapped bool
	err     error
}

// Prefetcher prepares the next batch in the background while the caller
// works on the current one. It owns the reader until Close returns.
//
// Two batches rotate between the producer and the caller: a batch returned
// by Next stays valid until the following call to Next. Next and Close must
// be called from one goroutine.
type Prefetcher struct {
	reader *PositionReader
	free   chan *Batch
	ready  chan prefetched
	held   *Batch
	err    error

	ctx    context.Context
	cancel context.CancelFunc
	g      *errgroup.Group
}

func NewPrefetcher(ctx context.Context, reader *PositionReader) *Prefetcher {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	p := &Prefetcher{
		reader: reader,
		free:   make(chan *Batch, 2),
		ready:  make(chan prefetched, 1),
		ctx:    gctx,
		cancel: cancel,
		g:      g,
	}
	p.free <- reader.Batch()
	p.free <- NewBatch(reader.BatchSize(), reader.encoder.Width(), reader.encoder.Depth())

	g.Go(func() error {
		return p.produce(gctx)
	})
	return p
}

func (p *Prefetcher) produce(ctx context.Context) error {
	for {
		var b *Batch
		select {
		case <-ctx.Done():
			return ctx.Err()
		case b = <-p.free:
		}
		wrapped, err := p.reader.fill(b)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p.ready <- prefetched{batch: b, wrapped: wrapped, err: err}:
		}
		if err != nil {
			return err
		}
	}
}

// Next implements BatchSource. After the first error every call returns
// that error. Once the producer has stopped, because of Close or because the
// context given to NewPrefetcher ended, Next returns the batch already
// prepared, if any, and then the reason the producer stopped.
func (p *Prefetcher) Next(ctx context.Context) (*Batch, bool, error) {
	if p.err != nil {
		return nil, false, p.err
	}
	if p.held != nil {
		p.free <- p.held
		p.held = nil
	}
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case f := <-p.ready:
		return p.take(f)
	case <-p.ctx.Done():
		select {
		case f := <-p.ready:
			return p.take(f)
		default:
		}
		p.err = context.Cause(p.ctx)
		return nil, false, p.err
	}
}

func (p *Prefetcher) take(f prefetched) (*Batch, bool, error) {
	if f.err != nil {
		p.err = f.err
		return nil, false, f.err
	}
	p.held = f.batch
	return f.batch, f.wrapped, nil
}

// Close stops the producer. It does not close the reader. Next returns
// ErrReaderClosed afterwards.
func (p *Prefetcher) Close() error {
	p.cancel()
	err := p.g.Wait()
	reported := p.err != nil
	if !reported {
		p.err = ErrReaderClosed
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err == nil || reported {
		// Errors already returned by Next are not reported twice.
		return nil
	}
	log.Debug().Err(err).Msg("prefetcher-stopped")
	return err
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"github.com/steamopera/steamsync/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultChunkSize   = 200
	defaultFlushEvery  = 100
	defaultConcurrency = 1
)

// Options controls how a Driver splits and flushes work.
type Options struct {
	// ChunkSize is the number of identities handed to one process call.
	ChunkSize int
	// FlushEvery bounds the write buffer. The buffer is also flushed at the
	// end of every chunk.
	FlushEvery int
	// Concurrency is the number of chunks processed at once. 1 keeps input order.
	Concurrency int
}

// DefaultOptions returns 200-identity chunks flushed every 100 records, one
// chunk at a time.
func DefaultOptions() Options {
	return Options{
		ChunkSize:   defaultChunkSize,
		FlushEvery:  defaultFlushEvery,
		Concurrency: defaultConcurrency,
	}
}

func (o Options) normalized() Options {
	n := o
	if n.ChunkSize <= 0 {
		n.ChunkSize = defaultChunkSize
	}
	if n.FlushEvery <= 0 {
		n.FlushEvery = defaultFlushEvery
	}
	if n.Concurrency <= 0 {
		n.Concurrency = defaultConcurrency
	}
	return n
}

// Sink persists one flushed buffer. It must be safe for concurrent use when
// Concurrency > 1.
type Sink[T any] func(ctx context.Context, items []T) error

// Emit queues records for the sink and flushes when the buffer is full.
// A non-nil error is a persistence failure and must be returned by Process.
type Emit[T any] func(items ...T) error

// Process resolves one chunk of identities and emits the records to write.
// Returning an error that does not wrap ErrPersistence skips the rest of the
// chunk. Records emitted before the error are still written.
type Process[T any] func(ctx context.Context, chunk []string, emit Emit[T]) error

// Report summarizes a Run.
type Report struct {
	Chunks        int
	SkippedChunks int
	SkippedIDs    []string
	Written       int
}

// Driver interleaves fetch, reconcile and flush over a large identity list.
type Driver[T any] struct {
	name string
	opts Options
	sink Sink[T]
}

// New returns a Driver. name labels logs and metrics.
func New[T any](name string, opts Options, sink Sink[T]) *Driver[T] {
	return &Driver[T]{
		name: name,
		opts: opts.normalized(),
		sink: sink,
	}
}

// Run processes ids in contiguous chunks. A chunk that fails on the source
// side is logged and skipped. A sink failure stops the run and is returned
// wrapped in ErrPersistence.
func (d *Driver[T]) Run(ctx context.Context, ids []string, process Process[T]) (Report, error) {
	chunks := Chunk(ids, d.opts.ChunkSize)

	var (
		mu     sync.Mutex
		report = Report{Chunks: len(chunks)}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf := &buffer[T]{ctx: gctx, sink: d.sink, limit: d.opts.FlushEvery}

			procErr := process(gctx, chunk, buf.emit)
			_ = buf.flush()

			mu.Lock()
			report.Written += buf.written
			mu.Unlock()

			if buf.err != nil {
				return fmt.Errorf("%s chunk %d: %w", d.name, i, buf.err)
			}
			if procErr == nil {
				return nil
			}
			if errors.Is(procErr, coreerrors.ErrPersistence) || gctx.Err() != nil {
				return fmt.Errorf("%s chunk %d: %w", d.name, i, procErr)
			}

			slog.Warn("["+d.name+"] Chunk skipped",
				"chunk", i,
				"size", len(chunk),
				"error", procErr)
			metrics.SkippedChunks.WithLabelValues(d.name).Inc()

			mu.Lock()
			report.SkippedChunks++
			report.SkippedIDs = append(report.SkippedIDs, chunk...)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return report, err
}

// buffer holds records emitted by one chunk until they are flushed.
type buffer[T any] struct {
	ctx     context.Context
	sink    Sink[T]
	limit   int
	items   []T
	written int
	err     error
}

func (b *buffer[T]) emit(items ...T) error {
	if b.err != nil {
		return b.err
	}
	b.items = append(b.items, items...)
	if len(b.items) >= b.limit {
		return b.flush()
	}
	return nil
}

func (b *buffer[T]) flush() error {
	if b.err != nil {
		return b.err
	}
	if len(b.items) == 0 {
		return nil
	}
	if err := b.sink(b.ctx, b.items); err != nil {
		if !errors.Is(err, coreerrors.ErrPersistence) {
			err = fmt.Errorf("%w: %w", coreerrors.ErrPersistence, err)
		}
		b.err = err
		return err
	}
	b.written += len(b.items)
	b.items = nil
	return nil
}

// Chunk splits items into contiguous slices of at most size elements,
// preserving order. size <= 0 yields a single chunk.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

package batch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	coreerrors "github.com/steamopera/steamsync/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	flushes [][]string
	failOn  int
}

func (s *recordingSink) write(_ context.Context, items []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn > 0 && len(s.flushes)+1 == s.failOn {
		return errors.New("connection reset")
	}
	s.flushes = append(s.flushes, append([]string(nil), items...))
	return nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func echo(_ context.Context, chunk []string, emit Emit[string]) error {
	for _, id := range chunk {
		if err := emit(id); err != nil {
			return err
		}
	}
	return nil
}

func TestChunk(t *testing.T) {
	assert.Nil(t, Chunk([]string{}, 3))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2, 3}}, Chunk([]int{1, 2, 3}, 10))
	assert.Equal(t, [][]int{{1, 2, 3}}, Chunk([]int{1, 2, 3}, 0))
}

func TestOptions_Normalized(t *testing.T) {
	n := Options{}.normalized()
	assert.Equal(t, DefaultOptions(), n)

	n = Options{ChunkSize: 500, FlushEvery: 10, Concurrency: 4}.normalized()
	assert.Equal(t, 500, n.ChunkSize)
	assert.Equal(t, 10, n.FlushEvery)
	assert.Equal(t, 4, n.Concurrency)
}

func TestDriver_FlushesEveryNAndAtChunkEnd(t *testing.T) {
	sink := &recordingSink{}
	d := New("test", Options{ChunkSize: 5, FlushEvery: 2}, sink.write)

	report, err := d.Run(context.Background(), ids(7), echo)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"0", "1"}, {"2", "3"}, {"4"},
		{"5", "6"},
	}, sink.flushes)
	assert.Equal(t, 2, report.Chunks)
	assert.Equal(t, 7, report.Written)
	assert.Zero(t, report.SkippedChunks)
}

func TestDriver_SourceFailureSkipsChunkOnly(t *testing.T) {
	sink := &recordingSink{}
	d := New("test", Options{ChunkSize: 2, FlushEvery: 10}, sink.write)

	report, err := d.Run(context.Background(), ids(6), func(ctx context.Context, chunk []string, emit Emit[string]) error {
		if chunk[0] == "2" {
			if err := emit(chunk[0]); err != nil {
				return err
			}
			return fmt.Errorf("fetch friends: %w", coreerrors.ErrRetryExhausted)
		}
		return echo(ctx, chunk, emit)
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"0", "1"}, {"2"}, {"4", "5"}}, sink.flushes)
	assert.Equal(t, 1, report.SkippedChunks)
	assert.Equal(t, []string{"2", "3"}, report.SkippedIDs)
	assert.Equal(t, 5, report.Written)
}

func TestDriver_SinkFailureIsFatal(t *testing.T) {
	sink := &recordingSink{failOn: 2}
	d := New("test", Options{ChunkSize: 2, FlushEvery: 10}, sink.write)

	calls := 0
	_, err := d.Run(context.Background(), ids(6), func(ctx context.Context, chunk []string, emit Emit[string]) error {
		calls++
		return echo(ctx, chunk, emit)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, coreerrors.ErrPersistence)
	assert.Equal(t, 2, calls, "no chunk runs after the failing flush")
	assert.Len(t, sink.flushes, 1)
}

func TestDriver_PersistenceErrorFromProcessIsFatal(t *testing.T) {
	d := New("test", Options{ChunkSize: 1}, (&recordingSink{}).write)

	_, err := d.Run(context.Background(), ids(3), func(context.Context, []string, Emit[string]) error {
		return fmt.Errorf("find profiles: %w", coreerrors.ErrPersistence)
	})

	assert.ErrorIs(t, err, coreerrors.ErrPersistence)
}

func TestDriver_ConcurrentChunksWriteEverything(t *testing.T) {
	sink := &recordingSink{}
	d := New("test", Options{ChunkSize: 3, FlushEvery: 2, Concurrency: 4}, sink.write)

	report, err := d.Run(context.Background(), ids(50), echo)
	require.NoError(t, err)

	var written []string
	for _, f := range sink.flushes {
		written = append(written, f...)
	}
	assert.ElementsMatch(t, ids(50), written)
	assert.Equal(t, 50, report.Written)
	assert.Equal(t, 17, report.Chunks)
}

func TestDriver_EmptyInput(t *testing.T) {
	d := New("test", DefaultOptions(), (&recordingSink{}).write)

	report, err := d.Run(context.Background(), nil, echo)
	require.NoError(t, err)
	assert.Zero(t, report.Chunks)
}

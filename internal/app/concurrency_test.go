package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallel_KeepsOrder(t *testing.T) {
	results, err := Parallel(context.Background(),
		func(context.Context) (string, error) { return "images", nil },
		func(context.Context) (string, error) { return "index", nil },
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"images", "index"}, results)
}

func TestParallel_FirstErrorCancels(t *testing.T) {
	errDisk := errors.New("disk full")

	_, err := Parallel(context.Background(),
		func(context.Context) (int, error) { return 0, errDisk },
		func(ctx context.Context) (int, error) {
			<-ctx.Done()

			return 0, ctx.Err()
		},
	)

	require.ErrorIs(t, err, errDisk)
}

type initFunc func(ctx context.Context) error

func (f initFunc) Init(ctx context.Context) error { return f(ctx) }

func TestInitAll(t *testing.T) {
	var calls atomic.Int32

	ok := initFunc(func(context.Context) error {
		calls.Add(1)

		return nil
	})

	require.NoError(t, InitAll(context.Background(), ok, ok, ok))
	assert.Equal(t, int32(3), calls.Load())

	errPerm := errors.New("permission denied")
	err := InitAll(context.Background(), ok, initFunc(func(context.Context) error { return errPerm }))
	assert.ErrorIs(t, err, errPerm)

	assert.NoError(t, InitAll(context.Background()))
}

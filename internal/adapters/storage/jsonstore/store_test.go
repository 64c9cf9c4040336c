package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s := New(Config{
		Path:   filepath.Join(t.TempDir(), "assets", "quotations.json"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, s.Init(context.Background()))

	return s
}

func TestInit_CreatesEmptyArray(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestInit_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotations.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"width":1,"height":1,"title":"x","messages":[]}]`), 0o644))

	s := New(Config{Path: path})
	require.NoError(t, s.Init(context.Background()))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "x", list[0].Title)
}

func TestPrepend_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Prepend(ctx, &domain.Quotation{Width: 1, Height: 1, Title: "first", Messages: []string{"a"}}))
	require.NoError(t, s.Prepend(ctx, &domain.Quotation{Width: 2, Height: 2, Title: "second", Messages: []string{"b"}, Format: "jpg"}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "jpg", list[0].Format)
	assert.Equal(t, "first", list[1].Title)
}

func TestPrepend_FileLayout(t *testing.T) {
	s := newTestStore(t)

	err := s.Prepend(context.Background(), &domain.Quotation{
		Width: 3, Height: 4, Title: "<早安>", Messages: []string{"m"}, Footer: "f",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	expected := `[
  {
    "width": 3,
    "height": 4,
    "title": "<早安>",
    "messages": [
      "m"
    ],
    "footer": "f"
  }
]`
	assert.Equal(t, expected, string(data))
}

func TestPrepend_PreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotations.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"old","pinned":true}]`), 0o644))

	s := New(Config{Path: path})
	require.NoError(t, s.Prepend(context.Background(), &domain.Quotation{Title: "new", Messages: []string{}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "new", raw[0]["title"])
	assert.Equal(t, true, raw[1]["pinned"])
}

func TestPrepend_ConcurrentWritersKeepAllEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 20

	var wg sync.WaitGroup
	for i := range writers {
		wg.Go(func() {
			err := s.Prepend(ctx, &domain.Quotation{Title: fmt.Sprintf("q%d", i), Messages: []string{"m"}})
			assert.NoError(t, err)
		})
	}

	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, writers)
}

func TestStore_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{oops"},
		{name: "json object", content: `{"title":"x"}`},
		{name: "json null", content: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "quotations.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			s := New(Config{Path: path})
			ctx := context.Background()

			_, err := s.List(ctx)
			assert.True(t, domain.IsStorage(err))

			err = s.Prepend(ctx, &domain.Quotation{Title: "x"})
			assert.True(t, domain.IsStorage(err))

			assert.Error(t, s.Check(ctx))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data), "corrupt store must not be rewritten")
		})
	}
}

func TestStore_MissingFile(t *testing.T) {
	s := New(Config{Path: filepath.Join(t.TempDir(), "missing.json")})

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_CanceledContext(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	require.ErrorIs(t, err, context.Canceled)

	err = s.Prepend(ctx, &domain.Quotation{Title: "x"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_HealthChecker(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, "quotation-store", s.Name())
	assert.NoError(t, s.Check(context.Background()))
}

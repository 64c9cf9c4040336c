// Package jsonstore persists quotations as a single JSON array file.
//
// The file is always read and rewritten whole. Mutations are serialised by a
// mutex so concurrent uploads cannot drop each other's entries; the write
// itself is a plain rewrite, not an atomic replace.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
)

const (
	checkerName = "quotation-store"
	fileMode    = 0o644
	dirMode     = 0o755
)

// Config configures the JSON store.
type Config struct {
	// Path is the location of the JSON index file.
	Path string

	// Logger receives store lifecycle messages.
	Logger *slog.Logger
}

// Store implements ports.QuotationStore on top of one JSON file.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// New creates a store for the file at cfg.Path. Call Init before use.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		path:   cfg.Path,
		logger: logger.With(slog.String("component", "jsonstore")),
	}
}

// Path returns the index file location.
func (s *Store) Path() string {
	return s.path
}

// Init creates the parent directory and an empty array file if none exists.
// An existing file is left untouched, even if it is not valid JSON.
func (s *Store) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return domain.NewStorageError("creating store directory", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}

	if err != nil {
		return domain.NewStorageError("creating quotation store", err)
	}

	_, err = f.WriteString("[]")
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return domain.NewStorageError("creating quotation store", err)
	}

	s.logger.InfoContext(ctx, "created quotation store", slog.String("path", s.path))

	return nil
}

// List returns all stored quotations, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Quotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.path)
	s.mu.RUnlock()

	if err != nil {
		return nil, domain.NewStorageError("reading quotation store", err)
	}

	quotations := []domain.Quotation{}
	if err := json.Unmarshal(data, &quotations); err != nil {
		return nil, domain.NewStorageError("parsing quotation store", err)
	}

	if quotations == nil {
		return nil, domain.NewStorageError("parsing quotation store", errNotArray)
	}

	return quotations, nil
}

// Prepend reads the file, inserts entry at the head and rewrites the file.
// Existing entries are carried over byte-for-byte, including fields this
// service does not know about.
func (s *Store) Prepend(ctx context.Context, entry *domain.Quotation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := marshal(entry, "")
	if err != nil {
		return domain.NewStorageError("encoding quotation", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.readRaw()
	if err != nil {
		return err
	}

	entries = append([]json.RawMessage{encoded}, entries...)

	out, err := marshal(entries, "  ")
	if err != nil {
		return domain.NewStorageError("encoding quotation store", err)
	}

	if err := os.WriteFile(s.path, out, fileMode); err != nil {
		return domain.NewStorageError("writing quotation store", err)
	}

	s.logger.DebugContext(ctx, "prepended quotation",
		slog.String("title", entry.Title),
		slog.Int("entries", len(entries)),
	)

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return checkerName
}

// Check implements ports.HealthChecker: the file must exist and hold a JSON array.
func (s *Store) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.readRaw()

	return err
}

var errNotArray = errors.New("store does not contain a JSON array")

// readRaw loads the store as raw entries. Callers hold mu.
func (s *Store) readRaw() ([]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, domain.NewStorageError("reading quotation store", err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, domain.NewStorageError("parsing quotation store", err)
	}

	if entries == nil {
		return nil, domain.NewStorageError("parsing quotation store", errNotArray)
	}

	return entries, nil
}

// marshal encodes v without HTML escaping, indented when indent is non-empty.
func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

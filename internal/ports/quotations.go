// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port conventions:
//   - Context as first parameter
//   - Domain types in, domain types out
//   - Failures reported as domain errors (domain.ErrStorage, domain.ErrNotFound)
package ports

import (
	"context"
	"io"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
)

// QuotationStore is the system of record for uploaded entries, newest first.
type QuotationStore interface {
	// List returns every entry in stored order.
	// Returns domain.ErrStorage if the store cannot be read or parsed.
	List(ctx context.Context) ([]domain.Quotation, error)

	// Prepend inserts entry at the head of the store and persists the whole store.
	// Concurrent calls must not lose entries.
	Prepend(ctx context.Context, entry *domain.Quotation) error
}

// ImageStore holds uploaded image files.
//
// An upload is first staged under a temporary name, then promoted to its final
// name once its metadata is accepted. Promotion overwrites an existing file.
type ImageStore interface {
	// Stage writes src under a fresh temporary name with the given extension
	// and returns that name.
	Stage(ctx context.Context, src io.Reader, ext string) (string, error)

	// Promote renames a staged file to name.
	Promote(ctx context.Context, staged, name string) error

	// Remove deletes a file. Returns domain.ErrNotFound if it does not exist.
	Remove(ctx context.Context, name string) error

	// Exists reports whether a file with the given name is present.
	Exists(ctx context.Context, name string) (bool, error)
}

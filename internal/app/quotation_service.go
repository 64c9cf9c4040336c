// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
	"github.com/jsamuelsen/quotation-wall/internal/layout"
	"github.com/jsamuelsen/quotation-wall/internal/ports"
)

// Upload outcomes reported to an UploadObserver.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// UploadObserver is notified once per finished upload.
type UploadObserver interface {
	UploadFinished(ctx context.Context, outcome string)
}

type noopObserver struct{}

func (noopObserver) UploadFinished(context.Context, string) {}

// QuotationServiceConfig contains the dependencies of a QuotationService.
type QuotationServiceConfig struct {
	Store    ports.QuotationStore
	Images   ports.ImageStore
	Observer UploadObserver
	Logger   *slog.Logger
}

// QuotationService handles uploads, listing and layout of quotations.
type QuotationService struct {
	store    ports.QuotationStore
	images   ports.ImageStore
	observer UploadObserver
	logger   *slog.Logger
	exec     *Executor
}

// NewQuotationService creates the service. It panics when a store is missing.
func NewQuotationService(cfg QuotationServiceConfig) *QuotationService {
	if cfg.Store == nil {
		panic("app: quotation store is required")
	}

	if cfg.Images == nil {
		panic("app: image store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observer := cfg.Observer
	if observer == nil {
		observer = noopObserver{}
	}

	return &QuotationService{
		store:    cfg.Store,
		images:   cfg.Images,
		observer: observer,
		logger:   logger,
		exec:     NewExecutor(logger),
	}
}

// UploadRequest is an image plus its raw metadata.
type UploadRequest struct {
	Image      io.Reader
	Extension  string
	Submission domain.Submission
}

// UploadResult describes a persisted upload.
type UploadResult struct {
	Filename string
	Entry    *domain.Quotation
}

type uploadJob struct {
	staged   string
	promoted bool
	sub      domain.Submission
	entry    *domain.Quotation
	filename string
}

// Upload stages the image, validates the metadata, moves the image to its
// final name and prepends the entry to the store.
//
// A staged file is removed when the upload fails before it was renamed. Once
// renamed, the image stays even if the store write fails.
func (s *QuotationService) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	staged, err := s.images.Stage(ctx, req.Image, req.Extension)
	if err != nil {
		s.RecordRejection(ctx, err)

		return nil, err
	}

	job := &uploadJob{staged: staged, sub: req.Submission}

	result, err := Execute(ctx, s.exec, s.uploadOperation(), job)
	if err != nil {
		s.RecordRejection(ctx, err)

		return nil, err
	}

	s.observer.UploadFinished(ctx, OutcomeAccepted)
	s.logger.InfoContext(ctx, "quotation uploaded",
		slog.String("filename", result.Filename),
		slog.String("title", result.Entry.Title),
	)

	return result, nil
}

// RecordRejection reports an upload that ended with err, including one refused
// before it reached Upload, such as a file failing the media gate. Invalid
// submissions count as rejected, everything else as failed.
func (s *QuotationService) RecordRejection(ctx context.Context, err error) {
	outcome, level := OutcomeFailed, slog.LevelWarn

	switch {
	case domain.IsValidation(err) || domain.IsMedia(err):
		outcome, level = OutcomeRejected, slog.LevelInfo
	case domain.IsStorage(err):
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("outcome", outcome),
		slog.Any("error", err),
	}

	if step, ok := FailedStep(err); ok {
		attrs = append(attrs, slog.String("step", string(step)))
	}

	s.logger.LogAttrs(ctx, level, "quotation upload not stored", attrs...)
	s.observer.UploadFinished(ctx, outcome)
}

func (s *QuotationService) uploadOperation() Operation[*uploadJob, string, *domain.Quotation, *UploadResult] {
	return Operation[*uploadJob, string, *domain.Quotation, *UploadResult]{
		Name: "upload_quotation",

		Validate: func(_ context.Context, job *uploadJob) error {
			entry, err := job.sub.Build()
			if err != nil {
				return err
			}

			job.entry = entry
			job.filename = job.sub.Filename()

			return nil
		},

		Perform: func(ctx context.Context, job *uploadJob) (string, error) {
			if err := s.images.Promote(ctx, job.staged, job.filename); err != nil {
				return "", err
			}

			job.promoted = true

			return job.filename, nil
		},

		Verify: func(ctx context.Context, job *uploadJob, filename string) (*domain.Quotation, error) {
			ok, err := s.images.Exists(ctx, filename)
			if err != nil {
				return nil, err
			}

			if !ok {
				return nil, domain.NewStorageError("verifying image", domain.NewNotFoundError("image", filename))
			}

			return job.entry, nil
		},

		Archive: func(ctx context.Context, _ *uploadJob, entry *domain.Quotation) error {
			return s.store.Prepend(ctx, entry)
		},

		Respond: func(_ context.Context, job *uploadJob, entry *domain.Quotation) (*UploadResult, error) {
			return &UploadResult{Filename: job.filename, Entry: entry}, nil
		},

		Rollback: func(ctx context.Context, job *uploadJob, _ Step, _ error) {
			if job.promoted {
				return
			}

			// Detach from the request so a canceled client still gets its file cleaned.
			cleanupCtx := context.WithoutCancel(ctx)
			if err := s.images.Remove(cleanupCtx, job.staged); err != nil {
				s.logger.WarnContext(ctx, "failed to remove staged image",
					slog.String("file", job.staged),
					slog.Any("error", err),
				)
			}
		},
	}
}

// List returns every stored quotation, newest first.
func (s *QuotationService) List(ctx context.Context) ([]domain.Quotation, error) {
	quotations, err := s.store.List(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read quotations", slog.Any("error", err))

		return nil, err
	}

	return quotations, nil
}

// Arrangement is the stored quotations distributed over columns.
type Arrangement struct {
	Columns [][]domain.Quotation
	Heights []float64
}

// Arrange places the stored quotations into columns, shortest column first.
// Entries are measured at columnWidth; a non-positive width uses their raw height.
func (s *QuotationService) Arrange(ctx context.Context, columns int, gap, columnWidth float64) (*Arrangement, error) {
	if columns < 1 {
		return nil, layout.ErrInvalidColumns
	}

	quotations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	heights := make([]float64, len(quotations))
	for i := range quotations {
		heights[i] = quotations[i].RenderedHeight(columnWidth)
	}

	placement, err := layout.Place(columns, heights, gap)
	if err != nil {
		return nil, err
	}

	arranged := &Arrangement{
		Columns: make([][]domain.Quotation, len(placement.Columns)),
		Heights: placement.Heights,
	}

	for col, indexes := range placement.Columns {
		arranged.Columns[col] = make([]domain.Quotation, 0, len(indexes))
		for _, idx := range indexes {
			arranged.Columns[col] = append(arranged.Columns[col], quotations[idx])
		}
	}

	return arranged, nil
}

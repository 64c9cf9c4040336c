// Package handlers provides HTTP request handlers for the service.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotation-wall/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotation-wall/internal/app"
	"github.com/jsamuelsen/quotation-wall/internal/domain"
	"github.com/jsamuelsen/quotation-wall/internal/layout"
)

const invalidLayoutQuery = "invalid layout query"

// DefaultMaxColumns caps the layout column count when none is configured.
const DefaultMaxColumns = 12

// QuotationService is the application API the quotation handlers use.
type QuotationService interface {
	Upload(ctx context.Context, req *app.UploadRequest) (*app.UploadResult, error)
	RecordRejection(ctx context.Context, err error)
	List(ctx context.Context) ([]domain.Quotation, error)
	Arrange(ctx context.Context, columns int, gap, columnWidth float64) (*app.Arrangement, error)
}

// QuotationConfig holds the request limits of the quotation endpoints.
type QuotationConfig struct {
	// MaxImageSize is the largest accepted image in bytes.
	MaxImageSize int64

	// DefaultGap is used by the layout endpoint when no gap is given.
	DefaultGap float64

	// MaxColumns caps the layout column count. Values below one fall back
	// to DefaultMaxColumns.
	MaxColumns int
}

// QuotationHandler serves uploads, the quotation list and its column layout.
type QuotationHandler struct {
	service QuotationService
	cfg     QuotationConfig
}

// NewQuotationHandler creates a quotation handler.
func NewQuotationHandler(service QuotationService, cfg QuotationConfig) *QuotationHandler {
	if cfg.MaxColumns < 1 {
		cfg.MaxColumns = DefaultMaxColumns
	}

	return &QuotationHandler{service: service, cfg: cfg}
}

// Upload handles POST /upload.
//
// The multipart body carries the image under "image" and the metadata fields
// title, width, height, messages, format and footer.
func (h *QuotationHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(c, domain.NewTooLargeError(h.cfg.MaxImageSize))
			return
		}

		h.service.RecordRejection(ctx, domain.NewValidationError("image", "is required"))
		dto.RespondFail(c, http.StatusBadRequest, dto.MessageNoImage)

		return
	}

	file, err := header.Open()
	if err != nil {
		dto.HandleError(c, domain.NewStorageError("opening upload", err), dto.MessageUploadFailed)
		return
	}
	defer file.Close()

	if err := dto.CheckImage(header, file, h.cfg.MaxImageSize); err != nil {
		h.reject(c, err)
		return
	}

	var form dto.UploadForm
	if err := dto.BindFormAndValidate(c, &form); err != nil {
		h.service.RecordRejection(ctx, domain.NewValidationError("", dto.MessageMissingFields))
		dto.RespondFail(c, http.StatusBadRequest, dto.MessageMissingFields)

		return
	}

	result, err := h.service.Upload(ctx, &app.UploadRequest{
		Image:      file,
		Extension:  dto.Extension(header),
		Submission: form.Submission(),
	})
	if err != nil {
		dto.HandleError(c, err, dto.MessageUploadFailed)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(dto.MessageUploadSucceeded, dto.UploadResponse{
		Filename: result.Filename,
		Entry:    result.Entry,
	}))
}

// reject reports an upload refused before it reached the service.
func (h *QuotationHandler) reject(c *gin.Context, err error) {
	h.service.RecordRejection(c.Request.Context(), err)
	dto.HandleError(c, err, dto.MessageUploadFailed)
}

// List handles GET /quotations. Any read failure is reported the same way.
func (h *QuotationHandler) List(c *gin.Context) {
	quotations, err := h.service.List(c.Request.Context())
	if err != nil {
		dto.RespondFail(c, http.StatusInternalServerError, dto.MessageReadFailed)
		return
	}

	if quotations == nil {
		quotations = []domain.Quotation{}
	}

	c.JSON(http.StatusOK, dto.OK(dto.ListResponse(quotations)))
}

// Layout handles GET /quotations/layout?columns=N&gap=G&column_width=W.
func (h *QuotationHandler) Layout(c *gin.Context) {
	var q dto.LayoutQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondFail(c, http.StatusBadRequest, layoutQueryMessage(c, err))
		return
	}

	if q.Columns > h.cfg.MaxColumns {
		dto.RespondFail(c, http.StatusBadRequest, "column count must be at most "+strconv.Itoa(h.cfg.MaxColumns))
		return
	}

	if _, ok := c.GetQuery("gap"); !ok {
		q.Gap = h.cfg.DefaultGap
	}

	arranged, err := h.service.Arrange(c.Request.Context(), q.Columns, q.Gap, q.ColumnWidth)
	if err != nil {
		dto.HandleError(c, err, dto.MessageReadFailed)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.LayoutResponse{
		Columns: arranged.Columns,
		Heights: arranged.Heights,
	}))
}

func layoutQueryMessage(c *gin.Context, err error) string {
	if _, ok := dto.ValidationErrors(err)["columns"]; ok {
		return layout.ErrInvalidColumns.Error()
	}

	if _, convErr := strconv.Atoi(c.Query("columns")); convErr != nil {
		return layout.ErrInvalidColumns.Error()
	}

	return invalidLayoutQuery
}

// RegisterRoutes registers the quotation routes.
func (h *QuotationHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload", h.Upload)
	r.GET("/quotations", h.List)
	r.GET("/quotations/layout", h.Layout)
}

package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
	"github.com/jsamuelsen/quotation-wall/internal/layout"
	"github.com/jsamuelsen/quotation-wall/internal/platform/logging"
)

// Fixed client messages.
const (
	MessageUploadSucceeded = "upload succeeded"
	MessageUploadFailed    = "upload failed"
	MessageNoImage         = "no image file uploaded"
	MessageMissingFields   = "missing required fields"
	MessageReadFailed      = "failed to read quotations"
	MessageInternalServer  = "internal server error"
)

// MapError maps an error to an HTTP status and failure envelope.
// Unexpected errors get fallback, or a generic message when fallback is empty.
func MapError(err error, fallback string) (int, *Envelope) {
	if err == nil {
		return http.StatusOK, nil
	}

	if fallback == "" {
		fallback = MessageInternalServer
	}

	var (
		validationErr *domain.ValidationError
		mediaErr      *domain.MediaError
		storageErr    *domain.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, Fail(validationMessageFor(validationErr))

	case errors.As(err, &mediaErr):
		return http.StatusBadRequest, Fail(mediaErr.Message)

	case errors.Is(err, layout.ErrInvalidColumns):
		return http.StatusBadRequest, Fail(layout.ErrInvalidColumns.Error())

	case errors.As(err, &storageErr):
		return http.StatusInternalServerError, Fail(storageErr.Error())

	case domain.IsNotFound(err):
		return http.StatusNotFound, Fail(err.Error())

	default:
		return http.StatusInternalServerError, Fail(fallback)
	}
}

func validationMessageFor(err *domain.ValidationError) string {
	if err.Field == "" {
		return err.Message
	}

	return err.Field + " " + err.Message
}

// HandleError maps err and writes the failure envelope. Server-side failures
// are logged with the request logger.
func HandleError(c *gin.Context, err error, fallback string) {
	status, envelope := MapError(err, fallback)
	envelope.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			"error", err.Error(),
			"status", status,
			"trace_id", envelope.TraceID,
		)
	}

	c.JSON(status, envelope)
}

// RespondFail writes a failure envelope with a fixed status and message.
func RespondFail(c *gin.Context, status int, message string) {
	c.JSON(status, Fail(message).WithTraceID(GetTraceID(c)))
}

// AbortFail aborts the chain with a failure envelope.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Fail(message).WithTraceID(GetTraceID(c)))
}

// GetTraceID returns the active trace ID, or an empty string without a span.
func GetTraceID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

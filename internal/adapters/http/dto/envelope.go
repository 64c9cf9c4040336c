// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"github.com/jsamuelsen/quotation-wall/internal/domain"
)

// Envelope is the response shape of every quotation endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) *Envelope {
	return &Envelope{Success: true, Data: data}
}

// OKWithMessage wraps data and a message in a success envelope.
func OKWithMessage(message string, data any) *Envelope {
	return &Envelope{Success: true, Message: message, Data: data}
}

// Fail creates a failure envelope.
func Fail(message string) *Envelope {
	return &Envelope{Message: message}
}

// WithTraceID sets the trace ID on the envelope.
func (e *Envelope) WithTraceID(traceID string) *Envelope {
	e.TraceID = traceID
	return e
}

// UploadResponse is the data of a successful upload.
type UploadResponse struct {
	Filename string            `json:"filename"`
	Entry    *domain.Quotation `json:"entry"`
}

// ListResponse is the data of GET /quotations. It always encodes as an array.
type ListResponse []domain.Quotation

// LayoutResponse is the data of GET /quotations/layout.
type LayoutResponse struct {
	Columns [][]domain.Quotation `json:"columns"`
	Heights []float64            `json:"heights"`
}

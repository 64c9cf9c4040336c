package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
	"github.com/jsamuelsen/quotation-wall/internal/layout"
)

const (
	pngMagic  = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	jpegMagic = "\xff\xd8\xff\xe0\x00\x10JFIF\x00"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEnvelope_JSON(t *testing.T) {
	tests := []struct {
		name     string
		envelope *Envelope
		want     string
	}{
		{
			name:     "empty list keeps data",
			envelope: OK(ListResponse{}),
			want:     `{"success":true,"data":[]}`,
		},
		{
			name:     "failure",
			envelope: Fail("missing required fields"),
			want:     `{"success":false,"message":"missing required fields"}`,
		},
		{
			name:     "failure with trace",
			envelope: Fail("upload failed").WithTraceID("abc"),
			want:     `{"success":false,"message":"upload failed","traceId":"abc"}`,
		},
		{
			name: "upload",
			envelope: OKWithMessage("upload succeeded", UploadResponse{
				Filename: "a.png",
				Entry:    &domain.Quotation{Width: 1, Height: 2, Title: "a", Messages: []string{"m"}},
			}),
			want: `{"success":true,"message":"upload succeeded","data":{"filename":"a.png",` +
				`"entry":{"width":1,"height":2,"title":"a","messages":["m"]}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.envelope)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestUploadForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		form    UploadForm
		missing []string
	}{
		{
			name: "complete",
			form: UploadForm{Title: "t", Width: "1", Height: "2", Messages: "m"},
		},
		{
			name:    "nothing",
			form:    UploadForm{Format: "png", Footer: "f"},
			missing: []string{"title", "width", "height", "messages"},
		},
		{
			name:    "messages only missing",
			form:    UploadForm{Title: "t", Width: "1", Height: "2"},
			missing: []string{"messages"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.form)
			if len(tt.missing) == 0 {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)

			fields := ValidationErrors(err)
			assert.Len(t, fields, len(tt.missing))

			for _, name := range tt.missing {
				assert.Equal(t, "this field is required", fields[name])
			}
		})
	}
}

func TestUploadForm_Submission(t *testing.T) {
	form := UploadForm{Title: "t", Width: "1", Height: "2", Messages: "m", Format: "jpg", Footer: "f"}

	assert.Equal(t, domain.Submission{
		Title: "t", Width: "1", Height: "2", Messages: "m", Format: "jpg", Footer: "f",
	}, form.Submission())
}

func TestBindQueryAndValidate_Layout(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    LayoutQuery
		wantErr bool
	}{
		{name: "all values", query: "columns=3&gap=8&column_width=240", want: LayoutQuery{Columns: 3, Gap: 8, ColumnWidth: 240}},
		{name: "columns only", query: "columns=2", want: LayoutQuery{Columns: 2}},
		{name: "missing columns", query: "gap=1", wantErr: true},
		{name: "zero columns", query: "columns=0", wantErr: true},
		{name: "negative columns", query: "columns=-1", wantErr: true},
		{name: "not a number", query: "columns=three", wantErr: true},
		{name: "negative gap", query: "columns=1&gap=-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/quotations/layout?"+tt.query, nil)

			var q LayoutQuery

			err := BindQueryAndValidate(c, &q)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

// filePart builds a parsed multipart file part with the given declared type.
func filePart(t *testing.T, filename, contentType, content string) (*multipart.FileHeader, multipart.File) {
	t.Helper()

	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)

	if contentType != "" {
		h.Set("Content-Type", contentType)
	}

	part, err := w.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	header := req.MultipartForm.File["image"][0]

	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return header, file
}

func TestCheckImage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		content     string
		maxSize     int64
		check       func(error) bool
	}{
		{name: "png", contentType: MIMEPNG, content: pngMagic, maxSize: 1024},
		{name: "jpeg", contentType: MIMEJPEG, content: jpegMagic, maxSize: 1024},
		{name: "declared gif", contentType: "image/gif", content: "GIF89a", maxSize: 1024, check: domain.IsMedia},
		{name: "text posing as png", contentType: MIMEPNG, content: "hello world", maxSize: 1024, check: domain.IsMedia},
		{name: "missing content type", contentType: "", content: pngMagic, maxSize: 1024, check: domain.IsMedia},
		{name: "too large", contentType: MIMEPNG, content: pngMagic + strings.Repeat("x", 64), maxSize: 16, check: domain.IsMedia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, file := filePart(t, "upload.png", tt.contentType, tt.content)

			err := CheckImage(header, file, tt.maxSize)
			if tt.check == nil {
				require.NoError(t, err)

				// The file is rewound for the next reader.
				buf := make([]byte, 4)
				_, err = file.Read(buf)
				require.NoError(t, err)
				assert.Equal(t, tt.content[:4], string(buf))

				return
			}

			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestCheckImage_TooLargeMessage(t *testing.T) {
	header, file := filePart(t, "big.png", MIMEPNG, pngMagic)
	header.Size = 11 << 20

	err := CheckImage(header, file, 10<<20)
	assert.EqualError(t, err, "file exceeds the 10MB limit")
}

func TestExtension(t *testing.T) {
	header, _ := filePart(t, "Photo.JPG", MIMEJPEG, jpegMagic)
	assert.Equal(t, ".jpg", Extension(header))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		status   int
		message  string
	}{
		{
			name:    "missing fields",
			err:     domain.NewValidationError("", "missing required fields"),
			status:  http.StatusBadRequest,
			message: "missing required fields",
		},
		{
			name:    "field validation",
			err:     domain.NewValidationErrorWithValue("width", "must be an integer", "wide"),
			status:  http.StatusBadRequest,
			message: "width must be an integer",
		},
		{
			name:    "unsupported media",
			err:     domain.NewUnsupportedMediaError(),
			status:  http.StatusBadRequest,
			message: "only JPG and PNG images are supported",
		},
		{
			name:    "too large",
			err:     domain.NewTooLargeError(10 << 20),
			status:  http.StatusBadRequest,
			message: "file exceeds the 10MB limit",
		},
		{
			name:    "invalid columns",
			err:     fmt.Errorf("arranging: %w", layout.ErrInvalidColumns),
			status:  http.StatusBadRequest,
			message: "column count must be at least one",
		},
		{
			name:     "storage error exposes text",
			err:      domain.NewStorageError("writing quotation store", errors.New("disk full")),
			fallback: MessageUploadFailed,
			status:   http.StatusInternalServerError,
			message:  "writing quotation store: disk full",
		},
		{
			name:     "unknown error uses fallback",
			err:      errors.New("boom"),
			fallback: MessageUploadFailed,
			status:   http.StatusInternalServerError,
			message:  "upload failed",
		},
		{
			name:    "unknown error without fallback",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, envelope := MapError(tt.err, tt.fallback)

			assert.Equal(t, tt.status, status)
			require.NotNil(t, envelope)
			assert.False(t, envelope.Success)
			assert.Equal(t, tt.message, envelope.Message)
		})
	}

	status, envelope := MapError(nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, envelope)
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/quotations", nil)

	HandleError(c, errors.New("boom"), MessageReadFailed)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"failed to read quotations"}`, w.Body.String())
}

func TestGetTraceID_NoSpan(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetTraceID(c))

	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetTraceID(c))
}

package dto

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
)

// Accepted image MIME types.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

// UploadForm is the metadata part of POST /upload.
type UploadForm struct {
	Title    string `form:"title" validate:"required"`
	Width    string `form:"width" validate:"required"`
	Height   string `form:"height" validate:"required"`
	Messages string `form:"messages" validate:"required"`
	Format   string `form:"format"`
	Footer   string `form:"footer"`
}

// Submission converts the form into the domain submission.
func (f *UploadForm) Submission() domain.Submission {
	return domain.Submission{
		Title:    f.Title,
		Width:    f.Width,
		Height:   f.Height,
		Messages: f.Messages,
		Format:   f.Format,
		Footer:   f.Footer,
	}
}

// LayoutQuery is the query string of GET /quotations/layout.
type LayoutQuery struct {
	Columns     int     `form:"columns" validate:"required,min=1"`
	Gap         float64 `form:"gap" validate:"gte=0"`
	ColumnWidth float64 `form:"column_width" validate:"gte=0"`
}

// CheckImage applies the media gate to an uploaded file part: the declared
// and the sniffed content type must both be JPEG or PNG, and the file must
// not exceed maxSize bytes. The file is rewound before returning.
func CheckImage(header *multipart.FileHeader, file multipart.File, maxSize int64) error {
	if maxSize > 0 && header.Size > maxSize {
		return domain.NewTooLargeError(maxSize)
	}

	if !isImageType(header.Header.Get("Content-Type")) {
		return domain.NewUnsupportedMediaError()
	}

	sniffed, err := SniffImage(file)
	if err != nil {
		return err
	}

	if !isImageType(sniffed) {
		return domain.NewUnsupportedMediaError()
	}

	return nil
}

// SniffImage detects the content type from the first bytes of file and
// rewinds it.
func SniffImage(file io.ReadSeeker) (string, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("sniffing upload: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding upload: %w", err)
	}

	return mtype.String(), nil
}

// Extension returns the lowercased extension of the client file name.
func Extension(header *multipart.FileHeader) string {
	return strings.ToLower(filepath.Ext(header.Filename))
}

func isImageType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == MIMEJPEG || mediaType == MIMEPNG
}

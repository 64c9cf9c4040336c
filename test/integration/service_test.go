//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"

	"github.com/gin-gonic/gin"

	qwhttp "github.com/jsamuelsen/quotation-wall/internal/adapters/http"
	"github.com/jsamuelsen/quotation-wall/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotation-wall/internal/adapters/storage/imagedir"
	"github.com/jsamuelsen/quotation-wall/internal/adapters/storage/jsonstore"
	"github.com/jsamuelsen/quotation-wall/internal/app"
	"github.com/jsamuelsen/quotation-wall/internal/platform/config"
	"github.com/jsamuelsen/quotation-wall/internal/ports"
)

// Minimal file signatures accepted by the media gate.
const (
	pngBytes  = "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01"
	jpegBytes = "\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// inProcessService runs the full stack against files under root.
type inProcessService struct {
	server    *httptest.Server
	imagesDir string
	indexFile string
}

func startService(root string) (*inProcessService, error) {
	cfg, err := config.LoadFrom(root, "")
	if err != nil {
		return nil, err
	}

	cfg.App.Environment = "test"
	cfg.Storage.ImagesDir = filepath.Join(root, "assets", "quotations")
	cfg.Storage.IndexFile = filepath.Join(root, "assets", "quotations.json")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := jsonstore.New(jsonstore.Config{Path: cfg.Storage.IndexFile, Logger: logger})
	images := imagedir.New(cfg.Storage.ImagesDir, logger)

	if err := app.InitAll(context.Background(), store, images); err != nil {
		return nil, fmt.Errorf("preparing storage: %w", err)
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, err
	}

	if err := registry.Register(images); err != nil {
		return nil, err
	}

	svc := app.NewQuotationService(app.QuotationServiceConfig{Store: store, Images: images, Logger: logger})

	srv := qwhttp.New(&cfg.Server, logger)
	qwhttp.SetupRouter(srv.Engine(), qwhttp.RouterConfig{
		Logger:         logger,
		AppName:        cfg.App.Name,
		CORSEnabled:    cfg.CORS.Enabled,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Timeout:        cfg.Server.RequestTimeout,
		ImagesDir:      cfg.Storage.ImagesDir,
		HealthHandler:  handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "", "")),
		QuotationHandler: handlers.NewQuotationHandler(svc, handlers.QuotationConfig{
			MaxImageSize: cfg.Storage.MaxImageSize,
			DefaultGap:   cfg.Layout.DefaultGap,
			MaxColumns:   cfg.Layout.MaxColumns,
		}),
	})

	return &inProcessService{
		server:    httptest.NewServer(srv.Engine()),
		imagesDir: cfg.Storage.ImagesDir,
		indexFile: cfg.Storage.IndexFile,
	}, nil
}

func (s *inProcessService) Close() {
	s.server.Close()
}

// multipartUpload encodes fields plus an image part. An empty imageType
// omits the image.
func multipartUpload(fields map[string]string, imageType string) (*bytes.Buffer, string, error) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if imageType != "" {
		content, filename := pngBytes, "upload.png"
		if imageType == "jpg" {
			content, filename = jpegBytes, "upload.jpg"
		}

		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
		h.Set("Content-Type", mimeTypes[imageType])

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", err
		}

		if _, err := io.WriteString(part, content); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}

	return &body, mw.FormDataContentType(), nil
}

var mimeTypes = map[string]string{
	"png": "image/png",
	"jpg": "image/jpeg",
}

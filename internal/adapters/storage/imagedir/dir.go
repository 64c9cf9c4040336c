// Package imagedir stores uploaded images as plain files in one directory.
package imagedir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quotation-wall/internal/domain"
)

const (
	checkerName = "image-dir"
	stagePrefix = "temp_"
	fileMode    = 0o644
	dirMode     = 0o755

	// maxExtLen bounds the extension copied from a client filename.
	maxExtLen = 8
)

var errInvalidName = errors.New("invalid file name")

// Dir implements ports.ImageStore for a local directory.
type Dir struct {
	root   string
	logger *slog.Logger
}

// New creates an image directory rooted at root. Call Init before use.
func New(root string, logger *slog.Logger) *Dir {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dir{
		root:   root,
		logger: logger.With(slog.String("component", "imagedir")),
	}
}

// Root returns the directory path.
func (d *Dir) Root() string {
	return d.root
}

// Init creates the directory if it does not exist.
func (d *Dir) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.root, dirMode); err != nil {
		return domain.NewStorageError("creating image directory", err)
	}

	return nil
}

// Stage copies src into a new file named temp_<uuid><ext>.
// A partially written file is removed on failure.
func (d *Dir) Stage(ctx context.Context, src io.Reader, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := stagePrefix + uuid.NewString() + cleanExt(ext)
	path := filepath.Join(d.root, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		return "", domain.NewStorageError("staging image", err)
	}

	_, err = io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			d.logger.WarnContext(ctx, "failed to remove partial upload",
				slog.String("file", name),
				slog.Any("error", rmErr),
			)
		}

		return "", domain.NewStorageError("staging image", err)
	}

	return name, nil
}

// Promote renames a staged file to name, replacing any file already there.
func (d *Dir) Promote(ctx context.Context, staged, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	from, err := d.path(staged)
	if err != nil {
		return err
	}

	to, err := d.path(name)
	if err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return domain.NewStorageError("renaming image", err)
	}

	return nil
}

// Remove deletes name from the directory.
func (d *Dir) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := d.path(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewNotFoundError("image", name)
	}

	if err != nil {
		return domain.NewStorageError("removing image", err)
	}

	return nil
}

// Exists reports whether name is a regular file in the directory.
func (d *Dir) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path, err := d.path(name)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, domain.NewStorageError("checking image", err)
	}

	return info.Mode().IsRegular(), nil
}

// Name implements ports.HealthChecker.
func (d *Dir) Name() string {
	return checkerName
}

// Check implements ports.HealthChecker: the root must be an existing directory.
func (d *Dir) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(d.root)
	if err != nil {
		return fmt.Errorf("image directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("image directory: %s is not a directory", d.root)
	}

	return nil
}

// path resolves a bare file name inside the root.
func (d *Dir) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsRune(name, '\\') {
		return "", domain.NewStorageError("resolving "+name, errInvalidName)
	}

	return filepath.Join(d.root, name), nil
}

// cleanExt keeps a short alphanumeric extension such as ".png" and drops anything else.
func cleanExt(ext string) string {
	if len(ext) < 2 || len(ext) > maxExtLen || ext[0] != '.' {
		return ""
	}

	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}

	return strings.ToLower(ext)
}

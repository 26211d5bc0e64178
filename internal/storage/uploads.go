package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
	ErrUnsupportedImage = errors.New("image type must be JPEG, PNG, WebP or GIF")
	ErrUploadNotFound   = errors.New("uploaded image not found")
)

// allowedImageTypes maps accepted MIME types to the extension stored on disk.
// The type is sniffed from content, never trusted from the request.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageStore saves uploaded product images under a local directory and hands
// back the public reference the catalog stores on the product.
type ImageStore struct {
	dir      string
	maxBytes int64
}

// NewImageStore creates the uploads directory if needed.
func NewImageStore(dir string, maxBytes int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &ImageStore{dir: dir, maxBytes: maxBytes}, nil
}

// Save reads the upload, enforces the size ceiling and MIME whitelist, and
// writes the image under a fresh UUID name. It returns the public URL path.
func (s *ImageStore) Save(r io.Reader) (string, error) {
	// Read one byte past the limit so oversized uploads are detectable
	// without buffering arbitrarily much.
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrImageTooLarge
	}

	kind := mimetype.Detect(data)
	ext, ok := allowedImageTypes[kind.String()]
	if !ok {
		return "", ErrUnsupportedImage
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return "/uploads/" + name, nil
}

// Remove deletes a previously stored image given its public URL path. Missing
// files are reported through ErrUploadNotFound so a double release after a
// form close is distinguishable from an IO failure.
func (s *ImageStore) Remove(urlPath string) error {
	name := filepath.Base(urlPath)
	path := filepath.Join(s.dir, name)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrUploadNotFound
		}
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}

// Dir returns the directory images are stored in; the server mounts it as
// the /uploads static route.
func (s *ImageStore) Dir() string {
	return s.dir
}

package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxImageSize is the upload limit for project images.
const MaxImageSize = 5 * 1024 * 1024 // 5MB

// urlPrefix is the path prefix under which stored images are served.
const urlPrefix = "/uploads/"

// ImageStore saves project image uploads to a local directory and removes
// them again on project deletion. Record deletion and file removal are two
// separate operations; removal is best-effort and SweepOrphans reclaims
// anything stranded in between.
type ImageStore struct {
	dir    string
	logger zerolog.Logger
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	logger := log.With().Str("service", "imageStore").Logger()
	return &ImageStore{dir: dir, logger: logger}, nil
}

// Dir is the local directory holding the stored images, for static serving.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save validates and persists a single uploaded image, returning the URL
// path to store on the project. Only image MIME types and recognized
// extensions up to MaxImageSize are accepted.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", errs.NewBadRequestError(fmt.Sprintf("image exceeds maximum size of %d bytes", MaxImageSize))
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", errs.NewBadRequestError("only image files are allowed")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !models.RecognizedImagePath(header.Filename) || ext == "" {
		return "", errs.NewBadRequestError("unrecognized image extension")
	}

	name := fmt.Sprintf("image-%s%s", uuid.New(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, MaxImageSize)); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return urlPrefix + name, nil
}

// Remove deletes the file behind a stored image path. It never fails the
// caller: a missing or undeletable file only logs a warning, and the sweep
// picks up anything left behind.
func (s *ImageStore) Remove(imagePath string) {
	name, ok := s.localName(imagePath)
	if !ok {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn().Err(err).Str("image", imagePath).Msg("failed to remove image file")
	}
}

// SweepOrphans removes stored files no longer referenced by any project
// and returns how many were reclaimed. inUse holds image paths as stored
// on projects.
func (s *ImageStore) SweepOrphans(inUse []string) (int, error) {
	referenced := make(map[string]struct{}, len(inUse))
	for _, p := range inUse {
		if name, ok := s.localName(p); ok {
			referenced[name] = struct{}{}
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading uploads directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("failed to remove orphaned image")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Msg("reclaimed orphaned image files")
	}
	return removed, nil
}

// localName maps a stored image path back to a file name inside the
// uploads directory. Paths outside the uploads prefix are ignored.
func (s *ImageStore) localName(imagePath string) (string, bool) {
	if !strings.HasPrefix(imagePath, urlPrefix) {
		return "", false
	}
	name := filepath.Base(strings.TrimPrefix(imagePath, urlPrefix))
	if name == "." || name == "/" || name == "" {
		return "", false
	}
	return name, true
}

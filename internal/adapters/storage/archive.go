// internal/adapters/storage/archive.go
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/shelfscan/internal/core/ports"
)

const (
	scanPrefix   = "scans"
	importPrefix = "imports"
)

// ScanArchive keeps scanned images and uploaded catalog files in an ObjectStore
type ScanArchive struct {
	store  ObjectStore
	now    func() time.Time
	logger *slog.Logger
}

var _ ports.ScanArchive = (*ScanArchive)(nil)

// NewScanArchive creates an archive over store
func NewScanArchive(store ObjectStore, logger *slog.Logger) *ScanArchive {
	return &ScanArchive{
		store:  store,
		now:    time.Now,
		logger: logger.With(slog.String("component", "scan_archive")),
	}
}

// Store writes the image as scans/<shop>/<yyyy/mm/dd>/<uuid>.<ext> and
// returns the object key.
func (a *ScanArchive) Store(ctx context.Context, shopID uuid.UUID, image []byte, contentType string) (string, error) {
	key := path.Join(scanPrefix, shopID.String(), a.now().UTC().Format("2006/01/02"),
		uuid.NewString()+extensionFor(contentType, ".bin"))

	if _, err := a.store.Upload(ctx, key, bytes.NewReader(image), contentType); err != nil {
		return "", fmt.Errorf("failed to archive scan: %w", err)
	}

	a.logger.DebugContext(ctx, "scan archived",
		slog.String("shop_id", shopID.String()),
		slog.String("key", key),
		slog.Int("size", len(image)))
	return key, nil
}

// StoreCatalogFile keeps an uploaded import file for the worker to pick up
func (a *ScanArchive) StoreCatalogFile(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = extensionFor(contentType, ".bin")
	}
	key := path.Join(importPrefix, a.now().UTC().Format("2006/01/02"), uuid.NewString()+ext)

	if _, err := a.store.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("failed to store catalog file: %w", err)
	}
	return key, nil
}

// Fetch returns a previously stored object
func (a *ScanArchive) Fetch(ctx context.Context, key string) ([]byte, error) {
	return a.store.Download(ctx, key)
}

// Remove deletes a stored object
func (a *ScanArchive) Remove(ctx context.Context, key string) error {
	return a.store.Delete(ctx, key)
}

func extensionFor(contentType, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0])) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return fallback
}

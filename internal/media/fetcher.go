// Package media downloads provider-hosted attachments to local storage.
package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const fallbackExtension = ".bin"

// Fetcher downloads remote media URLs into a shared upload directory.
// Filenames combine the message id, the URL position and a random
// suffix, so concurrent requests never need a directory lock.
type Fetcher struct {
	uploadDir  string
	maxBytes   int64
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a fetcher writing into uploadDir. Downloads share a
// bounded-timeout client; maxBytes caps each response body.
func NewFetcher(uploadDir string, timeout time.Duration, maxBytes int64, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchAll downloads each URL sequentially and returns the relative
// paths of the files that made it to disk. A failing URL is logged and
// skipped; partial success is expected and preserved.
func (f *Fetcher) FetchAll(ctx context.Context, messageID int64, urls []string) []string {
	paths := make([]string, 0, len(urls))

	for i, url := range urls {
		path, err := f.fetchOne(ctx, messageID, i, url)
		if err != nil {
			f.logger.Warn("Failed to fetch media",
				zap.Int64("messageID", messageID),
				zap.Int("index", i),
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		paths = append(paths, path)
	}

	return paths
}

// fetchOne downloads a single URL and persists it, verifying the file
// exists on disk after the write.
func (f *Fetcher) fetchOne(ctx context.Context, messageID int64, index int, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download media: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.logger.Warn("Failed to close media response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read media body: %w", err)
	}

	ext := extensionFor(resp.Header.Get("Content-Type"))
	name := fmt.Sprintf("%d-%d-%s%s", messageID, index, uuid.New().String(), ext)
	fullPath := filepath.Join(f.uploadDir, name)

	if err := os.MkdirAll(f.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	if err := os.WriteFile(fullPath, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	if _, err := os.Stat(fullPath); err != nil {
		return "", fmt.Errorf("media file missing after write: %w", err)
	}

	return name, nil
}

// ResolvePath returns the absolute location of a stored relative path.
func (f *Fetcher) ResolvePath(relative string) string {
	return filepath.Join(f.uploadDir, relative)
}

// extensionFor derives a file extension from the response content type,
// falling back to a generic binary extension.
func extensionFor(contentType string) string {
	if contentType == "" {
		return fallbackExtension
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fallbackExtension
	}

	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "audio/mpeg":
		return ".mp3"
	case "application/pdf":
		return ".pdf"
	case "text/plain":
		return ".txt"
	}

	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		ext := exts[0]
		if strings.HasPrefix(ext, ".") {
			return ext
		}
	}

	return fallbackExtension
}

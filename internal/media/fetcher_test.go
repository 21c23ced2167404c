package media_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propline/sms-dashboard/internal/media"
)

func newTestFetcher(t *testing.T, maxBytes int64) (*media.Fetcher, string) {
	t.Helper()
	dir := t.TempDir()
	return media.NewFetcher(dir, 5*time.Second, maxBytes, zap.NewNop()), dir
}

func TestFetcher_FetchAll_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/a":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/b":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("pdf-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	fetcher, dir := newTestFetcher(t, 1<<20)

	paths := fetcher.FetchAll(context.Background(), 42, []string{
		server.URL + "/a",
		server.URL + "/b",
	})

	require.Len(t, paths, 2)
	assert.True(t, strings.HasPrefix(paths[0], "42-0-"))
	assert.True(t, strings.HasSuffix(paths[0], ".jpg"))
	assert.True(t, strings.HasPrefix(paths[1], "42-1-"))
	assert.True(t, strings.HasSuffix(paths[1], ".pdf"))

	content, err := os.ReadFile(filepath.Join(dir, paths[0]))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))
}

func TestFetcher_FetchAll_PartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	fetcher, _ := newTestFetcher(t, 1<<20)

	paths := fetcher.FetchAll(context.Background(), 7, []string{
		server.URL + "/one",
		server.URL + "/broken",
		server.URL + "/two",
	})

	// The failing URL is skipped; the files around it survive.
	require.Len(t, paths, 2)
	assert.True(t, strings.HasPrefix(paths[0], "7-0-"))
	assert.True(t, strings.HasPrefix(paths[1], "7-2-"))
}

func TestFetcher_FetchAll_AllFail(t *testing.T) {
	fetcher, _ := newTestFetcher(t, 1<<20)

	paths := fetcher.FetchAll(context.Background(), 9, []string{
		"http://localhost:1/unreachable",
	})

	assert.Empty(t, paths)
}

func TestFetcher_FetchAll_NoURLs(t *testing.T) {
	fetcher, _ := newTestFetcher(t, 1<<20)

	paths := fetcher.FetchAll(context.Background(), 3, nil)

	assert.Empty(t, paths)
}

func TestFetcher_SizeCap(t *testing.T) {
	payload := strings.Repeat("x", 100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	fetcher, dir := newTestFetcher(t, 10)

	paths := fetcher.FetchAll(context.Background(), 1, []string{server.URL})

	require.Len(t, paths, 1)
	content, err := os.ReadFile(filepath.Join(dir, paths[0]))
	require.NoError(t, err)
	assert.Len(t, content, 10)
}

func TestFetcher_UnknownContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-propline-custom")
		_, _ = w.Write([]byte("data"))
	}))
	defer server.Close()

	fetcher, _ := newTestFetcher(t, 1<<20)

	paths := fetcher.FetchAll(context.Background(), 5, []string{server.URL})

	require.Len(t, paths, 1)
	assert.True(t, strings.HasSuffix(paths[0], ".bin"))
}

func TestFetcher_ResolvePath(t *testing.T) {
	fetcher, dir := newTestFetcher(t, 1<<20)

	assert.Equal(t, filepath.Join(dir, "1-0-abc.jpg"), fetcher.ResolvePath("1-0-abc.jpg"))
}

package imagecache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}
func (nopLogger) Debugf(string, ...any)        {}

type memRepo struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	puts    int
}

func newMemRepo() *memRepo {
	return &memRepo{objects: make(map[string][]byte)}
}

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.objects[key], nil
}

func (m *memRepo) Put(_ context.Context, key string, data []byte, _ string) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = data
	return nil
}

func TestFetchImage_CacheHitSkipsDownload(t *testing.T) {
	downloads := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads++
		w.Write([]byte("fresh bytes"))
	}))
	defer srv.Close()

	repo := newMemRepo()
	repo.objects[CacheKey(srv.URL)] = []byte("cached bytes")

	cache := NewImageCache(repo, srv.Client(), nopLogger{})

	got, err := cache.FetchImage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("cached bytes"), got)
	assert.Zero(t, downloads)
}

func TestFetchImage_MissDownloadsAndCaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("image bytes"))
	}))
	defer srv.Close()

	repo := newMemRepo()
	cache := NewImageCache(repo, srv.Client(), nopLogger{})

	got, err := cache.FetchImage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), got)
	assert.Equal(t, []byte("image bytes"), repo.objects[CacheKey(srv.URL)])

	// повторный запрос идёт из кэша
	got, err = cache.FetchImage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), got)
	assert.Equal(t, 1, repo.puts)
}

func TestFetchImage_CacheWriteFailureStillReturnsBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image bytes"))
	}))
	defer srv.Close()

	repo := newMemRepo()
	repo.putErr = errors.New("bucket unavailable")
	cache := NewImageCache(repo, srv.Client(), nopLogger{})

	got, err := cache.FetchImage(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("image bytes"), got)
}

func TestFetchImage_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache := NewImageCache(newMemRepo(), srv.Client(), nopLogger{})

	_, err := cache.FetchImage(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestCacheKey_Deterministic(t *testing.T) {
	assert.Equal(t, CacheKey("http://img/1.jpg"), CacheKey("http://img/1.jpg"))
	assert.NotEqual(t, CacheKey("http://img/1.jpg"), CacheKey("http://img/2.jpg"))
}

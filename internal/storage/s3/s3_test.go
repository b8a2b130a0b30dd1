package s3storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"agri_trade/internal/storage"
	s3storage "agri_trade/internal/storage/s3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   map[string]int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
	status, ok := f.status[r.Method]
	f.mu.Unlock()

	if !ok {
		status = http.StatusOK
		if r.Method == http.MethodDelete {
			status = http.StatusNoContent
		}
	}

	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(status)
}

func setupStorage(t *testing.T, status map[string]int) (*s3storage.Storage, *fakeS3) {
	t.Helper()

	fake := &fakeS3{status: status}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	st, err := s3storage.New(context.Background(), s3storage.Options{
		Bucket:          "images",
		Endpoint:        srv.URL,
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		PublicBaseURL:   "https://cdn.example.com/",
	})
	require.NoError(t, err)

	return st, fake
}

func TestStorage_Upload(t *testing.T) {
	st, fake := setupStorage(t, nil)

	url, err := st.Upload(context.Background(), "abc.webp", strings.NewReader("payload"), 7, "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/storage/v1/object/public/images/abc.webp", url)

	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodPut, fake.requests[0].Method)
	assert.Equal(t, "/images/abc.webp", fake.requests[0].Path)
	assert.Equal(t, "image/webp", fake.requests[0].ContentType)
	assert.Equal(t, "payload", fake.requests[0].Body)
}

func TestStorage_UploadUpstreamError(t *testing.T) {
	st, _ := setupStorage(t, map[string]int{http.MethodPut: http.StatusForbidden})

	_, err := st.Upload(context.Background(), "abc.webp", strings.NewReader("payload"), 7, "image/webp")
	assert.Error(t, err)
}

func TestStorage_Delete(t *testing.T) {
	st, fake := setupStorage(t, nil)

	require.NoError(t, st.Delete(context.Background(), "abc.webp"))
	require.Len(t, fake.requests, 1)
	assert.Equal(t, http.MethodDelete, fake.requests[0].Method)
	assert.Equal(t, "/images/abc.webp", fake.requests[0].Path)
}

func TestStorage_InvalidKey(t *testing.T) {
	st, fake := setupStorage(t, nil)

	tests := []string{"", "../etc/passwd", "/abs.png"}
	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := st.Upload(context.Background(), key, strings.NewReader("x"), 1, "")
			assert.ErrorIs(t, err, storage.ErrInvalidKey)

			err = st.Delete(context.Background(), key)
			assert.ErrorIs(t, err, storage.ErrInvalidKey)
		})
	}

	assert.Empty(t, fake.requests)
}

func TestStorage_Ping(t *testing.T) {
	t.Run("bucket exists", func(t *testing.T) {
		st, fake := setupStorage(t, nil)
		require.NoError(t, st.Ping(context.Background()))
		require.Len(t, fake.requests, 1)
		assert.Equal(t, http.MethodHead, fake.requests[0].Method)
	})

	t.Run("bucket missing", func(t *testing.T) {
		st, _ := setupStorage(t, map[string]int{http.MethodHead: http.StatusNotFound})
		err := st.Ping(context.Background())
		require.Error(t, err)
		assert.True(t, s3storage.IsNotFound(err))
	})
}

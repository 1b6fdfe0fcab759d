package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-ai/lodestone/internal/log"
	"github.com/lodestone-ai/lodestone/internal/openai"
	"github.com/lodestone-ai/lodestone/internal/storage"
)

// fakeBucket keeps file bytes in memory, keyed per tenant.
type fakeBucket struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: make(map[string][]byte)}
}

func (b *fakeBucket) key(fileID string, tenantID uuid.UUID) string {
	return tenantID.String() + "/" + fileID
}

func (b *fakeBucket) Upload(_ context.Context, fileID string, tenantID uuid.UUID, data []byte) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	b.objects[b.key(fileID, tenantID)] = data
	return nil
}

func (b *fakeBucket) Download(_ context.Context, fileID string, tenantID uuid.UUID) ([]byte, error) {
	data, ok := b.objects[b.key(fileID, tenantID)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", storage.ErrNotFound, fileID)
	}
	return data, nil
}

func (b *fakeBucket) Delete(_ context.Context, fileID string, tenantID uuid.UUID) (bool, error) {
	key := b.key(fileID, tenantID)
	if _, ok := b.objects[key]; !ok {
		return false, nil
	}
	delete(b.objects, key)
	return true, nil
}

func newFileMux(bucket FileBucket) (*http.ServeMux, *memStore[openai.FileObject]) {
	files := newMemStore[openai.FileObject]()
	mux := http.NewServeMux()
	NewFileHandler(files, bucket, log.NewNop()).RegisterRoutes(mux)
	return mux, files
}

// uploadRequest builds a multipart upload with a single file part.
func uploadRequest(t *testing.T, filename, content, purpose string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if purpose != "" {
		require.NoError(t, mw.WriteField("purpose", purpose))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/openai/v1/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFileUploadAndDownload(t *testing.T) {
	bucket := newFakeBucket()
	mux, _ := newFileMux(bucket)
	tenant := uuid.New()

	w := doRequest(t, mux, uploadRequest(t, "notes.txt", "file body", ""), tenant)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	file := decodeBody[openai.FileObject](t, w)
	assert.Contains(t, file.ID, "file-")
	assert.Equal(t, "notes.txt", file.Filename)
	assert.Equal(t, int64(len("file body")), file.Bytes)
	assert.Equal(t, "assistants", file.Purpose)

	contentReq := httptest.NewRequest(http.MethodGet, "/openai/v1/files/"+file.ID+"/content", nil)
	w = doRequest(t, mux, contentReq, tenant)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "file body", w.Body.String())
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}

func TestFileUploadExplicitPurpose(t *testing.T) {
	mux, _ := newFileMux(newFakeBucket())

	w := doRequest(t, mux, uploadRequest(t, "eval.jsonl", "{}", "fine-tune"), uuid.New())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine-tune", decodeBody[openai.FileObject](t, w).Purpose)
}

func TestFileUploadMissingFileField(t *testing.T) {
	mux, _ := newFileMux(newFakeBucket())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("purpose", "assistants"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/openai/v1/files", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := doRequest(t, mux, req, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFileContentTenantScoped(t *testing.T) {
	bucket := newFakeBucket()
	mux, _ := newFileMux(bucket)

	owner := uuid.New()
	uploaded := decodeBody[openai.FileObject](t, doRequest(t, mux, uploadRequest(t, "a.txt", "secret", ""), owner))

	// Another tenant cannot read the bytes.
	contentReq := httptest.NewRequest(http.MethodGet, "/openai/v1/files/"+uploaded.ID+"/content", nil)
	w := doRequest(t, mux, contentReq, uuid.New())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFileDeleteRemovesBytes(t *testing.T) {
	bucket := newFakeBucket()
	mux, _ := newFileMux(bucket)
	tenant := uuid.New()

	uploaded := decodeBody[openai.FileObject](t, doRequest(t, mux, uploadRequest(t, "a.txt", "data", ""), tenant))

	delReq := httptest.NewRequest(http.MethodDelete, "/openai/v1/files/"+uploaded.ID, nil)
	w := doRequest(t, mux, delReq, tenant)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[openai.FileDeleted](t, w)
	assert.True(t, got.Deleted)
	assert.Equal(t, "file.deleted", got.Object)
	assert.Empty(t, bucket.objects)
}

func TestFileList(t *testing.T) {
	mux, _ := newFileMux(newFakeBucket())
	tenant := uuid.New()

	for _, name := range []string{"a.txt", "b.txt"} {
		require.Equal(t, http.StatusOK, doRequest(t, mux, uploadRequest(t, name, "x", ""), tenant).Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/openai/v1/files", nil)
	w := doRequest(t, mux, listReq, tenant)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[openai.List[openai.FileObject]](t, w)
	require.Len(t, got.Data, 2)
	assert.Equal(t, "a.txt", got.Data[0].Filename)
}

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/openai"
)

// MaxUploadBytes caps multipart file uploads.
const MaxUploadBytes = 50 << 20

// FileBucket stores raw file bytes; *storage.Bucket satisfies it.
type FileBucket interface {
	Upload(ctx context.Context, fileID string, tenantID uuid.UUID, data []byte) error
	Download(ctx context.Context, fileID string, tenantID uuid.UUID) ([]byte, error)
	Delete(ctx context.Context, fileID string, tenantID uuid.UUID) (bool, error)
}

// FileHandler handles file upload, listing, and deletion. File metadata
// lives in the file_objects table; the bytes live in the bucket.
type FileHandler struct {
	files  RecordStore[openai.FileObject]
	bucket FileBucket
	logger *slog.Logger
}

// NewFileHandler creates a file handler. logger may be nil.
func NewFileHandler(files RecordStore[openai.FileObject], bucket FileBucket, logger *slog.Logger) *FileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileHandler{files: files, bucket: bucket, logger: logger}
}

// RegisterRoutes registers file routes on the given mux.
func (h *FileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /openai/v1/files", h.upload)
	mux.HandleFunc("GET /openai/v1/files", h.list)
	mux.HandleFunc("GET /openai/v1/files/{id}", h.get)
	mux.HandleFunc("GET /openai/v1/files/{id}/content", h.content)
	mux.HandleFunc("DELETE /openai/v1/files/{id}", h.delete)
}

func (h *FileHandler) upload(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid multipart form")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "file field is required")
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "reading file upload")
		return
	}

	purpose := r.FormValue("purpose")
	if purpose == "" {
		purpose = "assistants"
	}

	file := openai.FileObject{
		ID:        "file-" + uuid.NewString(),
		Object:    openai.ObjectFile,
		Bytes:     int64(len(data)),
		CreatedAt: time.Now().Unix(),
		Filename:  header.Filename,
		Purpose:   purpose,
	}

	if err := h.bucket.Upload(r.Context(), file.ID, tenantID, data); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	created, err := h.files.Create(r.Context(), tenantID, file.ID, file)
	if err != nil {
		// Roll back the orphaned bytes so the bucket matches the metadata.
		if _, delErr := h.bucket.Delete(r.Context(), file.ID, tenantID); delErr != nil {
			h.logger.Warn("cleaning up failed upload", "file_id", file.ID, "error", delErr)
		}
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *FileHandler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	files, err := h.files.List(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.NewList(files))
}

func (h *FileHandler) get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	file, err := h.files.Get(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (h *FileHandler) content(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	data, err := h.bucket.Download(r.Context(), r.PathValue("id"), tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}

func (h *FileHandler) delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	deleted, err := h.files.Delete(r.Context(), tenantID, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if deleted {
		if _, err := h.bucket.Delete(r.Context(), id, tenantID); err != nil {
			h.logger.Warn("deleting file bytes", "file_id", id, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, openai.FileDeleted{ID: id, Object: "file.deleted", Deleted: deleted})
}

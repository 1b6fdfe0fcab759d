package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/openai"
)

// IndexService is the indexing surface the vector store router needs;
// *rag.Indexer satisfies it.
type IndexService interface {
	CreateVectorStore(ctx context.Context, req openai.CreateVectorStoreRequest, tenantID uuid.UUID) (openai.VectorStore, error)
	GetVectorStore(ctx context.Context, storeID string, tenantID uuid.UUID) (openai.VectorStore, error)
	ListVectorStores(ctx context.Context, tenantID uuid.UUID) ([]openai.VectorStore, error)
	AttachFile(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (openai.VectorStoreFile, error)
	RemoveFile(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (bool, error)
	GetVectorStoreFile(ctx context.Context, storeID, fileID string, tenantID uuid.UUID) (openai.VectorStoreFile, error)
	ListVectorStoreFiles(ctx context.Context, storeID string, tenantID uuid.UUID) ([]openai.VectorStoreFile, error)
}

// VectorStoreHandler handles vector store and vector store file endpoints.
// Indexing runs synchronously within the request.
type VectorStoreHandler struct {
	indexer IndexService
	logger  *slog.Logger
}

// NewVectorStoreHandler creates a vector store handler. logger may be nil.
func NewVectorStoreHandler(indexer IndexService, logger *slog.Logger) *VectorStoreHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorStoreHandler{indexer: indexer, logger: logger}
}

// RegisterRoutes registers vector store routes on the given mux.
func (h *VectorStoreHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /openai/v1/vector_stores", h.create)
	mux.HandleFunc("GET /openai/v1/vector_stores", h.list)
	mux.HandleFunc("GET /openai/v1/vector_stores/{id}", h.get)
	mux.HandleFunc("POST /openai/v1/vector_stores/{id}/files", h.attachFile)
	mux.HandleFunc("GET /openai/v1/vector_stores/{id}/files", h.listFiles)
	mux.HandleFunc("GET /openai/v1/vector_stores/{id}/files/{file_id}", h.getFile)
	mux.HandleFunc("DELETE /openai/v1/vector_stores/{id}/files/{file_id}", h.removeFile)
}

func (h *VectorStoreHandler) create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req openai.CreateVectorStoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	store, err := h.indexer.CreateVectorStore(r.Context(), req, tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *VectorStoreHandler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	stores, err := h.indexer.ListVectorStores(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.NewList(stores))
}

func (h *VectorStoreHandler) get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	store, err := h.indexer.GetVectorStore(r.Context(), r.PathValue("id"), tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (h *VectorStoreHandler) attachFile(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req openai.CreateVectorStoreFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FileID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "file_id is required")
		return
	}

	file, err := h.indexer.AttachFile(r.Context(), r.PathValue("id"), req.FileID, tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (h *VectorStoreHandler) listFiles(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	files, err := h.indexer.ListVectorStoreFiles(r.Context(), r.PathValue("id"), tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.NewList(files))
}

func (h *VectorStoreHandler) getFile(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	file, err := h.indexer.GetVectorStoreFile(r.Context(), r.PathValue("id"), r.PathValue("file_id"), tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (h *VectorStoreHandler) removeFile(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	fileID := r.PathValue("file_id")
	deleted, err := h.indexer.RemoveFile(r.Context(), r.PathValue("id"), fileID, tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.VectorStoreFileDeleted{
		ID:      fileID,
		Object:  "vector_store.file.deleted",
		Deleted: deleted,
	})
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/openai"
)

// AssistantHandler handles assistant CRUD endpoints.
type AssistantHandler struct {
	store  RecordStore[openai.Assistant]
	logger *slog.Logger
}

// NewAssistantHandler creates an assistant handler. logger may be nil.
func NewAssistantHandler(store RecordStore[openai.Assistant], logger *slog.Logger) *AssistantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistantHandler{store: store, logger: logger}
}

// RegisterRoutes registers assistant routes on the given mux.
func (h *AssistantHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /openai/v1/assistants", h.create)
	mux.HandleFunc("GET /openai/v1/assistants", h.list)
	mux.HandleFunc("GET /openai/v1/assistants/{id}", h.get)
	mux.HandleFunc("POST /openai/v1/assistants/{id}", h.modify)
	mux.HandleFunc("DELETE /openai/v1/assistants/{id}", h.delete)
}

func (h *AssistantHandler) create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req openai.CreateAssistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "model is required")
		return
	}

	assistant := assistantFromRequest(req)
	assistant.ID = "asst_" + uuid.NewString()
	assistant.CreatedAt = time.Now().Unix()

	created, err := h.store.Create(r.Context(), tenantID, assistant.ID, assistant)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *AssistantHandler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	assistants, err := h.store.List(r.Context(), tenantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.NewList(assistants))
}

func (h *AssistantHandler) get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	assistant, err := h.store.Get(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, assistant)
}

func (h *AssistantHandler) modify(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	existing, err := h.store.Get(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req openai.ModifyAssistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated := applyAssistantChanges(existing, req)
	saved, err := h.store.Update(r.Context(), tenantID, existing.ID, updated)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *AssistantHandler) delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	deleted, err := h.store.Delete(r.Context(), tenantID, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.Deleted{ID: id, Object: "assistant.deleted", Deleted: deleted})
}

func assistantFromRequest(req openai.CreateAssistantRequest) openai.Assistant {
	tools := req.Tools
	if tools == nil {
		tools = []openai.Tool{}
	}
	return openai.Assistant{
		Object:        openai.ObjectAssistant,
		Name:          req.Name,
		Description:   req.Description,
		Model:         req.Model,
		Instructions:  req.Instructions,
		Tools:         tools,
		ToolResources: req.ToolResources,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		Metadata:      req.Metadata,
	}
}

// applyAssistantChanges overlays non-zero request fields onto the stored
// assistant. Zero values mean "leave unchanged".
func applyAssistantChanges(a openai.Assistant, req openai.ModifyAssistantRequest) openai.Assistant {
	if req.Model != "" {
		a.Model = req.Model
	}
	if req.Name != "" {
		a.Name = req.Name
	}
	if req.Description != "" {
		a.Description = req.Description
	}
	if req.Instructions != "" {
		a.Instructions = req.Instructions
	}
	if req.Tools != nil {
		a.Tools = req.Tools
	}
	if req.ToolResources != nil {
		a.ToolResources = req.ToolResources
	}
	if req.Temperature != nil {
		a.Temperature = req.Temperature
	}
	if req.TopP != nil {
		a.TopP = req.TopP
	}
	if req.Metadata != nil {
		a.Metadata = req.Metadata
	}
	return a
}

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/openai"
)

// ThreadHandler handles thread and thread-message endpoints.
type ThreadHandler struct {
	threads  RecordStore[openai.Thread]
	messages RecordStore[openai.Message]
	logger   *slog.Logger
}

// NewThreadHandler creates a thread handler. logger may be nil.
func NewThreadHandler(threads RecordStore[openai.Thread], messages RecordStore[openai.Message], logger *slog.Logger) *ThreadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThreadHandler{threads: threads, messages: messages, logger: logger}
}

// RegisterRoutes registers thread routes on the given mux.
func (h *ThreadHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /openai/v1/threads", h.create)
	mux.HandleFunc("GET /openai/v1/threads/{id}", h.get)
	mux.HandleFunc("DELETE /openai/v1/threads/{id}", h.delete)
	mux.HandleFunc("POST /openai/v1/threads/{id}/messages", h.createMessage)
	mux.HandleFunc("GET /openai/v1/threads/{id}/messages", h.listMessages)
	mux.HandleFunc("GET /openai/v1/threads/{id}/messages/{message_id}", h.getMessage)
}

func (h *ThreadHandler) create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	var req openai.CreateThreadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	thread := openai.Thread{
		ID:            "thread_" + uuid.NewString(),
		Object:        openai.ObjectThread,
		CreatedAt:     time.Now().Unix(),
		ToolResources: req.ToolResources,
		Metadata:      req.Metadata,
	}

	created, err := h.threads.Create(r.Context(), tenantID, thread.ID, thread)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	for _, m := range req.Messages {
		if _, err := h.appendMessage(r, tenantID, thread.ID, m, ""); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, created)
}

func (h *ThreadHandler) get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	thread, err := h.threads.Get(r.Context(), tenantID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

// delete removes the thread and its messages. Message cleanup is best
// effort; orphaned messages are unreachable through the API.
func (h *ThreadHandler) delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	deleted, err := h.threads.Delete(r.Context(), tenantID, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if deleted {
		messages, err := h.messages.ListByField(r.Context(), tenantID, "thread_id", id)
		if err != nil {
			h.logger.Warn("listing messages for deleted thread", "thread_id", id, "error", err)
		}
		for _, m := range messages {
			if _, err := h.messages.Delete(r.Context(), tenantID, m.ID); err != nil {
				h.logger.Warn("deleting thread message", "message_id", m.ID, "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, openai.Deleted{ID: id, Object: "thread.deleted", Deleted: deleted})
}

func (h *ThreadHandler) createMessage(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	threadID := r.PathValue("id")
	if _, err := h.threads.Get(r.Context(), tenantID, threadID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req openai.CreateMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Role != "user" && req.Role != "assistant" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "role must be user or assistant")
		return
	}

	created, err := h.appendMessage(r, tenantID, threadID, req, "")
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *ThreadHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	threadID := r.PathValue("id")
	if _, err := h.threads.Get(r.Context(), tenantID, threadID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	messages, err := h.messages.ListByField(r.Context(), tenantID, "thread_id", threadID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.NewList(messages))
}

func (h *ThreadHandler) getMessage(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	message, err := h.messages.Get(r.Context(), tenantID, r.PathValue("message_id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, message)
}

func (h *ThreadHandler) appendMessage(r *http.Request, tenantID uuid.UUID, threadID string, req openai.CreateMessageRequest, runID string) (openai.Message, error) {
	message := openai.Message{
		ID:        "msg_" + uuid.NewString(),
		Object:    openai.ObjectThreadMessage,
		CreatedAt: time.Now().Unix(),
		ThreadID:  threadID,
		Role:      req.Role,
		Content:   openai.TextContent(req.Content),
		RunID:     runID,
		Metadata:  req.Metadata,
	}
	return h.messages.Create(r.Context(), tenantID, message.ID, message)
}

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/openai"
)

// ChatHandler handles the /chat/completions endpoint.
type ChatHandler struct {
	completer Completer
	logger    *slog.Logger
}

// NewChatHandler creates a chat handler. logger may be nil.
func NewChatHandler(completer Completer, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{completer: completer, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /openai/v1/chat/completions", h.complete)
}

func (h *ChatHandler) complete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireTenant(w, r); !ok {
		return
	}

	var req openai.ChatCompletionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "messages is required")
		return
	}

	if req.Stream {
		h.stream(w, r, req)
		return
	}

	text, err := h.completer.Complete(r.Context(), req.Messages)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, openai.ChatCompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []openai.ChatCompletionChoice{{
			Index:        0,
			Message:      openai.ChatMessage{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
	})
}

func (h *ChatHandler) stream(w http.ResponseWriter, r *http.Request, req openai.ChatCompletionRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	id := "chatcmpl-" + uuid.NewString()
	created := time.Now().Unix()
	first := true

	_, err := h.completer.Stream(r.Context(), req.Messages, func(delta string) error {
		chunk := openai.ChatCompletionChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   req.Model,
			Choices: []openai.ChatCompletionChunkChoice{{Delta: openai.ChatDelta{Content: delta}}},
		}
		if first {
			chunk.Choices[0].Delta.Role = "assistant"
			first = false
		}
		return writeSSE(w, flusher, "", chunk)
	})
	if err != nil {
		h.logger.Error("streamed completion failed", "error", err)
	} else {
		stop := "stop"
		final := openai.ChatCompletionChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   req.Model,
			Choices: []openai.ChatCompletionChunkChoice{{Delta: openai.ChatDelta{}, FinishReason: &stop}},
		}
		if err := writeSSE(w, flusher, "", final); err != nil {
			h.logger.Error("writing final chunk", "error", err)
		}
	}

	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/chat"
	"github.com/lodestone-ai/lodestone/internal/openai"
	"github.com/lodestone-ai/lodestone/internal/rag"
)

// Retriever answers similarity queries for the file_search tool;
// *rag.Retriever satisfies it.
type Retriever interface {
	Query(ctx context.Context, query, storeID string, tenantID uuid.UUID) ([]rag.Result, error)
}

// Completer generates chat responses; *chat.Completer satisfies it.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatMessage) (string, error)
	Stream(ctx context.Context, messages []openai.ChatMessage, stream chat.StreamFunc) (string, error)
}

// RunHandler executes runs: it assembles the thread's conversation,
// splices in file_search context, invokes the model, and records the
// assistant's reply as a new thread message.
type RunHandler struct {
	runs       RecordStore[openai.Run]
	threads    RecordStore[openai.Thread]
	messages   RecordStore[openai.Message]
	assistants RecordStore[openai.Assistant]
	retriever  Retriever
	completer  Completer
	logger     *slog.Logger
}

// NewRunHandler creates a run handler. logger may be nil.
func NewRunHandler(
	runs RecordStore[openai.Run],
	threads RecordStore[openai.Thread],
	messages RecordStore[openai.Message],
	assistants RecordStore[openai.Assistant],
	retriever Retriever,
	completer Completer,
	logger *slog.Logger,
) *RunHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunHandler{
		runs:       runs,
		threads:    threads,
		messages:   messages,
		assistants: assistants,
		retriever:  retriever,
		completer:  completer,
		logger:     logger,
	}
}

// RegisterRoutes registers run routes on the given mux.
func (h *RunHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /openai/v1/threads/{id}/runs", h.create)
	mux.HandleFunc("GET /openai/v1/threads/{id}/runs", h.list)
	mux.HandleFunc("GET /openai/v1/threads/{id}/runs/{run_id}", h.get)
}

func (h *RunHandler) create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	threadID := r.PathValue("id")
	var req openai.CreateRunRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AssistantID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "assistant_id is required")
		return
	}

	thread, err := h.threads.Get(r.Context(), tenantID, threadID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	assistant, err := h.assistants.Get(r.Context(), tenantID, req.AssistantID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	history, err := h.messages.ListByField(r.Context(), tenantID, "thread_id", threadID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	run := runFromRequest(req, threadID, assistant)
	run, err = h.runs.Create(r.Context(), tenantID, run.ID, run)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	prompt := h.buildPrompt(r.Context(), tenantID, run, assistant, thread, history)

	if req.Stream {
		h.streamRun(w, r, tenantID, run, prompt)
		return
	}

	text, err := h.completer.Complete(r.Context(), prompt)
	run = h.finishRun(r.Context(), tenantID, run, text, err)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *RunHandler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	runs, err := h.runs.ListByField(r.Context(), tenantID, "thread_id", r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, openai.NewList(runs))
}

func (h *RunHandler) get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := requireTenant(w, r)
	if !ok {
		return
	}

	run, err := h.runs.Get(r.Context(), tenantID, r.PathValue("run_id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// buildPrompt converts thread history into chat messages, prepending the
// assistant's instructions and splicing retrieved file context immediately
// before the final user message when file_search resources are attached.
func (h *RunHandler) buildPrompt(ctx context.Context, tenantID uuid.UUID, run openai.Run, assistant openai.Assistant, thread openai.Thread, history []openai.Message) []openai.ChatMessage {
	prompt := make([]openai.ChatMessage, 0, len(history)+2)
	if run.Instructions != "" {
		prompt = append(prompt, openai.ChatMessage{Role: "system", Content: run.Instructions})
	}
	for _, m := range history {
		prompt = append(prompt, openai.ChatMessage{Role: m.Role, Content: messageText(m)})
	}

	storeIDs := fileSearchStores(run.ToolResources, thread.ToolResources, assistant.ToolResources)
	if len(storeIDs) == 0 || !hasFileSearchTool(run.Tools) {
		return prompt
	}

	query, lastUser := lastUserMessage(prompt)
	if lastUser < 0 {
		return prompt
	}

	contextBlock := h.retrieveContext(ctx, tenantID, query, storeIDs)
	if contextBlock == "" {
		return prompt
	}

	spliced := make([]openai.ChatMessage, 0, len(prompt)+1)
	spliced = append(spliced, prompt[:lastUser]...)
	spliced = append(spliced, openai.ChatMessage{Role: "system", Content: contextBlock})
	spliced = append(spliced, prompt[lastUser:]...)
	return spliced
}

// retrieveContext queries each attached vector store and formats the
// results as a context block. Retrieval failures degrade to no context.
func (h *RunHandler) retrieveContext(ctx context.Context, tenantID uuid.UUID, query string, storeIDs []string) string {
	var b strings.Builder
	for _, storeID := range storeIDs {
		results, err := h.retriever.Query(ctx, query, storeID, tenantID)
		if err != nil {
			h.logger.Warn("file_search retrieval failed", "vector_store_id", storeID, "error", err)
			continue
		}
		for _, res := range results {
			fmt.Fprintf(&b, "%s\n\n", res.Content)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "Use the following pieces of retrieved context to answer the question:\n\n" + b.String()
}

// streamRun executes the run while streaming the assistant message as
// thread.message.delta server-sent events, then records the final message
// and run status.
func (h *RunHandler) streamRun(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID, run openai.Run, prompt []openai.ChatMessage) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "server_error", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	messageID := "msg_" + uuid.NewString()
	text, err := h.completer.Stream(r.Context(), prompt, func(delta string) error {
		event := openai.MessageDeltaEvent{
			ID:     messageID,
			Object: "thread.message.delta",
			Delta: openai.MessageDelta{
				Content: []openai.MessageDeltaContent{{
					Index: 0,
					Type:  "text",
					Text:  openai.Text{Value: delta, Annotations: []any{}},
				}},
			},
		}
		return writeSSE(w, flusher, "thread.message.delta", event)
	})

	run = h.finishRunWithMessageID(r.Context(), tenantID, run, messageID, text, err)

	if err != nil {
		h.logger.Error("streamed run failed", "run_id", run.ID, "error", err)
	}
	_, _ = fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// finishRun records the assistant message and the run's terminal status.
func (h *RunHandler) finishRun(ctx context.Context, tenantID uuid.UUID, run openai.Run, text string, genErr error) openai.Run {
	return h.finishRunWithMessageID(ctx, tenantID, run, "msg_"+uuid.NewString(), text, genErr)
}

func (h *RunHandler) finishRunWithMessageID(ctx context.Context, tenantID uuid.UUID, run openai.Run, messageID, text string, genErr error) openai.Run {
	if genErr != nil {
		run.Status = openai.RunStatusFailed
		run.LastError = &openai.LastError{Code: "server_error", Message: genErr.Error()}
	} else {
		message := openai.Message{
			ID:        messageID,
			Object:    openai.ObjectThreadMessage,
			CreatedAt: time.Now().Unix(),
			ThreadID:  run.ThreadID,
			Role:      "assistant",
			Content:   openai.TextContent(text),
			RunID:     run.ID,
		}
		if _, err := h.messages.Create(ctx, tenantID, message.ID, message); err != nil {
			h.logger.Error("recording assistant message", "run_id", run.ID, "error", err)
		}
		run.Status = openai.RunStatusCompleted
	}

	updated, err := h.runs.Update(ctx, tenantID, run.ID, run)
	if err != nil {
		h.logger.Error("updating run status", "run_id", run.ID, "error", err)
		return run
	}
	return updated
}

func runFromRequest(req openai.CreateRunRequest, threadID string, assistant openai.Assistant) openai.Run {
	model := req.Model
	if model == "" {
		model = assistant.Model
	}
	instructions := req.Instructions
	if instructions == "" {
		instructions = assistant.Instructions
	}
	tools := req.Tools
	if tools == nil {
		tools = assistant.Tools
	}
	if tools == nil {
		tools = []openai.Tool{}
	}
	toolResources := req.ToolResources
	if toolResources == nil {
		toolResources = assistant.ToolResources
	}
	return openai.Run{
		ID:            "run_" + uuid.NewString(),
		Object:        openai.ObjectThreadRun,
		CreatedAt:     time.Now().Unix(),
		ThreadID:      threadID,
		AssistantID:   assistant.ID,
		Status:        openai.RunStatusInProgress,
		Model:         model,
		Instructions:  instructions,
		Tools:         tools,
		ToolResources: toolResources,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		Metadata:      req.Metadata,
	}
}

// fileSearchStores collects vector store ids, preferring the run's own
// resources, then the thread's, then the assistant's.
func fileSearchStores(sources ...*openai.ToolResources) []string {
	for _, tr := range sources {
		if tr != nil && tr.FileSearch != nil && len(tr.FileSearch.VectorStoreIDs) > 0 {
			return tr.FileSearch.VectorStoreIDs
		}
	}
	return nil
}

func hasFileSearchTool(tools []openai.Tool) bool {
	for _, t := range tools {
		if t.Type == "file_search" {
			return true
		}
	}
	return false
}

// lastUserMessage returns the content and index of the last user message.
func lastUserMessage(prompt []openai.ChatMessage) (string, int) {
	for i := len(prompt) - 1; i >= 0; i-- {
		if prompt[i].Role == "user" {
			return prompt[i].Content, i
		}
	}
	return "", -1
}

func messageText(m openai.Message) string {
	var b strings.Builder
	for _, block := range m.Content {
		if block.Type == "text" {
			b.WriteString(block.Text.Value)
		}
	}
	return b.String()
}

// writeSSE writes one server-sent event and flushes it to the client.
// An empty event name emits a bare data frame.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling sse event: %w", err)
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return fmt.Errorf("writing sse event: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("writing sse event: %w", err)
	}
	flusher.Flush()
	return nil
}

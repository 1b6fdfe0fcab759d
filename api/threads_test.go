package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lodestone-ai/lodestone/internal/log"
	"github.com/lodestone-ai/lodestone/internal/openai"
)

func newThreadMux() (*http.ServeMux, *memStore[openai.Thread], *memStore[openai.Message]) {
	threads := newMemStore[openai.Thread]()
	messages := newMemStore[openai.Message]()
	mux := http.NewServeMux()
	NewThreadHandler(threads, messages, log.NewNop()).RegisterRoutes(mux)
	return mux, threads, messages
}

func TestThreadCreateWithInitialMessages(t *testing.T) {
	mux, _, _ := newThreadMux()
	tenant := uuid.New()

	body := `{"messages":[{"role":"user","content":"hello"}],"metadata":{"topic":"greetings"}}`
	req := httptest.NewRequest(http.MethodPost, "/openai/v1/threads", strings.NewReader(body))
	w := doRequest(t, mux, req, tenant)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	thread := decodeBody[openai.Thread](t, w)
	assert.True(t, strings.HasPrefix(thread.ID, "thread_"))
	assert.Equal(t, "thread", thread.Object)
	assert.Equal(t, "greetings", thread.Metadata["topic"])

	// The initial message is reachable through the messages endpoint.
	listReq := httptest.NewRequest(http.MethodGet, "/openai/v1/threads/"+thread.ID+"/messages", nil)
	got := decodeBody[openai.List[openai.Message]](t, doRequest(t, mux, listReq, tenant))
	require.Len(t, got.Data, 1)
	assert.Equal(t, "user", got.Data[0].Role)
	assert.Equal(t, "hello", got.Data[0].Content[0].Text.Value)
}

func TestThreadCreateMessage(t *testing.T) {
	mux, _, _ := newThreadMux()
	tenant := uuid.New()

	createReq := httptest.NewRequest(http.MethodPost, "/openai/v1/threads", strings.NewReader(`{}`))
	thread := decodeBody[openai.Thread](t, doRequest(t, mux, createReq, tenant))

	msgReq := httptest.NewRequest(http.MethodPost, "/openai/v1/threads/"+thread.ID+"/messages",
		strings.NewReader(`{"role":"user","content":"first"}`))
	w := doRequest(t, mux, msgReq, tenant)

	require.Equal(t, http.StatusOK, w.Code)
	msg := decodeBody[openai.Message](t, w)
	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.Equal(t, thread.ID, msg.ThreadID)
	assert.Equal(t, "thread.message", msg.Object)

	getReq := httptest.NewRequest(http.MethodGet,
		"/openai/v1/threads/"+thread.ID+"/messages/"+msg.ID, nil)
	w = doRequest(t, mux, getReq, tenant)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, msg.ID, decodeBody[openai.Message](t, w).ID)
}

func TestThreadCreateMessageBadRole(t *testing.T) {
	mux, _, _ := newThreadMux()
	tenant := uuid.New()

	createReq := httptest.NewRequest(http.MethodPost, "/openai/v1/threads", strings.NewReader(`{}`))
	thread := decodeBody[openai.Thread](t, doRequest(t, mux, createReq, tenant))

	msgReq := httptest.NewRequest(http.MethodPost, "/openai/v1/threads/"+thread.ID+"/messages",
		strings.NewReader(`{"role":"system","content":"nope"}`))
	w := doRequest(t, mux, msgReq, tenant)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThreadCreateMessageUnknownThread(t *testing.T) {
	mux, _, _ := newThreadMux()

	msgReq := httptest.NewRequest(http.MethodPost, "/openai/v1/threads/thread_missing/messages",
		strings.NewReader(`{"role":"user","content":"hi"}`))
	w := doRequest(t, mux, msgReq, uuid.New())

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestThreadDeleteRemovesMessages(t *testing.T) {
	mux, _, messages := newThreadMux()
	tenant := uuid.New()

	createReq := httptest.NewRequest(http.MethodPost, "/openai/v1/threads",
		strings.NewReader(`{"messages":[{"role":"user","content":"a"},{"role":"assistant","content":"b"}]}`))
	thread := decodeBody[openai.Thread](t, doRequest(t, mux, createReq, tenant))

	delReq := httptest.NewRequest(http.MethodDelete, "/openai/v1/threads/"+thread.ID, nil)
	w := doRequest(t, mux, delReq, tenant)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[openai.Deleted](t, w)
	assert.True(t, got.Deleted)
	assert.Equal(t, "thread.deleted", got.Object)

	remaining, err := messages.ListByField(t.Context(), tenant, "thread_id", thread.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

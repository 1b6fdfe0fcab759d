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

func newChatMux(completer Completer) *http.ServeMux {
	mux := http.NewServeMux()
	NewChatHandler(completer, log.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestChatCompletion(t *testing.T) {
	completer := &fakeCompleter{reply: "hello there"}
	mux := newChatMux(completer)

	body := `{"model":"gemini-2.5-flash","messages":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest(http.MethodPost, "/openai/v1/chat/completions", strings.NewReader(body))
	w := doRequest(t, mux, req, uuid.New())

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[openai.ChatCompletionResponse](t, w)
	assert.True(t, strings.HasPrefix(got.ID, "chatcmpl-"))
	assert.Equal(t, "chat.completion", got.Object)
	assert.Equal(t, "gemini-2.5-flash", got.Model)
	require.Len(t, got.Choices, 1)
	assert.Equal(t, "assistant", got.Choices[0].Message.Role)
	assert.Equal(t, "hello there", got.Choices[0].Message.Content)
	assert.Equal(t, "stop", got.Choices[0].FinishReason)

	require.Len(t, completer.lastPrompt, 1)
	assert.Equal(t, "hi", completer.lastPrompt[0].Content)
}

func TestChatCompletionMissingMessages(t *testing.T) {
	mux := newChatMux(&fakeCompleter{})

	req := httptest.NewRequest(http.MethodPost, "/openai/v1/chat/completions",
		strings.NewReader(`{"model":"m"}`))
	w := doRequest(t, mux, req, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatCompletionStream(t *testing.T) {
	completer := &fakeCompleter{reply: "streamed words"}
	mux := newChatMux(completer)

	body := `{"model":"m","messages":[{"role":"user","content":"hi"}],"stream":true}`
	req := httptest.NewRequest(http.MethodPost, "/openai/v1/chat/completions", strings.NewReader(body))
	w := doRequest(t, mux, req, uuid.New())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	bodyText := w.Body.String()
	// Chunks are bare data frames, no event names.
	assert.NotContains(t, bodyText, "event:")
	assert.Contains(t, bodyText, "chat.completion.chunk")
	assert.Contains(t, bodyText, "streamed")
	assert.Contains(t, bodyText, `"finish_reason":"stop"`)
	assert.True(t, strings.HasSuffix(bodyText, "data: [DONE]\n\n"), bodyText)

	// Only the first delta carries the assistant role.
	assert.Equal(t, 1, strings.Count(bodyText, `"role":"assistant"`))
}

package openai

// CreateAssistantRequest is the request body for creating an assistant.
type CreateAssistantRequest struct {
	Model         string            `json:"model"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	Instructions  string            `json:"instructions,omitempty"`
	Tools         []Tool            `json:"tools,omitempty"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Temperature   *float64          `json:"temperature,omitempty"`
	TopP          *float64          `json:"top_p,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ModifyAssistantRequest is the request body for modifying an assistant.
// Nil pointers mean "leave unchanged".
type ModifyAssistantRequest = CreateAssistantRequest

// CreateThreadRequest is the request body for creating a thread.
type CreateThreadRequest struct {
	Messages      []CreateMessageRequest `json:"messages,omitempty"`
	ToolResources *ToolResources         `json:"tool_resources,omitempty"`
	Metadata      map[string]string      `json:"metadata,omitempty"`
}

// CreateMessageRequest is the request body for adding a message to a thread.
type CreateMessageRequest struct {
	Role     string            `json:"role"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateRunRequest is the request body for creating a run on a thread.
type CreateRunRequest struct {
	AssistantID   string            `json:"assistant_id"`
	Model         string            `json:"model,omitempty"`
	Instructions  string            `json:"instructions,omitempty"`
	Tools         []Tool            `json:"tools,omitempty"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	ToolChoice    any               `json:"tool_choice,omitempty"`
	Temperature   *float64          `json:"temperature,omitempty"`
	TopP          *float64          `json:"top_p,omitempty"`
	Stream        bool              `json:"stream,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// CreateVectorStoreRequest is the request body for creating a vector store.
type CreateVectorStoreRequest struct {
	Name         string            `json:"name,omitempty"`
	FileIDs      []string          `json:"file_ids,omitempty"`
	ExpiresAfter *ExpiresAfter     `json:"expires_after,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// CreateVectorStoreFileRequest attaches an already-uploaded file to a store.
type CreateVectorStoreFileRequest struct {
	FileID string `json:"file_id"`
}

// ChatMessage is a single chat-completion message.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the request body for /chat/completions.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// ChatCompletionChoice is one generated alternative.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the response body for /chat/completions.
type ChatCompletionResponse struct {
	ID      string                 `json:"id"`
	Object  string                 `json:"object"` // "chat.completion"
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []ChatCompletionChoice `json:"choices"`
}

// ChatDelta is an incremental piece of a streamed chat response.
type ChatDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChatCompletionChunkChoice is one streamed alternative.
type ChatCompletionChunkChoice struct {
	Index        int       `json:"index"`
	Delta        ChatDelta `json:"delta"`
	FinishReason *string   `json:"finish_reason"`
}

// ChatCompletionChunk is one server-sent event in a streamed completion.
type ChatCompletionChunk struct {
	ID      string                      `json:"id"`
	Object  string                      `json:"object"` // "chat.completion.chunk"
	Created int64                       `json:"created"`
	Model   string                      `json:"model"`
	Choices []ChatCompletionChunkChoice `json:"choices"`
}

// MessageDeltaContent is one content block inside a message delta.
type MessageDeltaContent struct {
	Index int    `json:"index"`
	Type  string `json:"type"` // "text"
	Text  Text   `json:"text"`
}

// MessageDelta is the delta payload of a thread.message.delta event.
type MessageDelta struct {
	Content []MessageDeltaContent `json:"content"`
}

// MessageDeltaEvent is one thread.message.delta server-sent event emitted
// while a streamed run produces its assistant message.
type MessageDeltaEvent struct {
	ID     string       `json:"id"`
	Object string       `json:"object"` // "thread.message.delta"
	Delta  MessageDelta `json:"delta"`
}

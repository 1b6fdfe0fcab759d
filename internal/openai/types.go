// Package openai defines the OpenAI-compatible object schemas served by the
// API layer and persisted as JSONB rows. Field names and object tags follow
// the OpenAI Assistants API so existing client SDKs work unchanged.
package openai

// Object type tags.
const (
	ObjectAssistant       = "assistant"
	ObjectThread          = "thread"
	ObjectThreadMessage   = "thread.message"
	ObjectThreadRun       = "thread.run"
	ObjectFile            = "file"
	ObjectVectorStore     = "vector_store"
	ObjectVectorStoreFile = "vector_store.file"
	ObjectList            = "list"
)

// Tool is an assistant tool declaration. Only file_search is supported.
type Tool struct {
	Type string `json:"type"`
}

// FileSearchResources lists the vector stores available to the file_search tool.
type FileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

// ToolResources groups per-tool resources attached to an assistant or run.
type ToolResources struct {
	FileSearch *FileSearchResources `json:"file_search,omitempty"`
}

// Assistant is an OpenAI-compatible assistant object.
type Assistant struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	CreatedAt     int64             `json:"created_at"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	Model         string            `json:"model"`
	Instructions  string            `json:"instructions,omitempty"`
	Tools         []Tool            `json:"tools"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Temperature   *float64          `json:"temperature,omitempty"`
	TopP          *float64          `json:"top_p,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Thread is an OpenAI-compatible thread object.
type Thread struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	CreatedAt     int64             `json:"created_at"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Text is the inner text value of a message content block.
type Text struct {
	Value       string `json:"value"`
	Annotations []any  `json:"annotations"`
}

// ContentBlock is a single block of message content. Only text is supported.
type ContentBlock struct {
	Type string `json:"type"` // "text"
	Text Text   `json:"text"`
}

// TextContent builds a single-block text content slice.
func TextContent(value string) []ContentBlock {
	return []ContentBlock{{Type: "text", Text: Text{Value: value, Annotations: []any{}}}}
}

// Message is an OpenAI-compatible thread message.
type Message struct {
	ID        string            `json:"id"`
	Object    string            `json:"object"`
	CreatedAt int64             `json:"created_at"`
	ThreadID  string            `json:"thread_id"`
	Role      string            `json:"role"` // "user" or "assistant"
	Content   []ContentBlock    `json:"content"`
	RunID     string            `json:"run_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// RunStatus is the lifecycle status of a run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// Run is an OpenAI-compatible run object.
type Run struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	CreatedAt     int64             `json:"created_at"`
	ThreadID      string            `json:"thread_id"`
	AssistantID   string            `json:"assistant_id"`
	Status        RunStatus         `json:"status"`
	Model         string            `json:"model"`
	Instructions  string            `json:"instructions,omitempty"`
	Tools         []Tool            `json:"tools"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Temperature   *float64          `json:"temperature,omitempty"`
	TopP          *float64          `json:"top_p,omitempty"`
	LastError     *LastError        `json:"last_error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// FileObject is an OpenAI-compatible uploaded file record.
// The raw bytes live in the file bucket, not in this object.
type FileObject struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	Bytes     int64  `json:"bytes"`
	CreatedAt int64  `json:"created_at"`
	Filename  string `json:"filename"`
	Purpose   string `json:"purpose"`
}

// FileDeleted is the deletion acknowledgement for a file object.
type FileDeleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"` // "file.deleted"
	Deleted bool   `json:"deleted"`
}

// Deleted is the generic deletion acknowledgement envelope. Object is the
// deleted object's tag with a ".deleted" suffix.
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// List is the OpenAI list envelope.
type List[T any] struct {
	Object  string `json:"object"`
	Data    []T    `json:"data"`
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	HasMore bool   `json:"has_more"`
}

// NewList wraps data in a list envelope.
func NewList[T any](data []T) List[T] {
	if data == nil {
		data = []T{}
	}
	return List[T]{Object: ObjectList, Data: data}
}

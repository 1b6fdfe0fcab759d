package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/lodestone-ai/lodestone/internal/log"
	"github.com/lodestone-ai/lodestone/internal/testutil"
)

func TestEmbedDocumentsEmptyInput(t *testing.T) {
	mock := &testutil.Embedder{}
	client := NewClient(mock, 0, 0, log.NewNop())

	got, err := client.EmbedDocuments(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedDocuments(nil) error = %v", err)
	}
	if got != nil {
		t.Errorf("EmbedDocuments(nil) = %v, want nil", got)
	}
	if mock.CallCount != 0 {
		t.Errorf("backend called %d times for empty input, want 0", mock.CallCount)
	}
}

func TestEmbedDocumentsOrderAndBatching(t *testing.T) {
	mock := &testutil.Embedder{Dim: 3}
	client := NewClient(mock, 0, 0, log.NewNop())

	texts := []string{"alpha", "beta", "gamma"}
	vectors, err := client.EmbedDocuments(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedDocuments error = %v", err)
	}

	if mock.CallCount != 1 {
		t.Errorf("backend called %d times, want 1 batched request", mock.CallCount)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(texts))
	}
	for i := range texts {
		if mock.LastInputs[i] != texts[i] {
			t.Errorf("input %d = %q, want %q", i, mock.LastInputs[i], texts[i])
		}
		// The double encodes the input position in the first component.
		if vectors[i][0] != float32(i) {
			t.Errorf("vector %d out of order: first component = %v", i, vectors[i][0])
		}
	}
}

func TestEmbedDocumentsBackendError(t *testing.T) {
	mock := &testutil.Embedder{Err: errors.New("boom")}
	client := NewClient(mock, 0, 0, log.NewNop())

	_, err := client.EmbedDocuments(context.Background(), []string{"a"})
	if !errors.Is(err, ErrBackend) {
		t.Errorf("error = %v, want ErrBackend", err)
	}
}

func TestEmbedDocumentsLengthMismatch(t *testing.T) {
	mock := &testutil.Embedder{Short: true}
	client := NewClient(mock, 0, 0, log.NewNop())

	_, err := client.EmbedDocuments(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrBackend) {
		t.Errorf("error = %v, want ErrBackend on length mismatch", err)
	}
}

func TestEmbedQuery(t *testing.T) {
	mock := &testutil.Embedder{Dim: 5}
	client := NewClient(mock, 0, 0, log.NewNop())

	vec, err := client.EmbedQuery(context.Background(), "what is a lodestone")
	if err != nil {
		t.Fatalf("EmbedQuery error = %v", err)
	}
	if len(vec) != 5 {
		t.Errorf("got dimension %d, want 5", len(vec))
	}
	if mock.LastInputs[0] != "what is a lodestone" {
		t.Errorf("backend received %q", mock.LastInputs[0])
	}
}

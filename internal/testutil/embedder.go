// Package testutil provides shared test doubles.
package testutil

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// Embedder implements ai.Embedder for tests. By default it returns one
// deterministic vector per input document.
type Embedder struct {
	// Dim is the embedding width (default 4).
	Dim int
	// Err is returned from Embed when set.
	Err error
	// Short, when true, returns one embedding fewer than requested.
	Short bool

	// CallCount tracks Embed invocations.
	CallCount int
	// LastInputs records the document texts of the last request.
	LastInputs []string
}

func (m *Embedder) Name() string { return "test-embedder" }

func (m *Embedder) Register(r api.Registry) {}

// Embed returns a vector per input whose first component encodes the
// input's position, so order preservation is observable.
func (m *Embedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	m.CallCount++
	m.LastInputs = m.LastInputs[:0]
	for _, doc := range req.Input {
		text := ""
		if len(doc.Content) > 0 {
			text = doc.Content[0].Text
		}
		m.LastInputs = append(m.LastInputs, text)
	}

	if m.Err != nil {
		return nil, m.Err
	}

	dim := m.Dim
	if dim <= 0 {
		dim = 4
	}
	n := len(req.Input)
	if m.Short && n > 0 {
		n--
	}

	resp := &ai.EmbedResponse{}
	for i := 0; i < n; i++ {
		vec := make([]float32, dim)
		vec[0] = float32(i)
		resp.Embeddings = append(resp.Embeddings, &ai.Embedding{Embedding: vec})
	}
	return resp, nil
}

package vectorstore

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/log"
	"github.com/lodestone-ai/lodestone/internal/sqlc"
	"github.com/lodestone-ai/lodestone/internal/testutil"
)

// unitVector returns a 768-dimension basis vector with component hot set,
// matching the schema's embedding dimension.
func unitVector(hot int) []float32 {
	v := make([]float32, 768)
	v[hot] = 1
	return v
}

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDB(t)
	store := New(sqlc.New(testDB.Pool), log.NewNop())
	ctx := context.Background()

	tenant := uuid.New()
	other := uuid.New()

	vectors := []Vector{
		{Content: "exact match", Metadata: map[string]string{"chunk_index": "0"}, Embedding: unitVector(0)},
		{Content: "orthogonal", Metadata: map[string]string{"chunk_index": "1"}, Embedding: unitVector(1)},
		{Content: "also orthogonal", Metadata: map[string]string{"chunk_index": "2"}, Embedding: unitVector(2)},
	}
	ids, err := store.AddVectors(ctx, "vs_1", "file-1", tenant, vectors)
	if err != nil {
		t.Fatalf("AddVectors error = %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("got %d ids, want 3", len(ids))
	}

	// Another tenant's rows in the same store must stay invisible.
	if _, err := store.AddVectors(ctx, "vs_1", "file-2", other, []Vector{
		{Content: "foreign", Embedding: unitVector(0)},
	}); err != nil {
		t.Fatalf("AddVectors (other tenant) error = %v", err)
	}

	matches, err := store.SimilaritySearch(ctx, unitVector(0), "vs_1", tenant, 2)
	if err != nil {
		t.Fatalf("SimilaritySearch error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Content != "exact match" {
		t.Errorf("best match = %q, want the aligned chunk", matches[0].Content)
	}
	if matches[0].Similarity < matches[1].Similarity {
		t.Errorf("matches out of order: %v then %v", matches[0].Similarity, matches[1].Similarity)
	}
	if matches[0].FileID != "file-1" {
		t.Errorf("match file id = %q", matches[0].FileID)
	}
	if matches[0].Metadata["chunk_index"] != "0" {
		t.Errorf("match metadata = %v", matches[0].Metadata)
	}

	deleted, err := store.DeleteVectors(ctx, "vs_1", "file-1", tenant)
	if err != nil {
		t.Fatalf("DeleteVectors error = %v", err)
	}
	if !deleted {
		t.Error("DeleteVectors removed nothing")
	}

	matches, err = store.SimilaritySearch(ctx, unitVector(0), "vs_1", tenant, 5)
	if err != nil {
		t.Fatalf("SimilaritySearch after delete error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches after delete, want 0", len(matches))
	}

	// Deleting again is a no-op.
	deleted, err = store.DeleteVectors(ctx, "vs_1", "file-1", tenant)
	if err != nil {
		t.Fatalf("DeleteVectors (repeat) error = %v", err)
	}
	if deleted {
		t.Error("repeat DeleteVectors reported rows removed")
	}
}

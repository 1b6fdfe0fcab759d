package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lodestone-ai/lodestone/internal/log"
	"github.com/lodestone-ai/lodestone/internal/sqlc"
)

type mockQuerier struct {
	inserted  []sqlc.InsertVectorParams
	insertErr error

	deleteCount int64

	matchRows []sqlc.MatchVectorsRow
	lastMatch sqlc.MatchVectorsParams
}

func (m *mockQuerier) InsertVector(_ context.Context, arg sqlc.InsertVectorParams) (uuid.UUID, error) {
	if m.insertErr != nil {
		return uuid.Nil, m.insertErr
	}
	m.inserted = append(m.inserted, arg)
	return uuid.New(), nil
}

func (m *mockQuerier) DeleteVectors(_ context.Context, _ sqlc.DeleteVectorsParams) (int64, error) {
	return m.deleteCount, nil
}

func (m *mockQuerier) MatchVectors(_ context.Context, arg sqlc.MatchVectorsParams) ([]sqlc.MatchVectorsRow, error) {
	m.lastMatch = arg
	return m.matchRows, nil
}

func TestAddVectorsOrder(t *testing.T) {
	mock := &mockQuerier{}
	store := New(mock, log.NewNop())

	vectors := []Vector{
		{Content: "first", Embedding: []float32{1, 0}},
		{Content: "second", Embedding: []float32{0, 1}},
	}
	ids, err := store.AddVectors(context.Background(), "vs_1", "file-1", uuid.New(), vectors)
	if err != nil {
		t.Fatalf("AddVectors error = %v", err)
	}

	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	if len(mock.inserted) != 2 {
		t.Fatalf("inserted %d rows, want 2", len(mock.inserted))
	}
	if mock.inserted[0].Content != "first" || mock.inserted[1].Content != "second" {
		t.Error("rows inserted out of input order")
	}
	for _, row := range mock.inserted {
		if row.VectorStoreID != "vs_1" || row.FileID != "file-1" {
			t.Errorf("row has store %q file %q", row.VectorStoreID, row.FileID)
		}
	}
}

func TestAddVectorsInsertError(t *testing.T) {
	mock := &mockQuerier{insertErr: errors.New("constraint violated")}
	store := New(mock, log.NewNop())

	_, err := store.AddVectors(context.Background(), "vs_1", "file-1", uuid.New(), []Vector{{Content: "x"}})
	if err == nil {
		t.Error("AddVectors returned nil error on insert failure")
	}
}

func TestDeleteVectors(t *testing.T) {
	tests := []struct {
		name string
		rows int64
		want bool
	}{
		{name: "rows removed", rows: 3, want: true},
		{name: "nothing to remove", rows: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New(&mockQuerier{deleteCount: tt.rows}, log.NewNop())
			got, err := store.DeleteVectors(context.Background(), "vs_1", "file-1", uuid.New())
			if err != nil {
				t.Fatalf("DeleteVectors error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DeleteVectors = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilaritySearchDefaults(t *testing.T) {
	mock := &mockQuerier{
		matchRows: []sqlc.MatchVectorsRow{
			{ID: uuid.New(), FileID: "file-1", Content: "hit", Metadata: []byte(`{"source":"a.txt"}`), Similarity: 0.9},
		},
	}
	store := New(mock, log.NewNop())

	tenant := uuid.New()
	matches, err := store.SimilaritySearch(context.Background(), []float32{1, 0}, "vs_1", tenant, 0)
	if err != nil {
		t.Fatalf("SimilaritySearch error = %v", err)
	}

	if mock.lastMatch.MatchLimit != DefaultTopK {
		t.Errorf("limit = %d, want default %d", mock.lastMatch.MatchLimit, DefaultTopK)
	}
	if mock.lastMatch.UserID != tenant {
		t.Error("search not scoped to tenant")
	}
	if mock.lastMatch.VectorStoreID != "vs_1" {
		t.Error("search not scoped to vector store")
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Metadata["source"] != "a.txt" {
		t.Errorf("metadata = %v", matches[0].Metadata)
	}
}

func TestSimilaritySearchBadMetadata(t *testing.T) {
	mock := &mockQuerier{
		matchRows: []sqlc.MatchVectorsRow{
			{ID: uuid.New(), FileID: "file-1", Content: "hit", Metadata: []byte("not json"), Similarity: 0.5},
		},
	}
	store := New(mock, log.NewNop())

	matches, err := store.SimilaritySearch(context.Background(), []float32{1}, "vs_1", uuid.New(), 2)
	if err != nil {
		t.Fatalf("SimilaritySearch error = %v", err)
	}
	// Malformed metadata degrades to empty, the match itself survives.
	if len(matches) != 1 || matches[0].Content != "hit" {
		t.Fatalf("matches = %+v", matches)
	}
	if matches[0].Metadata == nil || len(matches[0].Metadata) != 0 {
		t.Errorf("metadata = %v, want empty map", matches[0].Metadata)
	}
}

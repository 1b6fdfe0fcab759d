package crud

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type testRecord struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id,omitempty"`
	Name     string `json:"name,omitempty"`
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	return nil
}

type fakeRows struct {
	pgx.Rows
	data [][]byte
	idx  int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	*dest[0].(*[]byte) = r.data[r.idx-1]
	return nil
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

// fakeDB records the last statement and serves canned results.
type fakeDB struct {
	lastSQL  string
	lastArgs []any
	execTag  pgconn.CommandTag
	execErr  error
	row      fakeRow
	rows     *fakeRows
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	db.lastSQL, db.lastArgs = sql, args
	return db.execTag, db.execErr
}

func (db *fakeDB) Query(_ context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	db.lastSQL, db.lastArgs = sql, args
	if db.rows == nil {
		db.rows = &fakeRows{}
	}
	return db.rows, nil
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	db.lastSQL, db.lastArgs = sql, args
	return db.row
}

func TestNewStoreRejectsUnknownTable(t *testing.T) {
	if _, err := NewStore[testRecord](&fakeDB{}, "users; DROP TABLE users"); err == nil {
		t.Error("NewStore accepted an unknown table name")
	}
	if _, err := NewStore[testRecord](&fakeDB{}, TableThreads); err != nil {
		t.Errorf("NewStore(%s) error = %v", TableThreads, err)
	}
}

func TestCreate(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	store, err := NewStore[testRecord](db, TableAssistants)
	if err != nil {
		t.Fatal(err)
	}

	tenant := uuid.New()
	record := testRecord{ID: "asst_1", Name: "helper"}
	created, err := store.Create(context.Background(), tenant, record.ID, record)
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if created != record {
		t.Errorf("Create returned %+v, want %+v", created, record)
	}

	if !strings.Contains(db.lastSQL, "INSERT INTO assistants") {
		t.Errorf("sql = %q", db.lastSQL)
	}
	if db.lastArgs[0] != "asst_1" || db.lastArgs[1] != tenant {
		t.Errorf("args = %v", db.lastArgs)
	}
	var stored testRecord
	if err := json.Unmarshal(db.lastArgs[2].([]byte), &stored); err != nil {
		t.Fatalf("stored payload is not JSON: %v", err)
	}
	if stored.Name != "helper" {
		t.Errorf("stored record = %+v", stored)
	}
}

func TestGetNotFound(t *testing.T) {
	db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
	store, _ := NewStore[testRecord](db, TableThreads)

	_, err := store.Get(context.Background(), uuid.New(), "thread_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestGet(t *testing.T) {
	db := &fakeDB{row: fakeRow{data: []byte(`{"id":"thread_1","name":"x"}`)}}
	store, _ := NewStore[testRecord](db, TableThreads)

	got, err := store.Get(context.Background(), uuid.New(), "thread_1")
	if err != nil {
		t.Fatalf("Get error = %v", err)
	}
	if got.ID != "thread_1" || got.Name != "x" {
		t.Errorf("Get = %+v", got)
	}
	if !strings.Contains(db.lastSQL, "user_id = $2") {
		t.Errorf("query is not tenant scoped: %q", db.lastSQL)
	}
}

func TestListByField(t *testing.T) {
	db := &fakeDB{rows: &fakeRows{data: [][]byte{
		[]byte(`{"id":"msg_1","thread_id":"thread_1"}`),
		[]byte(`{"id":"msg_2","thread_id":"thread_1"}`),
	}}}
	store, _ := NewStore[testRecord](db, TableMessages)

	got, err := store.ListByField(context.Background(), uuid.New(), "thread_id", "thread_1")
	if err != nil {
		t.Fatalf("ListByField error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "msg_1" {
		t.Errorf("ListByField = %+v", got)
	}
	if !strings.Contains(db.lastSQL, "data ->> 'thread_id'") {
		t.Errorf("query missing field filter: %q", db.lastSQL)
	}
	if !strings.Contains(db.lastSQL, "ORDER BY created_at ASC") {
		t.Errorf("query missing ordering: %q", db.lastSQL)
	}
}

func TestUpdateNotFound(t *testing.T) {
	db := &fakeDB{execTag: pgconn.NewCommandTag("UPDATE 0")}
	store, _ := NewStore[testRecord](db, TableRuns)

	_, err := store.Update(context.Background(), uuid.New(), "run_1", testRecord{ID: "run_1"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want bool
	}{
		{"removed", "DELETE 1", true},
		{"missing", "DELETE 0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeDB{execTag: pgconn.NewCommandTag(tt.tag)}
			store, _ := NewStore[testRecord](db, TableFileObjects)

			got, err := store.Delete(context.Background(), uuid.New(), "file-1")
			if err != nil {
				t.Fatalf("Delete error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Delete = %v, want %v", got, tt.want)
			}
		})
	}
}

// Package rag implements the retrieval-augmented generation pipeline:
// chunking extracted documents, embedding them, persisting vectors, and
// retrieving relevant chunks for chat prompts.
//
// The Indexer orchestrates file → chunks → embeddings → storage and owns
// the per-file status state machine (in_progress → completed | failed).
// The Retriever answers similarity queries against an indexed vector
// store. Both depend on consumer-defined interfaces so tests can
// substitute doubles without global state.
package rag

package rag

import "errors"

var (
	// ErrAlreadyIndexed indicates a vector store file already exists for
	// the (vector store, file) pair. No state is changed.
	ErrAlreadyIndexed = errors.New("file already indexed")

	// ErrFileNotFound indicates the file object or its bytes are missing
	// from file storage. Reported before any vector store file is created.
	ErrFileNotFound = errors.New("file not found")

	// ErrCreateVectorStore wraps unexpected failures during vector store
	// creation. Per-file terminal statuses already written are preserved.
	ErrCreateVectorStore = errors.New("unable to create vector store")
)

// Last-error codes recorded on failed vector store files.
const (
	// ErrorCodeParsing marks a file that produced no text chunks.
	ErrorCodeParsing = "parsing_error"

	// ErrorCodeServer marks an embedding or storage failure.
	ErrorCodeServer = "server_error"
)

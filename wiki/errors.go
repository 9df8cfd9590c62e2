package wiki

import "errors"

// Sentinel errors for wiki operations
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyFilename    = errors.New("filename cannot be empty")
	ErrBadFilename      = errors.New("filename must not contain brackets, pipes or line breaks")
	ErrCycle            = errors.New("embed cycle")
	ErrNotModified      = errors.New("document not modified")
	ErrReadOnlyDocument = errors.New("document is read-only")
	ErrNoDocuments      = errors.New("no documents exist")
)

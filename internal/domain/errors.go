package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUpload signals a rejected spreadsheet upload.
	ErrInvalidUpload = errors.New("invalid upload")
	// ErrInvalidQuery signals a rejected search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrClassification signals a row that could not be tagged.
	ErrClassification = errors.New("row classification failed")

	// ErrIndex signals a failure of the external vector index.
	ErrIndex = errors.New("index error")
	// ErrIndexNotReady signals a search against a dataset that was never indexed.
	ErrIndexNotReady = errors.New("index not ready")

	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// IndexError wraps a failed index operation. errors.Is(err, ErrIndex) holds for every IndexError;
// the underlying cause stays reachable through Unwrap.
type IndexError struct {
	Op  string
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %s: %v", e.Op, e.Err)
}

// Unwrap returns both the ErrIndex marker and the cause.
func (e *IndexError) Unwrap() []error { return []error{ErrIndex, e.Err} }

// NewIndexError wraps err as an IndexError. ErrIndexNotReady passes through unchanged.
func NewIndexError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIndexNotReady) {
		return err
	}
	return &IndexError{Op: op, Err: err}
}

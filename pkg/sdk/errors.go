package sheetdex

import "github.com/kailas-cloud/sheetdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidUpload          = domain.ErrInvalidUpload
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrIndex                  = domain.ErrIndex
	ErrIndexNotReady          = domain.ErrIndexNotReady
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)

package ports

import (
	"context"
	"errors"

	"distance-matrix-service/internal/domain"
)

var (
	// ErrNotFound: no raw response stored under the requested key.
	ErrNotFound = errors.New("raw response not found")
	// ErrKeyConflict: a Put targeted an existing key whose stored content
	// differs. Raw responses are write-once; a conflicting second write is
	// a fingerprint collision and must fail loudly.
	ErrKeyConflict = errors.New("raw response key exists with different content")
)

// Content-addressed store for raw routing responses.
//
// Contract: put-once/get-many. Keys are derived names of the form
// <prefix>_<fragment>_<fingerprint>; the fragment is cosmetic, the
// fingerprint is the identity. Putting identical content twice is a no-op.
type ResponseStore interface {
	Put(ctx context.Context, name string, resp *domain.RawResponse) error
	Get(ctx context.Context, name string) (*domain.RawResponse, error)
	// Find locates a stored response by fingerprint alone, for callers that
	// do not know the cosmetic name fragment.
	Find(ctx context.Context, fingerprint string) (*domain.RawResponse, error)
}

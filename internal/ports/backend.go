package ports

import "context"

// Backend is the HTTP request layer. Paths are relative to the resolved origin; out may be nil.
// Every returned error is a *domain.Error.
type Backend interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body any, out any) error
	Put(ctx context.Context, path string, body any, out any) error
	Delete(ctx context.Context, path string, out any) error
}

package ports

import "context"

const (
	StateKeyCurrentTenantID = "currentTenantId"
	StateKeyUser            = "user"
	SecretKeyAuthToken      = "auth-token"
)

// StateStore persists the client-side key-value slots. Get returns domain.ErrStateNotFound for
// keys that were never written.
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

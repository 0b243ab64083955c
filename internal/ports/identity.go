package ports

import (
	"context"

	"github.com/bnema/campus-cli/internal/domain"
)

// Identity reports the signed-in user. ok is false when nobody is signed in or the session
// has expired.
type Identity interface {
	CurrentUser(ctx context.Context) (user domain.User, ok bool)
}

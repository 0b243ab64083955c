package ports

import (
	"context"

	"github.com/bnema/campus-cli/internal/domain"
)

type TenantSource interface {
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
}

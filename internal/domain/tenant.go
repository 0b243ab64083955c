package domain

import "strings"

type TenantID string

// Tenant is an institutional customer. Only ID carries identity; the counters are display
// metadata and may be absent.
type Tenant struct {
	ID          TenantID `json:"id"`
	Name        string   `json:"name"`
	Students    *int     `json:"students,omitempty"`
	Courses     *int     `json:"courses,omitempty"`
	Instructors *int     `json:"instructors,omitempty"`
}

func (id TenantID) Valid() bool {
	return strings.TrimSpace(string(id)) != ""
}

// FallbackTenant is made current when the tenant list cannot be loaded at all.
func FallbackTenant() Tenant {
	return Tenant{ID: "stanford", Name: "Stanford University"}
}

// FallbackTenantCatalog substitutes the tenant list when the backend cannot serve it.
func FallbackTenantCatalog() []Tenant {
	return []Tenant{
		{ID: "stanford", Name: "Stanford University"},
		{ID: "mit", Name: "Massachusetts Institute of Technology"},
		{ID: "oxford", Name: "University of Oxford"},
		{ID: "berkeley", Name: "UC Berkeley"},
	}
}

func FindTenant(tenants []Tenant, id TenantID) (Tenant, bool) {
	for _, tenant := range tenants {
		if tenant.ID == id {
			return tenant, true
		}
	}
	return Tenant{}, false
}

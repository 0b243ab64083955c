package domain

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Announcement struct {
	ID       string   `json:"id"`
	TenantID TenantID `json:"tenantId,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	Priority Priority `json:"priority"`
}

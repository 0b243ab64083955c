package domain

type LiveStatus string

const (
	LiveStatusLive     LiveStatus = "live"
	LiveStatusUpcoming LiveStatus = "upcoming"
	LiveStatusEnded    LiveStatus = "ended"
)

type LiveSession struct {
	ID         string     `json:"sessionId"`
	TenantID   TenantID   `json:"tenantId,omitempty"`
	Title      string     `json:"title"`
	Instructor string     `json:"instructor"`
	Time       string     `json:"time,omitempty"`
	Date       string     `json:"date,omitempty"`
	Status     LiveStatus `json:"status"`
	Attendees  int        `json:"attendees"`
}

// LiveSessions mirrors GET /api/live/sessions.
type LiveSessions struct {
	Active []LiveSession `json:"activeSessions"`
	All    []LiveSession `json:"allSessions"`
}

type LiveSessionInput struct {
	SessionID  string   `json:"sessionId"`
	Title      string   `json:"title" validate:"required"`
	Instructor string   `json:"instructor" validate:"required"`
	TenantID   TenantID `json:"tenantId" validate:"required"`
}

type LiveAck struct {
	Message string      `json:"message"`
	Session LiveSession `json:"session"`
}

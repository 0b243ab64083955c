package domain

type CourseID string

type Course struct {
	ID          CourseID `json:"id"`
	TenantID    TenantID `json:"tenantId,omitempty"`
	Title       string   `json:"title"`
	Instructor  string   `json:"instructor"`
	Description string   `json:"description,omitempty"`
	Progress    float64  `json:"progress"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Students    int      `json:"students"`
	Duration    string   `json:"duration,omitempty"`
}

type CourseInput struct {
	TenantID    TenantID `json:"tenantId" validate:"required"`
	Title       string   `json:"title" validate:"required,max=200"`
	Instructor  string   `json:"instructor" validate:"required"`
	Description string   `json:"description,omitempty"`
	Duration    string   `json:"duration,omitempty"`
}

type Enrollment struct {
	CourseID CourseID `json:"courseId"`
	UserID   UserID   `json:"userId"`
	TenantID TenantID `json:"tenantId"`
	Message  string   `json:"message,omitempty"`
}

type Progress struct {
	CourseID CourseID `json:"courseId"`
	UserID   UserID   `json:"userId"`
	Percent  float64  `json:"progress"`
}

// CourseAck mirrors the admin create and update responses.
type CourseAck struct {
	Message string `json:"message,omitempty"`
	Course  Course `json:"course"`
}

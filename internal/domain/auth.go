package domain

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult mirrors POST /api/auth/login.
type LoginResult struct {
	Success bool   `json:"success"`
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// Ack is the plain confirmation most mutations answer with.
type Ack struct {
	Message string `json:"message"`
}

package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for account registration. Field checks happen in
// the service so that the client sees them in a fixed order.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest: payload for login
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// MessageResponse: the common {success, message} envelope
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegisterResponse: response payload after registration
type RegisterResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	EmailSent bool   `json:"emailSent"`
}

// UserResponse: public view of a user
type UserResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// LoginResponse: response payload after a successful login
type LoginResponse struct {
	Success     bool         `json:"success"`
	Token       string       `json:"token"`
	User        UserResponse `json:"user"`
	RedirectURL string       `json:"redirectUrl"`
}

// VerifyResponse: response payload for a valid session token
type VerifyResponse struct {
	Success bool `json:"success"`
	User    any  `json:"user"`
}

// HealthResponse: liveness payload
type HealthResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

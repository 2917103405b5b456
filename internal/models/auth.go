package models

// User is the authenticated account as reported by the backend.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AuthResponse is the result of login, signup, or Google auth.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// LoginRequest is the email/password login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the account creation body.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// GoogleAuthRequest carries a Google ID token for OAuth sign-in.
type GoogleAuthRequest struct {
	IDToken string `json:"id_token"`
}

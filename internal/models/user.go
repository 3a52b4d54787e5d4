package models

// User is the public profile of an account. Credential material never
// travels on this type; the auth service keeps it in its own record.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

package models

// User is an account. LinkedUserID points at the primary account when the
// user has linked several; rankings merge linked accounts into one identity.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	LinkedUserID string `json:"linked_user_id,omitempty"`
}

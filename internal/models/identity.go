package models

// Roles a user may hold.
const (
	RoleAdmin  = "admin"
	RoleWriter = "penulis"
)

// User is an administrator or writer of site content.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Identity represents a user's authentication method.
type Identity struct {
	ID             int
	UserID         int
	Provider       string
	ProviderUserID string
	PasswordHash   *string
}

package models

// Role defines the access level of a user.
type Role string

const (
	RoleLead Role = "LEAD"
	RoleTeam Role = "TEAM"
)

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r Role) bool {
	return r == RoleLead || r == RoleTeam
}

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	// optional Telegram link for task notifications
	TelegramChatID *int64 `json:"-"`
}

// UserSummary is the reduced user shape joined into tasks and history rows.
// Email is empty (and omitted) in role-reduced listings.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

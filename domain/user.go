package domain

// Role separates regular users from team admins.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User holds the identity created at onboarding plus the mutable
// gamification counters.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	IntegrityScore int    `json:"integrityScore"`
	Streak         int    `json:"streak"`
}

package models

import "time"

// Role names match the three login profiles of the floor system.
const (
	RoleSala    = "sala"
	RoleCozinha = "cozinha"
	RoleAdmin   = "admin"
)

// ValidRole -> only the three fixed roles exist
func ValidRole(role string) bool {
	return role == RoleSala || role == RoleCozinha || role == RoleAdmin
}

// Notification is the persisted trail of a role-targeted alert. Delivery
// itself is best-effort over the hub; this row is what the admin history
// screen reads.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TargetRole string    `gorm:"type:varchar(20);not null" json:"target_role"`
	Title      string    `gorm:"type:varchar(100);not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

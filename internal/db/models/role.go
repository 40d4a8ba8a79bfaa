package models

import "time"

const (
	// RoleInsightsAdmin may run the setup wizard.
	RoleInsightsAdmin = "Insights Admin"
	// RoleInsightsUser may read setup state.
	RoleInsightsUser = "Insights User"
)

// Role groups permissions assigned to users.
type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Description string `gorm:"size:255"`
	// IsSystem marks seeded roles.
	IsSystem  bool `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

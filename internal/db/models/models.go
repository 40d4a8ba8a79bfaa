// Package models contains database model definitions.
package models

// All returns every model the application migrates.
func All() []any {
	return []any{
		&Setting{},
		&Role{},
		&Permission{},
		&RolePermission{},
		&User{},
		&DataSource{},
		&Table{},
		&Query{},
		&Dashboard{},
		&DashboardItem{},
	}
}

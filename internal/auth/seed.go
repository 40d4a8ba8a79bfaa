package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/db/models"
)

// SeedRoles creates the Insights roles and permissions if missing. It is safe
// to run on every start.
func SeedRoles(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for roleName, perms := range RolePermissions() {
			role := models.Role{Name: roleName, IsSystem: true}
			if err := tx.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
				return fmt.Errorf("failed to seed role %s: %w", roleName, err)
			}

			for _, permName := range perms {
				perm := models.Permission{Name: permName}
				if err := tx.Where(models.Permission{Name: permName}).FirstOrCreate(&perm).Error; err != nil {
					return fmt.Errorf("failed to seed permission %s: %w", permName, err)
				}

				link := models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}
				if err := tx.Where(link).FirstOrCreate(&link).Error; err != nil {
					return fmt.Errorf("failed to assign %s to %s: %w", permName, roleName, err)
				}
			}
		}

		return nil
	})
}

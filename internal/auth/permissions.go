package auth

import "github.com/goinsights/goinsights/internal/db/models"

// Permission constants define the available permissions in the system.
const (
	// PermInsightsUser allows reading setup state and submitting the onboarding survey.
	PermInsightsUser = "insights.user"
	// PermInsightsAdmin allows running the setup wizard: data sources, demo data, completion.
	PermInsightsAdmin = "insights.admin"
)

// RolePermissions maps the seeded roles to their permissions.
func RolePermissions() map[string][]string {
	return map[string][]string{
		models.RoleInsightsAdmin: {PermInsightsAdmin, PermInsightsUser},
		models.RoleInsightsUser:  {PermInsightsUser},
	}
}

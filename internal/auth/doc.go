// Package auth guards the remote procedures with role based permissions.
//
// Users hold one role; roles hold permissions. Two permissions exist:
//   - insights.user: read setup state and answer the survey
//   - insights.admin: run the setup wizard
//
// The seeded "Insights Admin" role carries both, "Insights User" only the first.
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Post("/api/method/insights.api.setup.complete_setup",
//	    auth.RequirePermission(authService, auth.PermInsightsAdmin),
//	    handler,
//	)
package auth

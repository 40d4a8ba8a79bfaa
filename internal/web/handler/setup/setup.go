// Package setup registers the setup wizard procedures.
package setup

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/goinsights/goinsights/internal/auth"
	"github.com/goinsights/goinsights/internal/datasource"
	setupsvc "github.com/goinsights/goinsights/internal/setup"
	"github.com/goinsights/goinsights/internal/web/handler"
)

// Prefix is the dotted path shared by all setup procedures.
const Prefix = handler.MethodPath + "insights.api.setup."

// Procedure names.
const (
	ProcSetupComplete            = "setup_complete"
	ProcUpdateERPNextSourceTitle = "update_erpnext_source_title"
	ProcSetupSampleData          = "setup_sample_data"
	ProcSubmitSurveyResponses    = "submit_survey_responses"
	ProcTestDatabaseConnection   = "test_database_connection"
	ProcAddDatabase              = "add_database"
	ProcCompleteSetup            = "complete_setup"
)

// Service is the setup procedures handler service.
type Service struct {
	handler.Service
	svc *setupsvc.Service
}

// Handler is the setup procedures handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the procedure routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Setup == nil || deps.Auth == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:err113
	}

	s.svc = deps.Setup

	user := auth.RequirePermission(deps.Auth, auth.PermInsightsUser)
	admin := auth.RequirePermission(deps.Auth, auth.PermInsightsAdmin)

	app.Get(Prefix+ProcSetupComplete, handler.Observe(ProcSetupComplete), user, s.SetupComplete)
	app.Post(Prefix+ProcSetupComplete, handler.Observe(ProcSetupComplete), user, s.SetupComplete)
	app.Post(Prefix+ProcSubmitSurveyResponses, handler.Observe(ProcSubmitSurveyResponses), user, s.SubmitSurveyResponses)

	app.Post(Prefix+ProcUpdateERPNextSourceTitle,
		handler.Observe(ProcUpdateERPNextSourceTitle), admin, s.UpdateERPNextSourceTitle)
	app.Post(Prefix+ProcSetupSampleData, handler.Observe(ProcSetupSampleData), admin, s.SetupSampleData)
	app.Post(Prefix+ProcTestDatabaseConnection,
		handler.Observe(ProcTestDatabaseConnection), admin, s.TestDatabaseConnection)
	app.Post(Prefix+ProcAddDatabase, handler.Observe(ProcAddDatabase), admin, s.AddDatabase)
	app.Post(Prefix+ProcCompleteSetup, handler.Observe(ProcCompleteSetup), admin, s.CompleteSetup)

	return nil
}

// SetupComplete replies whether the wizard was finished.
func (s *Service) SetupComplete(c *fiber.Ctx) error {
	done, err := s.svc.SetupComplete(c.UserContext())
	if err != nil {
		return err
	}

	return handler.Reply(c, done)
}

// UpdateERPNextSourceTitle renames the Site DB data source.
func (s *Service) UpdateERPNextSourceTitle(c *fiber.Ctx) error {
	args, err := handler.ParseArgs(c)
	if err != nil {
		return err
	}

	title, err := args.String("title", false)
	if err != nil {
		return err
	}

	if err = s.svc.UpdateERPNextSourceTitle(c.UserContext(), title); err != nil {
		return err
	}

	return handler.Reply(c, nil)
}

// SetupSampleData creates the demo dataset.
func (s *Service) SetupSampleData(c *fiber.Ctx) error {
	args, err := handler.ParseArgs(c)
	if err != nil {
		return err
	}

	dataset, err := args.String("dataset", true)
	if err != nil {
		return err
	}

	if err = s.svc.SetupSampleData(c.UserContext(), dataset); err != nil {
		return err
	}

	return handler.Reply(c, nil)
}

// SubmitSurveyResponses forwards the survey answers. It always succeeds once
// the argument is present.
func (s *Service) SubmitSurveyResponses(c *fiber.Ctx) error {
	args, err := handler.ParseArgs(c)
	if err != nil {
		return err
	}

	responses, err := args.Raw("responses")
	if err != nil {
		return err
	}

	s.svc.SubmitSurveyResponses(c.UserContext(), responses)

	return handler.Reply(c, nil)
}

// TestDatabaseConnection connects to an unsaved data source.
func (s *Service) TestDatabaseConnection(c *fiber.Ctx) error {
	in, err := databaseInput(c)
	if err != nil {
		return err
	}

	ok, err := s.svc.TestDatabaseConnection(c.UserContext(), in)
	if err != nil {
		return err
	}

	return handler.Reply(c, ok)
}

// AddDatabase saves a data source and schedules its table sync.
func (s *Service) AddDatabase(c *fiber.Ctx) error {
	in, err := databaseInput(c)
	if err != nil {
		return err
	}

	if _, err = s.svc.AddDatabase(c.UserContext(), in); err != nil {
		return err
	}

	return handler.Reply(c, nil)
}

// CompleteSetup marks the wizard as finished.
func (s *Service) CompleteSetup(c *fiber.Ctx) error {
	if err := s.svc.CompleteSetup(c.UserContext()); err != nil {
		return err
	}

	return handler.Reply(c, nil)
}

func databaseInput(c *fiber.Ctx) (datasource.Input, error) {
	args, err := handler.ParseArgs(c)
	if err != nil {
		return datasource.Input{}, err
	}

	raw, err := args.JSON("database")
	if err != nil {
		return datasource.Input{}, err
	}

	in, err := datasource.ParseInput(raw)
	if err != nil {
		return datasource.Input{}, handler.Validation(err)
	}

	return in, nil
}

// Package login provides the session login procedure.
package login

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/goinsights/goinsights/internal/auth"
	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/web/handler"
	"github.com/goinsights/goinsights/internal/web/session"
)

const (
	// Path is the login procedure path.
	Path = handler.MethodPath + "login"

	// LoggedIn is the message of a successful login.
	LoggedIn = "Logged In"
)

var validate = validator.New() //nolint:gochecknoglobals

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"usr" form:"usr" validate:"required"`
	Password string `json:"pwd" form:"pwd" validate:"required"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	localAuth *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || deps == nil || deps.Cfg == nil || deps.DB == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg) //nolint:err113
	}

	s.cfg = deps.Cfg
	s.localAuth = auth.NewLocalProvider(deps.DB)

	app.Post(Path, handler.Observe("login"), s.Post)

	return nil
}

// Post checks the credentials and starts a session.
func (s *Service) Post(c *fiber.Ctx) error {
	creds := new(Credentials)

	if err := c.BodyParser(creds); err != nil {
		return handler.Validation(fmt.Errorf("%w: %w", ErrInvalidFormData, err))
	}

	if err := validate.Struct(creds); err != nil {
		return handler.Validation(fmt.Errorf("%w: %w", ErrInvalidFormData, err))
	}

	user, err := s.localAuth.Authenticate(creds.Username, creds.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", creds.Username).Msg("login failed")

		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidPassword) ||
			errors.Is(err, auth.ErrUserAccountDisabled) {
			return fiber.NewError(fiber.StatusUnauthorized, ErrInvalidCredentials.Error())
		}

		return err
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return fmt.Errorf("failed to generate session ID: %w", err)
	}

	if err = (&session.Data{User: *user}).Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Str("username", user.Username).Msg("user logged in")

	return c.JSON(fiber.Map{
		"message":   LoggedIn,
		"full_name": user.FullName,
	})
}

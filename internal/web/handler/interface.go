// Package handler holds what the route handlers share: the handler
// interface, their dependencies and the remote procedure envelope.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/auth"
	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/setup"
)

// Deps are the services handlers are built from.
type Deps struct {
	Cfg   *config.Config
	DB    *gorm.DB
	Auth  *auth.Service
	Setup *setup.Service
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}

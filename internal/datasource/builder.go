package datasource

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/goinsights/goinsights/internal/db/models"
)

var validate = validator.New() //nolint:gochecknoglobals

var scrubber = strings.NewReplacer(" ", "_", "-", "_") //nolint:gochecknoglobals

// Scrub turns a display string into a storage-safe identifier: spaces and
// hyphens become underscores and the result is lower-cased.
func Scrub(s string) string {
	return strings.ToLower(scrubber.Replace(s))
}

// New builds an unsaved data source from the connection form. The type tag
// selects exactly one field mapping:
//
//   - any type with a connection string: title, type and connection string
//   - MariaDB, PostgreSQL: title, type, database name, host, port, username, password, ssl
//   - SQLite: type, title (defaults to name), database name (defaults to the scrubbed title)
//
// Unknown or missing types are rejected. Other fields are not validated and
// stay zero-valued when absent.
func New(in Input) (*models.DataSource, error) {
	if err := validate.Struct(in); err != nil {
		return nil, errors.Wrapf(ErrUnsupportedDatabaseType, "%q", in.Type)
	}

	dbType := models.DatabaseType(in.Type)

	if in.ConnectionString != "" {
		return &models.DataSource{
			Title:            in.Title,
			DatabaseType:     dbType,
			ConnectionString: in.ConnectionString,
		}, nil
	}

	switch dbType {
	case models.DatabaseTypeMariaDB, models.DatabaseTypePostgreSQL:
		return &models.DataSource{
			DatabaseType: dbType,
			DatabaseName: in.Name,
			Title:        in.Title,
			Host:         in.Host,
			Port:         int(in.Port),
			Username:     in.Username,
			Password:     in.Password,
			UseSSL:       in.UseSSL,
		}, nil
	case models.DatabaseTypeSQLite:
		ds := &models.DataSource{
			DatabaseType: dbType,
			Title:        in.Title,
			DatabaseName: in.Name,
		}

		if ds.Title == "" {
			ds.Title = in.Name
		}

		if ds.DatabaseName == "" {
			ds.DatabaseName = Scrub(in.Title)
		}

		return ds, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedDatabaseType, "%q", in.Type)
	}
}

package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/db/dsn"
	"github.com/goinsights/goinsights/internal/db/models"
)

const (
	// SQLiteExt is appended to a sqlite data source's database name to find its file.
	SQLiteExt = ".sqlite"

	defaultTimeout = 10 * time.Second
)

// Connector opens gorm connections to data sources.
type Connector struct {
	sqlitePath string
	timeout    time.Duration
}

// NewConnector creates a connector from the data source settings.
func NewConnector(cfg config.DataSources) *Connector {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Connector{sqlitePath: cfg.SQLitePath, timeout: timeout}
}

// SQLiteFile returns the file backing a sqlite data source.
func (c *Connector) SQLiteFile(ds *models.DataSource) string {
	if ds.ConnectionString != "" {
		return ds.ConnectionString
	}

	return filepath.Join(c.sqlitePath, ds.DatabaseName+SQLiteExt)
}

// Dialector selects the gorm driver for the data source type.
func (c *Connector) Dialector(ds *models.DataSource) (gorm.Dialector, error) {
	switch ds.DatabaseType {
	case models.DatabaseTypeMariaDB:
		source := ds.ConnectionString
		if source == "" {
			source = dsn.MySQL(params(ds))
		}

		// skip the version query so nothing touches the network before the timed ping
		return mysql.New(mysql.Config{DSN: source, SkipInitializeWithVersion: true}), nil
	case models.DatabaseTypePostgreSQL:
		if ds.ConnectionString != "" {
			return postgres.Open(ds.ConnectionString), nil
		}

		return postgres.Open(dsn.Postgres(params(ds))), nil
	case models.DatabaseTypeSQLite:
		file := c.SQLiteFile(ds)
		if _, err := os.Stat(file); err != nil {
			return nil, errors.Wrap(ErrSQLiteFileNotFound, file)
		}

		return sqlite.Open(file), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedDatabaseType, "%q", ds.DatabaseType)
	}
}

// Open connects to the data source and pings it within the connect timeout.
// Callers close the returned connection with Close.
func (c *Connector) Open(ctx context.Context, ds *models.DataSource) (*gorm.DB, error) {
	dialector, err := c.Dialector(ds)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, ds.Title, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	sqlDB, err := conn.DB()
	if err == nil {
		err = sqlDB.PingContext(pingCtx)
	}

	if err != nil {
		Close(conn)
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, ds.Title, err)
	}

	return conn, nil
}

// TestConnection reports whether the data source is reachable.
func (c *Connector) TestConnection(ctx context.Context, ds *models.DataSource) error {
	conn, err := c.Open(ctx, ds)
	if err != nil {
		return err
	}

	Close(conn)

	return nil
}

// Close releases the pool behind a connection returned by Open.
func Close(conn *gorm.DB) {
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func params(ds *models.DataSource) dsn.Params {
	return dsn.Params{
		Host:     ds.Host,
		Port:     ds.Port,
		User:     ds.Username,
		Password: ds.Password,
		Name:     ds.DatabaseName,
		SSL:      ds.UseSSL,
	}
}

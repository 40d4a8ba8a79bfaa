// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/goinsights/goinsights/internal/config"
)

const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

// Params describes a network database connection.
type Params struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSL      bool
	Extras   string // raw query string appended to the DSN
}

// Create builds the Data Source Name of the application database from the configuration.
func Create(cfg *config.Config) string {
	p := Params{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Name:     cfg.DB.Name,
		Extras:   cfg.DB.Extras,
	}

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(p)
	case config.EngineSQLite:
		return cfg.DB.Name
	default:
		return MySQL(p)
	}
}

// MySQL builds a go-sql-driver DSN, e.g. user:pass@tcp(host:3306)/name?parseTime=true.
func MySQL(p Params) string {
	c := mysql.NewConfig()
	c.User = p.User
	c.Passwd = p.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(p.Host, strconv.Itoa(portOr(p.Port, defaultMySQLPort)))
	c.DBName = p.Name
	c.ParseTime = true

	if p.SSL {
		c.TLSConfig = "true"
	}

	return appendExtras(c.FormatDSN(), p.Extras)
}

// Postgres builds a postgres:// connection URI understood by pgx.
func Postgres(p Params) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(portOr(p.Port, defaultPostgresPort))),
		Path:   "/" + p.Name,
	}

	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}

	q := url.Values{}
	if p.SSL {
		q.Set("sslmode", "require")
	} else {
		q.Set("sslmode", "disable")
	}

	u.RawQuery = q.Encode()

	return appendExtras(u.String(), p.Extras)
}

func portOr(port, fallback int) int {
	if port == 0 {
		return fallback
	}

	return port
}

func appendExtras(dsn, extras string) string {
	extras = strings.TrimPrefix(extras, "?")
	if extras == "" {
		return dsn
	}

	if strings.Contains(dsn, "?") {
		return dsn + "&" + extras
	}

	return dsn + "?" + extras
}

package config

import (
	"time"

	"github.com/goinsights/goinsights/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode     bool // enable dev mode for development
	DB          DB
	Log         logger.Log
	Title       string
	Webserver   Webserver
	Redis       Redis
	DataSources DataSources
	Telemetry   Telemetry
	Setup       Setup
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}

// Redis configures the asynq backed task queue. When disabled, jobs run in-process.
type Redis struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	Concurrency int
}

// DataSources holds settings used when connecting to analytical databases.
type DataSources struct {
	SQLitePath     string        // directory holding <database_name>.sqlite files
	ConnectTimeout time.Duration // ping timeout for connection tests
}

// Telemetry configures the survey response forwarder.
type Telemetry struct {
	Enabled   bool
	SurveyURL string
	Timeout   time.Duration
}

// Setup holds first-start seed values.
type Setup struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

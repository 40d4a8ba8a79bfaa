package config

const (
	// EngineMySQL selects the gorm mysql driver for the application database.
	EngineMySQL = "mysql"
	// EnginePostgres selects the gorm postgres driver for the application database.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure go sqlite driver for the application database.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string // database name, or the file path for sqlite
	GormEngine string // mysql, postgres or sqlite
}

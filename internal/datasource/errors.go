package datasource

import "errors"

var (
	// ErrUnsupportedDatabaseType is returned for a missing or unknown database type tag.
	ErrUnsupportedDatabaseType = errors.New("unsupported database type")

	// ErrSQLiteFileNotFound is returned when a sqlite data source points at a missing file.
	ErrSQLiteFileNotFound = errors.New("sqlite database file not found")

	// ErrConnectionFailed is returned when a data source can not be opened or pinged.
	ErrConnectionFailed = errors.New("failed to connect to data source")

	// ErrDataSourceNotFound is returned when no data source has the requested name.
	ErrDataSourceNotFound = errors.New("data source not found")

	// ErrDataSourceExists is returned when the document name of a new data source is taken.
	ErrDataSourceExists = errors.New("data source already exists")
)

package datasource

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/db/models"
)

// createSQLite creates <dir>/<name>.sqlite holding the given tables.
func createSQLite(t *testing.T, dir, name string, tables ...string) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(dir, name+SQLiteExt)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	defer Close(conn)

	for _, table := range tables {
		require.NoError(t, conn.Exec("CREATE TABLE "+table+" (id INTEGER PRIMARY KEY)").Error)
	}
}

func newTestConnector(dir string) *Connector {
	return NewConnector(config.DataSources{SQLitePath: dir, ConnectTimeout: 2 * time.Second})
}

func TestSQLiteFile(t *testing.T) {
	c := newTestConnector("/srv/sqlite")

	assert.Equal(t, "/srv/sqlite/shop.sqlite",
		c.SQLiteFile(&models.DataSource{DatabaseType: models.DatabaseTypeSQLite, DatabaseName: "shop"}))
	assert.Equal(t, "/tmp/other.db",
		c.SQLiteFile(&models.DataSource{DatabaseType: models.DatabaseTypeSQLite, ConnectionString: "/tmp/other.db"}))
}

func TestTestConnectionSQLite(t *testing.T) {
	dir := t.TempDir()
	createSQLite(t, dir, "shop", "orders")

	c := newTestConnector(dir)

	err := c.TestConnection(context.Background(), &models.DataSource{
		Title: "Shop", DatabaseType: models.DatabaseTypeSQLite, DatabaseName: "shop",
	})
	require.NoError(t, err)
}

func TestTestConnectionMissingSQLiteFile(t *testing.T) {
	c := newTestConnector(t.TempDir())

	err := c.TestConnection(context.Background(), &models.DataSource{
		Title: "Gone", DatabaseType: models.DatabaseTypeSQLite, DatabaseName: "gone",
	})
	require.ErrorIs(t, err, ErrSQLiteFileNotFound)
}

func TestTestConnectionUnsupportedType(t *testing.T) {
	c := newTestConnector(t.TempDir())

	err := c.TestConnection(context.Background(), &models.DataSource{DatabaseType: "Oracle"})
	require.ErrorIs(t, err, ErrUnsupportedDatabaseType)
}

func TestTestConnectionUnreachableMariaDB(t *testing.T) {
	c := NewConnector(config.DataSources{ConnectTimeout: 500 * time.Millisecond})

	// port 1 on localhost refuses connections
	err := c.TestConnection(context.Background(), &models.DataSource{
		Title: "Nowhere", DatabaseType: models.DatabaseTypeMariaDB, Host: "127.0.0.1", Port: 1,
		Username: "u", Password: "p", DatabaseName: "db",
	})
	require.ErrorIs(t, err, ErrConnectionFailed)
	assert.Contains(t, err.Error(), "Nowhere")
}

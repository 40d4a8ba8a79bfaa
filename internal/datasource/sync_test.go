package datasource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/db/dbtest"
	"github.com/goinsights/goinsights/internal/db/models"
)

func tableNames(t *testing.T, db *gorm.DB, dataSourceID uint64) []string {
	t.Helper()

	var names []string
	require.NoError(t, db.Model(&models.Table{}).
		Where("data_source_id = ?", dataSourceID).
		Order("name").
		Pluck("name", &names).Error)

	return names
}

func TestSyncTables(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	dir := t.TempDir()

	createSQLite(t, dir, "shop", "orders", "customers")

	ds := &models.DataSource{Title: "Shop", DatabaseType: models.DatabaseTypeSQLite, DatabaseName: "shop"}
	require.NoError(t, db.Create(ds).Error)
	assert.Equal(t, models.DataSourceInactive, ds.Status)

	syncer := NewSyncer(db, newTestConnector(dir))
	require.NoError(t, syncer.SyncTables(ctx, "Shop"))

	assert.Equal(t, []string{"customers", "orders"}, tableNames(t, db, ds.ID))

	stored, err := Get(ctx, db, "Shop")
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceActive, stored.Status)

	// change the remote schema and sync again
	remote, err := gorm.Open(sqlite.Open(filepath.Join(dir, "shop"+SQLiteExt)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, remote.Exec("DROP TABLE orders").Error)
	require.NoError(t, remote.Exec("CREATE TABLE products (id INTEGER PRIMARY KEY)").Error)
	Close(remote)

	require.NoError(t, syncer.SyncTables(ctx, "Shop"))
	assert.Equal(t, []string{"customers", "products"}, tableNames(t, db, ds.ID))
}

func TestSyncTablesUnknownDataSource(t *testing.T) {
	syncer := NewSyncer(dbtest.Open(t), newTestConnector(t.TempDir()))

	require.ErrorIs(t, syncer.SyncTables(context.Background(), "nope"), ErrDataSourceNotFound)
}

func TestSyncTablesUnreachableMarksInactive(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)

	ds := &models.DataSource{
		Title: "Gone", DatabaseType: models.DatabaseTypeSQLite, DatabaseName: "gone",
		Status: models.DataSourceActive,
	}
	require.NoError(t, db.Create(ds).Error)

	err := NewSyncer(db, newTestConnector(t.TempDir())).SyncTables(ctx, "Gone")
	require.ErrorIs(t, err, ErrSQLiteFileNotFound)

	stored, err := Get(ctx, db, "Gone")
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceInactive, stored.Status)
}

func TestSetTitle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)

	require.ErrorIs(t, SetTitle(ctx, db, models.SiteDBName, "ERPNext"), ErrDataSourceNotFound)

	require.NoError(t, db.Create(&models.DataSource{
		Name: models.SiteDBName, Title: "Site DB", DatabaseType: models.DatabaseTypeSQLite, IsSiteDB: true,
	}).Error)

	require.NoError(t, SetTitle(ctx, db, models.SiteDBName, "ERPNext"))

	stored, err := Get(ctx, db, models.SiteDBName)
	require.NoError(t, err)
	assert.Equal(t, "ERPNext", stored.Title)
	assert.Equal(t, models.SiteDBName, stored.Name)
}

func TestDataSourceNaming(t *testing.T) {
	db := dbtest.Open(t)

	byTitle := &models.DataSource{Title: "Shop", DatabaseType: models.DatabaseTypeSQLite}
	byDatabase := &models.DataSource{DatabaseName: "warehouse", DatabaseType: models.DatabaseTypePostgreSQL}
	anonymous := &models.DataSource{DatabaseType: models.DatabaseTypeMariaDB}

	require.NoError(t, db.Create(byTitle).Error)
	require.NoError(t, db.Create(byDatabase).Error)
	require.NoError(t, db.Create(anonymous).Error)

	assert.Equal(t, "Shop", byTitle.Name)
	assert.Equal(t, "warehouse", byDatabase.Name)
	assert.NotEmpty(t, anonymous.Name)
}

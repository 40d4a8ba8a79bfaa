package demo

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/datasource"
	"github.com/goinsights/goinsights/internal/db/dbtest"
	"github.com/goinsights/goinsights/internal/db/models"
	"github.com/goinsights/goinsights/internal/queue"
)

func configFor(f *Factory) config.DataSources {
	return config.DataSources{SQLitePath: f.sqlitePath}
}

type recordingQueue struct {
	mu    sync.Mutex
	tasks []string
}

func (q *recordingQueue) Enqueue(task *queue.SyncTablesTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.tasks = append(q.tasks, task.DataSource)

	return nil
}

func (q *recordingQueue) IsAsync() bool { return false }

func (q *recordingQueue) Close() error { return nil }

func TestFactoryRun(t *testing.T) {
	db := dbtest.Open(t)
	q := &recordingQueue{}
	f := NewFactory(db, t.TempDir(), q)
	ctx := context.Background()

	require.NoError(t, f.Run(ctx))

	ds, err := datasource.Get(ctx, db, DataSourceName)
	require.NoError(t, err)
	assert.Equal(t, DataSourceTitle, ds.Title)
	assert.Equal(t, models.DatabaseTypeSQLite, ds.DatabaseType)
	assert.Equal(t, models.DataSourceInactive, ds.Status)
	assert.Equal(t, []string{DataSourceName}, q.tasks)

	connector := datasource.NewConnector(configFor(f))
	conn, err := connector.Open(ctx, ds)
	require.NoError(t, err)

	defer datasource.Close(conn)

	var customers, orders int64
	require.NoError(t, conn.Model(&Customer{}).Count(&customers).Error)
	require.NoError(t, conn.Model(&Order{}).Count(&orders).Error)
	assert.EqualValues(t, customerCount, customers)
	assert.EqualValues(t, orderCount, orders)

	// a second run changes nothing
	require.NoError(t, f.Run(ctx))

	var count int64
	require.NoError(t, db.Model(&models.DataSource{}).Where("name = ?", DataSourceName).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Len(t, q.tasks, 1)
}

func TestFactoryRunThenSync(t *testing.T) {
	db := dbtest.Open(t)
	dir := t.TempDir()
	ctx := context.Background()

	f := NewFactory(db, dir, nil)
	require.NoError(t, f.Run(ctx))

	syncer := datasource.NewSyncer(db, datasource.NewConnector(configFor(f)))
	require.NoError(t, syncer.SyncTables(ctx, DataSourceName))

	var names []string
	require.NoError(t, db.Model(&models.Table{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"customers", "order_items", "orders", "products"}, names)
}

func TestGenerateIsDeterministic(t *testing.T) {
	c1, p1, o1 := generate()
	c2, p2, o2 := generate()

	assert.Equal(t, c1, c2)
	assert.Equal(t, p1, p2)
	assert.Equal(t, o1, o2)
}

func TestImportQueriesAndDashboards(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	ImportQueriesAndDashboards(ctx, db, Fixtures)

	var queries, dashboards, items int64
	require.NoError(t, db.Model(&models.Query{}).Count(&queries).Error)
	require.NoError(t, db.Model(&models.Dashboard{}).Count(&dashboards).Error)
	require.NoError(t, db.Model(&models.DashboardItem{}).Count(&items).Error)
	assert.EqualValues(t, 4, queries)
	assert.EqualValues(t, 1, dashboards)
	assert.EqualValues(t, 4, items)

	var dashboard models.Dashboard
	require.NoError(t, db.Where("title = ?", DashboardTitle).First(&dashboard).Error)
	assert.NotEmpty(t, dashboard.Name)

	// skipped once the dashboard exists
	ImportQueriesAndDashboards(ctx, db, Fixtures)
	require.NoError(t, db.Model(&models.Query{}).Count(&queries).Error)
	assert.EqualValues(t, 4, queries)
}

func TestImportSwallowsBrokenFixtures(t *testing.T) {
	db := dbtest.Open(t)

	fsys := fstest.MapFS{
		queriesFile:    {Data: []byte(`[{"title": "Broken"}]`)},
		dashboardsFile: {Data: []byte(`not json`)},
	}

	assert.NotPanics(t, func() {
		ImportQueriesAndDashboards(context.Background(), db, fsys)
	})

	var dashboards int64
	require.NoError(t, db.Model(&models.Dashboard{}).Count(&dashboards).Error)
	assert.Zero(t, dashboards)
}

func TestImportRollsBackOnDashboardFailure(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	fsys := fstest.MapFS{
		queriesFile:    {Data: []byte(`[{"name": "Monthly Revenue", "title": "Monthly Revenue"}]`)},
		dashboardsFile: {Data: []byte(`[{"name": "shop", "title": "Overview"}, {"name": "shop", "title": "eCommerce"}]`)},
	}

	ImportQueriesAndDashboards(ctx, db, fsys)

	var queries, dashboards int64
	require.NoError(t, db.Model(&models.Query{}).Count(&queries).Error)
	require.NoError(t, db.Model(&models.Dashboard{}).Count(&dashboards).Error)
	assert.Zero(t, queries)
	assert.Zero(t, dashboards)

	// nothing was left behind, so the bundled fixtures still import
	ImportQueriesAndDashboards(ctx, db, Fixtures)

	require.NoError(t, db.Model(&models.Dashboard{}).Where("title = ?", DashboardTitle).Count(&dashboards).Error)
	assert.EqualValues(t, 1, dashboards)
}

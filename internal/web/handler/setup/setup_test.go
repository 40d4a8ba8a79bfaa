package setup

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/auth"
	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/datasource"
	"github.com/goinsights/goinsights/internal/db/controller/insights"
	"github.com/goinsights/goinsights/internal/db/dbtest"
	"github.com/goinsights/goinsights/internal/db/models"
	"github.com/goinsights/goinsights/internal/demo"
	"github.com/goinsights/goinsights/internal/queue"
	setupsvc "github.com/goinsights/goinsights/internal/setup"
	"github.com/goinsights/goinsights/internal/telemetry"
	"github.com/goinsights/goinsights/internal/web/handler"
	"github.com/goinsights/goinsights/internal/web/webtest"
)

type env struct {
	app     *fiber.App
	db      *gorm.DB
	dir     string
	queue   *queue.LocalQueue
	survey  chan url.Values
	adminID string
	userID  string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		db:     dbtest.Open(t),
		dir:    t.TempDir(),
		survey: make(chan url.Values, 1),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		e.survey <- form

		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	dsCfg := config.DataSources{SQLitePath: e.dir, ConnectTimeout: 2 * time.Second}
	connector := datasource.NewConnector(dsCfg)
	syncer := datasource.NewSyncer(e.db, connector)
	e.queue = queue.NewLocalQueue(func(ctx context.Context, task *queue.SyncTablesTask) error {
		return syncer.SyncTables(ctx, task.DataSource)
	})
	t.Cleanup(func() { _ = e.queue.Close() })

	svc := setupsvc.NewService(
		e.db,
		connector,
		demo.NewFactory(e.db, e.dir, e.queue),
		telemetry.NewClient(config.Telemetry{Enabled: true, SurveyURL: srv.URL, Timeout: 2 * time.Second}),
		e.queue,
	)

	e.app = fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})

	var s Service
	require.NoError(t, s.Init(e.app, &handler.Deps{DB: e.db, Auth: auth.NewService(e.db), Setup: svc}))

	e.adminID = webtest.Session(t, e.db, "admin", models.RoleInsightsAdmin)
	e.userID = webtest.Session(t, e.db, "viewer", models.RoleInsightsUser)

	_, err := insights.Ensure(e.db)
	require.NoError(t, err)

	return e
}

func (e *env) call(t *testing.T, proc, sid string, body any) (int, map[string]any) {
	t.Helper()

	code, out := webtest.PostJSON(t, e.app, Prefix+proc, sid, body)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded), string(out))

	return code, decoded
}

func TestSetupCompleteFlow(t *testing.T) {
	e := newEnv(t)

	code, body := e.call(t, ProcSetupComplete, e.userID, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, body["message"])

	code, _ = e.call(t, ProcCompleteSetup, e.userID, nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, body = e.call(t, ProcCompleteSetup, e.adminID, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, body)

	code, body = e.call(t, ProcSetupComplete, e.userID, nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["message"])
}

func TestSetupCompleteGet(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, Prefix+ProcSetupComplete, nil)
	code, out := webtest.Do(t, e.app, req, e.userID)
	require.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"message": false}`, string(out))
}

func TestUnauthenticated(t *testing.T) {
	e := newEnv(t)

	code, body := e.call(t, ProcSetupComplete, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, handler.ExcAuthentication, body["exc_type"])
}

func TestUpdateERPNextSourceTitle(t *testing.T) {
	e := newEnv(t)

	code, body := e.call(t, ProcUpdateERPNextSourceTitle, e.adminID, map[string]any{"title": "ERPNext"})
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, handler.ExcDoesNotExist, body["exc_type"])

	require.NoError(t, e.db.Create(&models.DataSource{
		Name: models.SiteDBName, Title: models.SiteDBName, DatabaseType: models.DatabaseTypeSQLite, IsSiteDB: true,
	}).Error)

	code, _ = e.call(t, ProcUpdateERPNextSourceTitle, e.adminID, map[string]any{"title": "ERPNext"})
	require.Equal(t, fiber.StatusOK, code)

	ds, err := datasource.Get(context.Background(), e.db, models.SiteDBName)
	require.NoError(t, err)
	assert.Equal(t, "ERPNext", ds.Title)

	code, body = e.call(t, ProcUpdateERPNextSourceTitle, e.adminID, map[string]any{})
	assert.Equal(t, fiber.StatusExpectationFailed, code)
	assert.Equal(t, handler.ExcValidation, body["exc_type"])
}

func TestSetupSampleData(t *testing.T) {
	e := newEnv(t)

	code, _ := e.call(t, ProcSetupSampleData, e.adminID, map[string]any{"dataset": "eCommerce"})
	require.Equal(t, fiber.StatusOK, code)

	e.queue.Wait()

	ds, err := datasource.Get(context.Background(), e.db, demo.DataSourceName)
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceActive, ds.Status)
}

func TestSubmitSurveyResponses(t *testing.T) {
	e := newEnv(t)

	code, _ := e.call(t, ProcSubmitSurveyResponses, e.userID, map[string]any{
		"responses": `{"role": "Analyst"}`,
	})
	require.Equal(t, fiber.StatusOK, code)

	form := <-e.survey
	assert.Equal(t, "{\n    \"role\": \"Analyst\"\n}", form.Get("response"))
}

func TestTestDatabaseConnection(t *testing.T) {
	e := newEnv(t)

	conn, err := gorm.Open(sqlite.Open(filepath.Join(e.dir, "sales.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("CREATE TABLE deals (id INTEGER PRIMARY KEY)").Error)
	datasource.Close(conn)

	code, body := e.call(t, ProcTestDatabaseConnection, e.adminID, map[string]any{
		"database": map[string]any{"type": "SQLite", "title": "Sales"},
	})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["message"])

	code, body = e.call(t, ProcTestDatabaseConnection, e.adminID, map[string]any{
		"database": `{"type": "SQLite", "title": "Missing"}`,
	})
	assert.Equal(t, fiber.StatusExpectationFailed, code)
	assert.Equal(t, handler.ExcValidation, body["exc_type"])

	code, body = e.call(t, ProcTestDatabaseConnection, e.adminID, map[string]any{
		"database": map[string]any{"type": "Oracle"},
	})
	assert.Equal(t, fiber.StatusExpectationFailed, code)
	assert.True(t, strings.Contains(body["exception"].(string), "unsupported database type"))
}

func TestAddDatabaseTwice(t *testing.T) {
	e := newEnv(t)

	args := map[string]any{
		"database": map[string]any{"type": "PostgreSQL", "title": "Warehouse", "name": "dwh", "host": "127.0.0.1", "port": 1},
	}

	code, _ := e.call(t, ProcAddDatabase, e.adminID, args)
	require.Equal(t, fiber.StatusOK, code)

	code, body := e.call(t, ProcAddDatabase, e.adminID, args)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, handler.ExcDuplicateEntry, body["exc_type"])
	assert.Equal(t, "data source already exists: Warehouse", body["exception"])

	var count int64
	require.NoError(t, e.db.Model(&models.DataSource{}).Where("name = ?", "Warehouse").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	e.queue.Wait()
}

func TestAddDatabase(t *testing.T) {
	e := newEnv(t)

	conn, err := gorm.Open(sqlite.Open(filepath.Join(e.dir, "sales.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec("CREATE TABLE deals (id INTEGER PRIMARY KEY)").Error)
	datasource.Close(conn)

	code, _ := e.call(t, ProcAddDatabase, e.adminID, map[string]any{
		"database": map[string]any{"type": "SQLite", "title": "Sales"},
	})
	require.Equal(t, fiber.StatusOK, code)

	e.queue.Wait()

	ds, err := datasource.Get(context.Background(), e.db, "Sales")
	require.NoError(t, err)
	assert.Equal(t, models.DataSourceActive, ds.Status)

	var tables []string
	require.NoError(t, e.db.Model(&models.Table{}).Where("data_source_id = ?", ds.ID).Pluck("name", &tables).Error)
	assert.Equal(t, []string{"deals"}, tables)
}

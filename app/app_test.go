package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/daemon"
	"github.com/goinsights/goinsights/internal/db/models"
	"github.com/goinsights/goinsights/internal/demo"
)

const testConfig = `
Title = "GoInsights"

[Webserver]
Port = 9090
URL = "http://localhost:9090"

[DB]
GormEngine = "sqlite"
Name = "insights.db"

[Log]
AppName = "goinsights"
ServiceName = "test"
`

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(testConfig), 0o600))

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "--config", dir})

	require.NoError(t, Execute())

	var dumped map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &dumped))

	webserver, ok := dumped["Webserver"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 9090, webserver["Port"])
}

func TestConfigCommandMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"config", "--config", t.TempDir()})
	require.Error(t, Execute())
}

func TestDemoImportCommand(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "insights.db")
	conf := strings.Replace(testConfig, `Name = "insights.db"`, fmt.Sprintf("Name = %q", dbFile), 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(conf), 0o600))

	for range 2 {
		rootCmd.SetArgs([]string{"demo", "import", "--config", dir})
		require.NoError(t, Execute())
	}

	db, err := daemon.OpenDB(&config.Config{DB: config.DB{GormEngine: config.EngineSQLite, Name: dbFile}})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, errDB := db.DB(); errDB == nil {
			_ = sqlDB.Close()
		}
	})

	var dashboards int64
	require.NoError(t, db.Model(&models.Dashboard{}).Where("title = ?", demo.DashboardTitle).Count(&dashboards).Error)
	assert.EqualValues(t, 1, dashboards)

	var queries int64
	require.NoError(t, db.Model(&models.Query{}).Count(&queries).Error)
	assert.Positive(t, queries)
}

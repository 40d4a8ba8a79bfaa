package demo

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/db/models"
)

const (
	// DashboardTitle is the title of the demo dashboard.
	DashboardTitle = "eCommerce"

	queriesFile    = "fixtures/demo_queries.json"
	dashboardsFile = "fixtures/demo_dashboards.json"
)

// Fixtures holds the bundled demo queries and dashboards.
//
//go:embed fixtures/*.json
var Fixtures embed.FS

// ImportQueriesAndDashboards creates the demo queries and dashboards from
// fsys unless the demo dashboard exists. Failures are logged, not returned.
func ImportQueriesAndDashboards(ctx context.Context, db *gorm.DB, fsys fs.FS) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Dashboard{}).Where("title = ?", DashboardTitle).
		Count(&count).Error; err != nil {
		log.Error().Err(err).Msg("failed to look up demo dashboard")
		return
	}

	if count > 0 {
		log.Debug().Msg("demo dashboard exists, skipping fixture import")
		return
	}

	if err := importFixtures(ctx, db, fsys); err != nil {
		log.Error().Err(err).Msg("failed to create demo queries and dashboards")
		return
	}

	log.Info().Msg("demo queries and dashboards created")
}

// importFixtures creates all fixtures or none of them.
func importFixtures(ctx context.Context, db *gorm.DB, fsys fs.FS) error {
	var (
		queries    []models.Query
		dashboards []models.Dashboard
	)

	if err := readFixture(fsys, queriesFile, &queries); err != nil {
		return err
	}

	if err := readFixture(fsys, dashboardsFile, &dashboards); err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range queries {
			if err := tx.Create(&queries[i]).Error; err != nil {
				return err
			}
		}

		for i := range dashboards {
			if err := tx.Create(&dashboards[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func readFixture(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

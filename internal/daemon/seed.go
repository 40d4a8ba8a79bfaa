package daemon

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/auth"
	"github.com/goinsights/goinsights/internal/config"
	"github.com/goinsights/goinsights/internal/datasource"
	"github.com/goinsights/goinsights/internal/db/controller/insights"
	"github.com/goinsights/goinsights/internal/db/models"
)

// seed creates what a fresh deployment needs: roles, the first admin, the
// settings document and the Site DB data source. Existing rows are kept.
func seed(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if err := auth.SeedRoles(db); err != nil {
		return err
	}

	if err := seedAdmin(cfg, db); err != nil {
		return err
	}

	created, err := insights.Ensure(db)
	if err != nil {
		return err
	}

	if created {
		log.Info().Msg("insights settings created, setup wizard pending")
	}

	return seedSiteDB(ctx, cfg, db)
}

func seedAdmin(cfg *config.Config, db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if cfg.Setup.AdminUsername == "" || cfg.Setup.AdminPassword == "" {
		log.Warn().Msg("no users and no Setup.AdminUsername/AdminPassword configured, nobody can log in")
		return nil
	}

	_, err := auth.NewLocalProvider(db).CreateUser(
		cfg.Setup.AdminUsername,
		cfg.Setup.AdminEmail,
		cfg.Setup.AdminPassword,
		"Administrator",
		models.RoleInsightsAdmin,
	)
	if err != nil {
		return err
	}

	log.Info().Str("username", cfg.Setup.AdminUsername).Msg("admin user created")

	return nil
}

func seedSiteDB(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	exists, err := datasource.Exists(ctx, db, models.SiteDBName)
	if err != nil || exists {
		return err
	}

	site := SiteDataSource(cfg)
	if err = db.WithContext(ctx).Create(site).Error; err != nil {
		return err
	}

	log.Info().Str("type", string(site.DatabaseType)).Msg("site db data source created")

	return nil
}

// SiteDataSource describes the application database as a data source.
func SiteDataSource(cfg *config.Config) *models.DataSource {
	ds := &models.DataSource{
		Name:         models.SiteDBName,
		Title:        models.SiteDBName,
		DatabaseName: cfg.DB.Name,
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		Username:     cfg.DB.User,
		Password:     cfg.DB.Password,
		IsSiteDB:     true,
	}

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		ds.DatabaseType = models.DatabaseTypePostgreSQL
	case config.EngineSQLite:
		ds.DatabaseType = models.DatabaseTypeSQLite
		ds.Host, ds.Port, ds.Username, ds.Password = "", 0, "", ""
		ds.ConnectionString = cfg.DB.Name
	default:
		ds.DatabaseType = models.DatabaseTypeMariaDB
	}

	return ds
}

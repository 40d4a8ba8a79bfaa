package datasource

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/db/models"
)

// Syncer mirrors the table list of data sources into the tables table.
type Syncer struct {
	db        *gorm.DB
	connector *Connector
}

// NewSyncer creates a table syncer storing results in db.
func NewSyncer(db *gorm.DB, connector *Connector) *Syncer {
	return &Syncer{db: db, connector: connector}
}

// SyncTables lists the tables of the named data source and reconciles the
// stored table rows. The data source becomes Active on success and Inactive
// when it can not be reached.
func (s *Syncer) SyncTables(ctx context.Context, name string) error {
	ds, err := Get(ctx, s.db, name)
	if err != nil {
		return err
	}

	names, err := s.listTables(ctx, ds)
	if err != nil {
		if statusErr := SetStatus(ctx, s.db, ds.ID, models.DataSourceInactive); statusErr != nil {
			log.Error().Err(statusErr).Str("data_source", name).Msg("failed to mark data source inactive")
		}

		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Table
		if err := tx.Where("data_source_id = ?", ds.ID).Find(&existing).Error; err != nil {
			return err
		}

		found := make(map[string]bool, len(names))
		for _, n := range names {
			found[n] = true
		}

		var stale []uint64

		for _, t := range existing {
			if found[t.Name] {
				delete(found, t.Name)
				continue
			}

			stale = append(stale, t.ID)
		}

		if len(stale) > 0 {
			if err := tx.Delete(&models.Table{}, stale).Error; err != nil {
				return err
			}
		}

		// keep the discovery order of the remote database
		var created []models.Table

		for _, n := range names {
			if found[n] {
				created = append(created, models.Table{DataSourceID: ds.ID, Name: n})
			}
		}

		if len(created) > 0 {
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
		}

		log.Info().
			Str("data_source", name).
			Int("tables", len(names)).
			Int("added", len(created)).
			Int("removed", len(stale)).
			Msg("data source tables synced")

		return tx.Model(&models.DataSource{}).Where("id = ?", ds.ID).Update("status", models.DataSourceActive).Error
	})

	return err
}

func (s *Syncer) listTables(ctx context.Context, ds *models.DataSource) ([]string, error) {
	conn, err := s.connector.Open(ctx, ds)
	if err != nil {
		return nil, err
	}
	defer Close(conn)

	all, err := conn.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(all))

	for _, n := range all {
		// sqlite bookkeeping tables such as sqlite_sequence
		if strings.HasPrefix(n, "sqlite_") {
			continue
		}

		names = append(names, n)
	}

	return names, nil
}

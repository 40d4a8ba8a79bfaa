package datasource

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/db/models"
)

const nameQueryPattern = "name = ?"

// Get loads a data source by its document name.
func Get(ctx context.Context, db *gorm.DB, name string) (*models.DataSource, error) {
	var ds models.DataSource

	err := db.WithContext(ctx).Where(nameQueryPattern, name).First(&ds).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDataSourceNotFound
	}

	if err != nil {
		return nil, err
	}

	return &ds, nil
}

// Exists reports whether a data source with the given name is stored.
func Exists(ctx context.Context, db *gorm.DB, name string) (bool, error) {
	var count int64

	err := db.WithContext(ctx).Model(&models.DataSource{}).Where(nameQueryPattern, name).Count(&count).Error

	return count > 0, err
}

// SetTitle renames the data source called name in place.
func SetTitle(ctx context.Context, db *gorm.DB, name, title string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := Exists(ctx, tx, name)
		if err != nil {
			return err
		}

		if !exists {
			return ErrDataSourceNotFound
		}

		return tx.Model(&models.DataSource{}).Where(nameQueryPattern, name).Update("title", title).Error
	})
}

// SetStatus records the outcome of the last connection attempt.
func SetStatus(ctx context.Context, db *gorm.DB, id uint64, status models.DataSourceStatus) error {
	return db.WithContext(ctx).Model(&models.DataSource{}).Where("id = ?", id).Update("status", status).Error
}

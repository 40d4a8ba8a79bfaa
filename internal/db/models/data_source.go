package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DatabaseType tags the kind of analytical database a data source connects to.
type DatabaseType string

const (
	// DatabaseTypeMariaDB connects through the mysql driver.
	DatabaseTypeMariaDB DatabaseType = "MariaDB"
	// DatabaseTypePostgreSQL connects through the postgres driver.
	DatabaseTypePostgreSQL DatabaseType = "PostgreSQL"
	// DatabaseTypeSQLite opens a local sqlite file.
	DatabaseTypeSQLite DatabaseType = "SQLite"
)

// DataSourceStatus reports whether the last table sync could connect.
type DataSourceStatus string

const (
	// DataSourceInactive is the state of a new or unreachable data source.
	DataSourceInactive DataSourceStatus = "Inactive"
	// DataSourceActive is set after a successful table sync.
	DataSourceActive DataSourceStatus = "Active"
)

// SiteDBName is the document name of the data source for the application database.
const SiteDBName = "Site DB"

// DataSource is a configured connection to an analytical database.
type DataSource struct {
	ID               uint64           `gorm:"primaryKey" json:"-"`
	Name             string           `gorm:"unique;size:140;not null" json:"name"`
	Title            string           `gorm:"size:140" json:"title"`
	DatabaseType     DatabaseType     `gorm:"type:varchar(20);not null" json:"database_type"`
	DatabaseName     string           `gorm:"size:255" json:"database_name,omitempty"`
	Host             string           `gorm:"size:255" json:"host,omitempty"`
	Port             int              `json:"port,omitempty"`
	Username         string           `gorm:"size:255" json:"username,omitempty"`
	Password         string           `gorm:"size:255" json:"-"`
	UseSSL           bool             `json:"use_ssl"`
	ConnectionString string           `gorm:"type:text" json:"-"`
	Status           DataSourceStatus `gorm:"type:varchar(20);not null;default:'Inactive'" json:"status"`
	IsSiteDB         bool             `json:"is_site_db"`
	Tables           []Table          `gorm:"foreignKey:DataSourceID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time        `json:"-"`
	UpdatedAt        time.Time        `json:"-"`
}

// BeforeCreate names the document after its title, its database name or a random id.
func (d *DataSource) BeforeCreate(_ *gorm.DB) error {
	if d.Name == "" {
		switch {
		case d.Title != "":
			d.Name = d.Title
		case d.DatabaseName != "":
			d.Name = d.DatabaseName
		default:
			d.Name = uuid.NewString()
		}
	}

	if d.Status == "" {
		d.Status = DataSourceInactive
	}

	return nil
}

// Table is a table discovered in a data source by the table sync job.
type Table struct {
	ID           uint64 `gorm:"primaryKey"`
	DataSourceID uint64 `gorm:"uniqueIndex:idx_data_source_table;not null"`
	Name         string `gorm:"uniqueIndex:idx_data_source_table;size:255;not null"`
	CreatedAt    time.Time
}

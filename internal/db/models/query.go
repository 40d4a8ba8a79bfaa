package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Query is a saved SQL query against a data source.
type Query struct {
	ID         uint64    `gorm:"primaryKey" json:"-"`
	Name       string    `gorm:"unique;size:140;not null" json:"name"`
	Title      string    `gorm:"size:140" json:"title"`
	DataSource string    `gorm:"size:140" json:"data_source"`
	SQL        string    `gorm:"type:text" json:"sql"`
	ChartType  string    `gorm:"size:40" json:"chart_type"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// BeforeCreate assigns a random name to unnamed queries.
func (q *Query) BeforeCreate(_ *gorm.DB) error {
	if q.Name == "" {
		q.Name = uuid.NewString()
	}

	return nil
}

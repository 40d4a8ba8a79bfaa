package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dashboard groups query charts on a grid.
type Dashboard struct {
	ID        uint64          `gorm:"primaryKey" json:"-"`
	Name      string          `gorm:"unique;size:140;not null" json:"name"`
	Title     string          `gorm:"size:140;index" json:"title"`
	Items     []DashboardItem `gorm:"foreignKey:DashboardID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

// BeforeCreate assigns a random name to unnamed dashboards.
func (d *Dashboard) BeforeCreate(_ *gorm.DB) error {
	if d.Name == "" {
		d.Name = uuid.NewString()
	}

	return nil
}

// DashboardItem places one query chart on a dashboard.
type DashboardItem struct {
	ID          uint64 `gorm:"primaryKey" json:"-"`
	DashboardID uint64 `gorm:"index;not null" json:"-"`
	ItemType    string `gorm:"size:40" json:"item_type"`
	Query       string `gorm:"size:140" json:"query"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	W           int    `json:"w"`
	H           int    `json:"h"`
}

// Package insights stores the Insights settings singleton.
package insights

import (
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/goinsights/goinsights/internal/db/controller/setting"
)

const (
	// SettingKeyInsights is the key used to store the Insights settings in the database.
	SettingKeyInsights = "insights_settings"
)

// Settings is the per-deployment Insights settings document.
type Settings struct {
	SetupComplete bool `json:"setup_complete"`
}

// Load loads the settings from the database.
func (s *Settings) Load(db *gorm.DB) error {
	stored, err := setting.Get(db, SettingKeyInsights)
	if err != nil {
		return err
	}

	return json.Unmarshal(stored.Value, s)
}

// Save saves the settings to the database.
func (s *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeyInsights, data)

	return err
}

// Ensure stores a fresh settings document unless one exists already.
// It returns whether a document was created.
func Ensure(db *gorm.DB) (bool, error) {
	exists, err := setting.Exists(db, SettingKeyInsights)
	if err != nil || exists {
		return false, err
	}

	data, err := json.Marshal(&Settings{})
	if err != nil {
		return false, err
	}

	if _, err = setting.Create(db, SettingKeyInsights, data); err != nil {
		if errors.Is(err, setting.ErrSettingAlreadyExists) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

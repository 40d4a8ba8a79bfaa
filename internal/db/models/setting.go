package models

// Setting is a named blob in the key/value settings table. Singleton documents
// such as the Insights settings are stored here as JSON.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:140"`
	Value []byte `gorm:"type:blob"`
}

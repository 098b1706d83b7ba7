package entities

import "time"

// SchemaVersion records a numbered migration step that has been applied.
type SchemaVersion struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false" json:"version"`
	Name      string    `gorm:"size:100" json:"name"`
	AppliedAt time.Time `json:"applied_at"`
}

func (SchemaVersion) TableName() string {
	return "schema_versions"
}

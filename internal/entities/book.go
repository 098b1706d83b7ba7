package entities

import "gorm.io/gorm"

const (
	DefaultSource   = "gutenberg"
	DefaultCategory = "other"
	DefaultLanguage = "en"
)

// Book is one library item. The ID is supplied by the caller (usually the
// catalog source id) and never changes once stored.
type Book struct {
	ID            string     `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"not null" json:"title"`
	AuthorID      string     `json:"author_id"`
	AuthorDisplay string     `json:"author_display"`
	CoverURL      string     `gorm:"default:''" json:"cover_url"`
	CoverLocal    string     `gorm:"default:''" json:"cover_local"`
	EpubURL       string     `gorm:"default:''" json:"epub_url"`
	FilePath      string     `gorm:"default:''" json:"file_path"`
	Source        string     `gorm:"default:'gutenberg'" json:"source"`
	SourceID      string     `gorm:"default:''" json:"source_id"`
	Category      string     `gorm:"index;default:'other'" json:"category"`
	Subjects      StringList `gorm:"type:text;default:'[]'" json:"subjects"`
	Language      string     `gorm:"default:'en'" json:"language"`

	DateAdded    int64  `gorm:"index;default:0" json:"date_added"`
	LastRead     int64  `gorm:"index;default:0" json:"last_read"`
	ReadPercent  int    `gorm:"default:0" json:"read_percent"`
	ReadPosition string `gorm:"default:''" json:"read_position"`
	IsFinished   bool   `gorm:"default:false" json:"is_finished"`

	Tags      StringList `gorm:"type:text;default:'[]'" json:"tags"`
	Notes     string     `gorm:"default:''" json:"notes"`
	EcoScore  *float64   `json:"eco_score"`
	Downloads int        `gorm:"default:0" json:"downloads"`
	Copyright Copyright  `gorm:"type:integer" json:"copyright"`
	BirthYear *int       `json:"birth_year"`
	DeathYear *int       `json:"death_year"`

	// Derived on read.
	Author  string `gorm:"-" json:"author"`
	Cover   string `gorm:"-" json:"cover"`
	HasEpub bool   `gorm:"-" json:"has_epub"`
}

func (Book) TableName() string {
	return "books_tb"
}

// AfterFind fills the derived fields for every row GORM loads.
func (b *Book) AfterFind(tx *gorm.DB) error {
	b.Derive()
	return nil
}

// Derive recomputes the read-only convenience fields from stored columns.
func (b *Book) Derive() {
	b.Author = b.AuthorDisplay
	b.Cover = b.CoverURL
	if b.CoverLocal != "" {
		b.Cover = b.CoverLocal
	}
	b.HasEpub = b.EpubURL != ""
	if b.Subjects == nil {
		b.Subjects = StringList{}
	}
	if b.Tags == nil {
		b.Tags = StringList{}
	}
}

// ApplyDefaults fills unset fields the same way the table defaults would,
// so the value handed back to the caller matches what was stored.
func (b *Book) ApplyDefaults(now int64) {
	if b.AuthorDisplay == "" {
		b.AuthorDisplay = b.Author
	}
	if b.CoverURL == "" {
		b.CoverURL = b.Cover
	}
	if b.Source == "" {
		b.Source = DefaultSource
	}
	if b.Category == "" {
		b.Category = DefaultCategory
	}
	if b.Language == "" {
		b.Language = DefaultLanguage
	}
	if b.Subjects == nil {
		b.Subjects = StringList{}
	}
	if b.Tags == nil {
		b.Tags = StringList{}
	}
	if b.DateAdded == 0 {
		b.DateAdded = now
	}
	b.Derive()
}

package entities

// ReadingList is a user-defined ordered collection of books.
type ReadingList struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"default:''" json:"description"`
	CreatedAt   int64  `gorm:"autoCreateTime:false;default:0" json:"created_at"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:false;index;default:0" json:"updated_at"`

	BookIDs []string `gorm:"-" json:"book_ids"`
}

func (ReadingList) TableName() string {
	return "reading_lists_tb"
}

// ReadingListEntry places a book in a list. A book appears at most once per
// list; Position gives append order and is never compacted.
type ReadingListEntry struct {
	ListID   string `gorm:"primaryKey;autoIncrement:false" json:"list_id"`
	BookID   string `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
	Position int    `gorm:"default:0" json:"position"`
}

func (ReadingListEntry) TableName() string {
	return "reading_list_entries_tb"
}

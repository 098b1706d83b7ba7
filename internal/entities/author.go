package entities

import "strings"

// Author is created lazily the first time a book references it and is never
// updated afterwards.
type Author struct {
	ID          string  `gorm:"primaryKey" json:"id"`
	NameDisplay string  `gorm:"not null" json:"name_display"`
	NameSort    string  `gorm:"not null" json:"name_sort"`
	BirthYear   *int    `json:"birth_year"`
	DeathYear   *int    `json:"death_year"`
	Nationality *string `json:"nationality"`
}

func (Author) TableName() string {
	return "authors_tb"
}

// SortName turns "Mary Wollstonecraft Shelley" into
// "Shelley, Mary Wollstonecraft". Single-token names are returned as given.
func SortName(display string) string {
	parts := strings.Split(strings.TrimSpace(display), " ")
	if len(parts) <= 1 {
		return display
	}
	last := parts[len(parts)-1]
	return last + ", " + strings.Join(parts[:len(parts)-1], " ")
}

package models

import "time"

// Tag is created lazily the first time a question uses its name. Names are
// unique case-insensitively; lookups go through the lower(name) index.
type Tag struct {
	ID          int        `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name"`
	Description string     `json:"description"`
	Questions   []Question `gorm:"many2many:question_tags" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

type Answer struct {
	ID         int      `gorm:"primaryKey" json:"id"`
	Content    string   `gorm:"not null" json:"content"`
	AuthorID   int      `gorm:"index" json:"author_id"`
	Author     User     `gorm:"foreignKey:AuthorID" json:"author"`
	QuestionID int      `gorm:"index" json:"question_id"`
	Question   Question `gorm:"foreignKey:QuestionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content string `json:"content" binding:"required"`
	Path    string `json:"path"`
}

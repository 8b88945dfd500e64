package models

import "time"

type Question struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `json:"content"`
	AuthorID int    `gorm:"index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	Tags     []Tag  `gorm:"many2many:question_tags" json:"tags"`
	Views    int    `gorm:"default:0" json:"views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateQuestionRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags" binding:"required,min=1,max=5"`
	Path    string   `json:"path"`
}

type EditQuestionRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Path    string `json:"path"`
}

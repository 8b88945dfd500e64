package models

import "time"

// Interaction actions recorded by the services layer.
const (
	ActionAskQuestion = "ask_question"
	ActionAnswer      = "answer"
	ActionView        = "view"
)

// Interaction is an append-only log of a user's actions against a question.
// Rows are never updated; they only disappear when their question is
// deleted. The recommendation feed derives its tag set from this log.
type Interaction struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	UserID     int    `gorm:"index" json:"user_id"`
	QuestionID int    `gorm:"index" json:"question_id"`
	Action     string `gorm:"not null" json:"action"`
	Tags       []Tag  `gorm:"many2many:interaction_tags" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
}

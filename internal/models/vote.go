package models

import "time"

// Vote values.
const (
	Upvote   = 1
	Downvote = -1
)

// Vote - one row per (user, target). The unique indexes make upvote and
// downvote membership mutually exclusive: a user has at most one row per
// question or answer and the row's value says which side they are on.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"not null;uniqueIndex:idx_question_vote;uniqueIndex:idx_answer_vote" json:"user_id"`
	QuestionID *int      `gorm:"uniqueIndex:idx_question_vote;index" json:"question_id,omitempty"`
	AnswerID   *int      `gorm:"uniqueIndex:idx_answer_vote;index" json:"answer_id,omitempty"`
	Value      int       `gorm:"not null" json:"value"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SavedQuestion is the user-specific bookmark relation to a question.
type SavedQuestion struct {
	UserID     int `gorm:"primaryKey" json:"user_id"`
	QuestionID int `gorm:"primaryKey" json:"question_id"`
}

package models

import "time"

// Reputation deltas applied by the services layer.
const (
	RepAskQuestion = 5
	RepPostAnswer  = 10
	RepCastVote    = 1
	RepReceiveVote = 10
)

// Reputation event reasons.
const (
	ReasonAskQuestion = "ask_question"
	ReasonPostAnswer  = "post_answer"
	ReasonCastVote    = "cast_vote"
	ReasonReceiveVote = "receive_vote"
)

// ReputationEvent is an append-only ledger entry. User.Reputation is
// updated in the same transaction that writes the event, so the counter
// always equals the sum of the user's deltas and can be recomputed from
// the ledger after a replay.
type ReputationEvent struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	UserID     int    `gorm:"index;not null" json:"user_id"`
	Delta      int    `gorm:"not null" json:"delta"`
	Reason     string `gorm:"not null" json:"reason"`
	QuestionID *int   `json:"question_id,omitempty"`
	AnswerID   *int   `json:"answer_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avelinadev/devflow/backend/internal/models"
)

// VoteQuestion applies one vote action from userID on a question. The
// transition runs in a single transaction:
//
//   - no existing vote: a vote row is created (voter ±1, author ±10)
//   - existing vote in the same direction: the row is removed and the
//     earlier reputation credit is reversed
//   - existing vote in the opposite direction: the row flips and the
//     new direction's credit applies
//
// Because there is at most one vote row per (user, question), a user can
// never sit on both sides at once.
func (s *Service) VoteQuestion(ctx context.Context, questionID, userID, value int, path string) error {
	if err := validVote(value); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, questionID).Error; err != nil {
			return notFound(err, "question")
		}
		return castVote(tx, userID, value, question.AuthorID, &question.ID, nil)
	})
	if err != nil {
		return err
	}
	s.revalidate(path, "/api/questions")
	return nil
}

// VoteAnswer mirrors VoteQuestion for answers.
func (s *Service) VoteAnswer(ctx context.Context, answerID, userID, value int, path string) error {
	if err := validVote(value); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, answerID).Error; err != nil {
			return notFound(err, "answer")
		}
		return castVote(tx, userID, value, answer.AuthorID, nil, &answer.ID)
	})
	if err != nil {
		return err
	}
	s.revalidate(path, "/api/questions")
	return nil
}

func validVote(value int) error {
	if value != models.Upvote && value != models.Downvote {
		return fmt.Errorf("vote value must be %d or %d", models.Upvote, models.Downvote)
	}
	return nil
}

func castVote(tx *gorm.DB, userID, value, authorID int, questionID, answerID *int) error {
	query := tx.Where("user_id = ?", userID)
	if questionID != nil {
		query = query.Where("question_id = ?", *questionID)
	} else {
		query = query.Where("answer_id = ?", *answerID)
	}

	var existing models.Vote
	err := query.First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		vote := models.Vote{UserID: userID, QuestionID: questionID, AnswerID: answerID, Value: value}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		return creditVote(tx, userID, authorID, value, questionID, answerID)
	case err != nil:
		return err
	case existing.Value == value:
		// Same direction again - retract the vote and reverse its credit.
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return creditVote(tx, userID, authorID, -value, questionID, answerID)
	default:
		existing.Value = value
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		return creditVote(tx, userID, authorID, value, questionID, answerID)
	}
}

// creditVote adjusts both parties: the voter by ±1, the content author by
// ±10, each backed by a ledger event. Voting on your own content applies
// both deltas to the same user.
func creditVote(tx *gorm.DB, voterID, authorID, sign int, questionID, answerID *int) error {
	if err := applyReputation(tx, voterID, sign*models.RepCastVote, models.ReasonCastVote, questionID, answerID); err != nil {
		return err
	}
	return applyReputation(tx, authorID, sign*models.RepReceiveVote, models.ReasonReceiveVote, questionID, answerID)
}

// applyReputation writes a ledger event and moves the user's counter in the
// same transaction, so the counter stays equal to the ledger sum.
func applyReputation(tx *gorm.DB, userID, delta int, reason string, questionID, answerID *int) error {
	event := models.ReputationEvent{
		UserID:     userID,
		Delta:      delta,
		Reason:     reason,
		QuestionID: questionID,
		AnswerID:   answerID,
	}
	if err := tx.Create(&event).Error; err != nil {
		return err
	}
	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta)).Error
}

// ToggleSaveQuestion flips the user's bookmark on a question and reports
// the resulting membership. Calling it twice restores the original state.
func (s *Service) ToggleSaveQuestion(ctx context.Context, questionID, userID int, path string) (bool, error) {
	var saved bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return notFound(err, "user")
		}

		var existing models.SavedQuestion
		err := tx.Where("user_id = ? AND question_id = ?", userID, questionID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = true
			return tx.Create(&models.SavedQuestion{UserID: userID, QuestionID: questionID}).Error
		case err != nil:
			return err
		default:
			saved = false
			return tx.Where("user_id = ? AND question_id = ?", userID, questionID).
				Delete(&models.SavedQuestion{}).Error
		}
	})
	if err != nil {
		return false, err
	}
	s.revalidate(path, "/api/questions")
	return saved, nil
}

// VoteState is the caller-visible vote/save membership for one question.
type VoteState struct {
	HasUpvoted   bool `json:"has_upvoted"`
	HasDownvoted bool `json:"has_downvoted"`
	HasSaved     bool `json:"has_saved"`
}

// QuestionVoteState reports where userID stands on a question.
func (s *Service) QuestionVoteState(ctx context.Context, questionID, userID int) (VoteState, error) {
	var state VoteState
	var vote models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&vote).Error
	if err == nil {
		state.HasUpvoted = vote.Value == models.Upvote
		state.HasDownvoted = vote.Value == models.Downvote
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return state, err
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.SavedQuestion{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	if err != nil {
		return state, err
	}
	state.HasSaved = count > 0
	return state, nil
}

// QuestionVoteCounts returns the up/down totals for a question.
func (s *Service) QuestionVoteCounts(ctx context.Context, questionID int) (int, int) {
	return s.voteCounts(ctx, "question_id", questionID)
}

// AnswerVoteCounts returns the up/down totals for an answer.
func (s *Service) AnswerVoteCounts(ctx context.Context, answerID int) (int, int) {
	return s.voteCounts(ctx, "answer_id", answerID)
}

func (s *Service) voteCounts(ctx context.Context, column string, id int) (int, int) {
	var up, down int64
	s.db.WithContext(ctx).Model(&models.Vote{}).
		Where(column+" = ? AND value = ?", id, models.Upvote).Count(&up)
	s.db.WithContext(ctx).Model(&models.Vote{}).
		Where(column+" = ? AND value = ?", id, models.Downvote).Count(&down)
	return int(up), int(down)
}

package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/avelinadev/devflow/backend/internal/models"
)

const answerScore = "(SELECT COALESCE(SUM(value), 0) FROM votes WHERE votes.answer_id = answers.id)"

// CreateAnswer posts an answer under a question. One transaction: insert
// the answer, log the interaction with the question's tags, credit the
// author's reputation.
func (s *Service) CreateAnswer(ctx context.Context, content string, authorID, questionID int, path string) (*models.Answer, error) {
	answer := models.Answer{
		Content:    content,
		AuthorID:   authorID,
		QuestionID: questionID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.Preload("Tags").First(&question, questionID).Error; err != nil {
			return notFound(err, "question")
		}

		if err := tx.Create(&answer).Error; err != nil {
			return err
		}

		interaction := models.Interaction{
			UserID:     authorID,
			QuestionID: questionID,
			Action:     models.ActionAnswer,
			Tags:       question.Tags,
		}
		if err := tx.Create(&interaction).Error; err != nil {
			return err
		}

		return applyReputation(tx, authorID, models.RepPostAnswer, models.ReasonPostAnswer, &questionID, &answer.ID)
	})
	if err != nil {
		return nil, err
	}

	s.revalidate(path, "/api/questions")
	return &answer, nil
}

// GetAnswers lists a question's answers. Sorts: highest_upvotes,
// lowest_upvotes, recent, old.
func (s *Service) GetAnswers(ctx context.Context, questionID int, sort string) ([]models.Answer, error) {
	query := s.db.WithContext(ctx).Where("question_id = ?", questionID)

	switch sort {
	case "highest_upvotes":
		query = query.Order(answerScore + " DESC")
	case "lowest_upvotes":
		query = query.Order(answerScore + " ASC")
	case "recent":
		query = query.Order("created_at DESC")
	case "old":
		query = query.Order("created_at ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var answers []models.Answer
	if err := query.Preload("Author").Find(&answers).Error; err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	return answers, nil
}

// GetAnswerByID loads a single answer.
func (s *Service) GetAnswerByID(ctx context.Context, id int) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		return nil, notFound(err, "answer")
	}
	return &answer, nil
}

// AnswerList is the paginated result of a per-user answer query.
type AnswerList struct {
	Answers []models.Answer `json:"answers"`
	IsNext  bool            `json:"is_next"`
}

// GetUserAnswers lists a user's answers, highest voted first.
func (s *Service) GetUserAnswers(ctx context.Context, userID int, opts PageOpts) (*AnswerList, error) {
	opts = opts.normalize()
	query := s.db.WithContext(ctx).Model(&models.Answer{}).Where("author_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var answers []models.Answer
	err := query.
		Order(answerScore + " DESC").
		Preload("Author").Preload("Question").
		Offset(opts.offset()).Limit(opts.PageSize).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []models.Answer{}
	}
	return &AnswerList{Answers: answers, IsNext: opts.isNext(total, len(answers))}, nil
}

// DeleteAnswer removes an answer and its votes.
func (s *Service) DeleteAnswer(ctx context.Context, answerID int, path string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, answerID).Error; err != nil {
			return notFound(err, "answer")
		}
		if err := tx.Where("answer_id = ?", answerID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Answer{}, answerID).Error
	})
	if err != nil {
		return err
	}

	s.revalidate(path, "/api/questions")
	return nil
}

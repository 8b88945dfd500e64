package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/avelinadev/devflow/backend/internal/models"
	"github.com/avelinadev/devflow/backend/internal/search"
)

const questionScore = "(SELECT COALESCE(SUM(value), 0) FROM votes WHERE votes.question_id = questions.id)"

// QuestionList is the paginated result of a question query.
type QuestionList struct {
	Questions []models.Question `json:"questions"`
	IsNext    bool              `json:"is_next"`
}

// GetQuestions returns the paginated question feed. Filters: newest,
// unanswered, frequent.
func (s *Service) GetQuestions(ctx context.Context, opts PageOpts) (*QuestionList, error) {
	opts = opts.normalize()
	query := s.db.WithContext(ctx).Model(&models.Question{})
	query = s.applyQuestionSearch(query, opts.Search)

	switch opts.Filter {
	case "unanswered":
		query = query.Where("NOT EXISTS (SELECT 1 FROM answers WHERE answers.question_id = questions.id)")
	case "frequent":
		query = query.Order("views DESC")
	case "newest":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	err := query.
		Preload("Tags").Preload("Author").
		Offset(opts.offset()).Limit(opts.PageSize).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []models.Question{}
	}

	return &QuestionList{Questions: questions, IsNext: opts.isNext(total, len(questions))}, nil
}

// applyQuestionSearch narrows a question query by free text, preferring the
// search index and falling back to SQL matching when it is unavailable.
func (s *Service) applyQuestionSearch(query *gorm.DB, text string) *gorm.DB {
	if text == "" {
		return query
	}
	if ids, ok := s.index.SearchQuestions(text, 1000); ok {
		return query.Where("questions.id IN ?", ids)
	}
	pattern := "%" + text + "%"
	return query.Where("questions.title ILIKE ? OR questions.content ILIKE ?", pattern, pattern)
}

// CreateQuestion inserts a question, links its tags (find-or-create,
// case-insensitive), records the ask_question interaction and credits the
// author's reputation - all in one transaction.
func (s *Service) CreateQuestion(ctx context.Context, title, content string, authorID int, tagNames []string, path string) (*models.Question, error) {
	question := models.Question{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		tags := make([]models.Tag, 0, len(tagNames))
		for _, name := range dedupeFold(tagNames) {
			tag, err := findOrCreateTag(tx, name)
			if err != nil {
				return err
			}
			tags = append(tags, tag)
		}
		if len(tags) > 0 {
			if err := tx.Model(&question).Association("Tags").Append(tags); err != nil {
				return err
			}
		}

		interaction := models.Interaction{
			UserID:     authorID,
			QuestionID: question.ID,
			Action:     models.ActionAskQuestion,
			Tags:       tags,
		}
		if err := tx.Create(&interaction).Error; err != nil {
			return err
		}

		return applyReputation(tx, authorID, models.RepAskQuestion, models.ReasonAskQuestion, &question.ID, nil)
	})
	if err != nil {
		return nil, err
	}

	s.revalidate(path, "/api/questions", "/api/tags")
	s.index.IndexQuestion(search.QuestionRecord{ID: question.ID, Title: question.Title, Content: question.Content})
	return &question, nil
}

// GetQuestionByID loads a question with its author and tags.
func (s *Service) GetQuestionByID(ctx context.Context, id int) (*models.Question, error) {
	var question models.Question
	err := s.db.WithContext(ctx).
		Preload("Tags").Preload("Author").
		First(&question, id).Error
	if err != nil {
		return nil, notFound(err, "question")
	}
	return &question, nil
}

// EditQuestion overwrites the mutable fields of a question.
func (s *Service) EditQuestion(ctx context.Context, id int, title, content, path string) (*models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, notFound(err, "question")
	}

	question.Title = title
	question.Content = content
	if err := s.db.WithContext(ctx).Save(&question).Error; err != nil {
		return nil, err
	}

	s.revalidate(path, "/api/questions")
	s.index.IndexQuestion(search.QuestionRecord{ID: question.ID, Title: question.Title, Content: question.Content})
	return &question, nil
}

// DeleteQuestion removes a question together with its answers, votes,
// interactions, tag links and bookmarks. Tags themselves survive; they are
// never deleted once created.
func (s *Service) DeleteQuestion(ctx context.Context, id int, path string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, id).Error; err != nil {
			return notFound(err, "question")
		}
		return deleteQuestionCascade(tx, id)
	})
	if err != nil {
		return err
	}

	s.revalidate(path, "/api/questions", "/api/tags")
	s.index.DeleteQuestion(id)
	return nil
}

// deleteQuestionCascade removes one question and every dependent record.
// Callers run it inside a transaction.
func deleteQuestionCascade(tx *gorm.DB, id int) error {
	if err := tx.Where("question_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
		return err
	}
	if err := tx.Where("answer_id IN (SELECT id FROM answers WHERE question_id = ?)", id).
		Delete(&models.Vote{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM interaction_tags WHERE interaction_id IN (SELECT id FROM interactions WHERE question_id = ?)", id).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id = ?", id).Delete(&models.Interaction{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM question_tags WHERE question_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id = ?", id).Delete(&models.SavedQuestion{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Question{}, id).Error
}

// IncrementViews bumps the view counter atomically. When the viewer is
// known, a view interaction is recorded once per (user, question).
func (s *Service) IncrementViews(ctx context.Context, questionID, userID int) error {
	result := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", questionID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "question")
	}

	if userID == 0 {
		return nil
	}
	var existing models.Interaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ? AND action = ?", userID, questionID, models.ActionView).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.WithContext(ctx).Create(&models.Interaction{
		UserID:     userID,
		QuestionID: questionID,
		Action:     models.ActionView,
	}).Error
}

// GetHotQuestions returns the five highest-scored questions.
func (s *Service) GetHotQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.WithContext(ctx).
		Order(questionScore + " DESC").
		Order("views DESC").
		Limit(5).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}

// findOrCreateTag resolves a tag by case-insensitive name, creating it on
// first use with the caller's casing. Idempotent: two questions tagged
// "Go" and "go" share one tag.
func findOrCreateTag(tx *gorm.DB, name string) (models.Tag, error) {
	var tag models.Tag
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tag = models.Tag{Name: name}
		return tag, tx.Create(&tag).Error
	}
	return tag, err
}

// dedupeFold drops case-insensitive duplicates, keeping first occurrences.
// ["rust", "Rust"] collapses to ["rust"] before any tag is linked.
func dedupeFold(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

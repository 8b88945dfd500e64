package services

import (
	"context"

	"github.com/avelinadev/devflow/backend/internal/models"
)

// GetRecommendedQuestions derives a candidate feed for a user: the union
// of tag ids across their interaction history selects questions carrying
// any of those tags, minus the user's own. "Recommended" means tag-overlap
// candidate set; ordering is recency, not a score.
func (s *Service) GetRecommendedQuestions(ctx context.Context, clerkID string, opts PageOpts) (*QuestionList, error) {
	user, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	opts = opts.normalize()

	var tagIDs []int
	err = s.db.WithContext(ctx).Model(&models.Interaction{}).
		Distinct("interaction_tags.tag_id").
		Joins("JOIN interaction_tags ON interaction_tags.interaction_id = interactions.id").
		Where("interactions.user_id = ?", user.ID).
		Pluck("interaction_tags.tag_id", &tagIDs).Error
	if err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return &QuestionList{Questions: []models.Question{}}, nil
	}

	query := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("EXISTS (SELECT 1 FROM question_tags WHERE question_tags.question_id = questions.id AND question_tags.tag_id IN ?)", tagIDs).
		Where("questions.author_id <> ?", user.ID)
	query = s.applyQuestionSearch(query, opts.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	err = query.
		Order("questions.created_at DESC").
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

package services

import (
	"context"

	"github.com/avelinadev/devflow/backend/internal/models"
)

// TagList is the paginated result of a tag query.
type TagList struct {
	Tags   []models.Tag `json:"tags"`
	IsNext bool         `json:"is_next"`
}

// GetAllTags returns the paginated tag directory. Filters: popular, name,
// recent, old.
func (s *Service) GetAllTags(ctx context.Context, opts PageOpts) (*TagList, error) {
	opts = opts.normalize()
	query := s.db.WithContext(ctx).Model(&models.Tag{})
	if opts.Search != "" {
		query = query.Where("name ILIKE ?", "%"+opts.Search+"%")
	}

	switch opts.Filter {
	case "popular":
		query = query.Order("(SELECT COUNT(*) FROM question_tags WHERE question_tags.tag_id = tags.id) DESC")
	case "name":
		query = query.Order("name ASC")
	case "recent":
		query = query.Order("created_at DESC")
	case "old":
		query = query.Order("created_at ASC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var tags []models.Tag
	if err := query.Offset(opts.offset()).Limit(opts.PageSize).Find(&tags).Error; err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return &TagList{Tags: tags, IsNext: opts.isNext(total, len(tags))}, nil
}

// TagQuestions is a tag page: the tag's name plus its questions.
type TagQuestions struct {
	TagTitle  string            `json:"tag_title"`
	Questions []models.Question `json:"questions"`
	IsNext    bool              `json:"is_next"`
}

// GetQuestionsByTagID lists the questions carrying a tag. The tag list can
// reference already-deleted questions only transiently; deleted questions
// drop their join rows, so this query never surfaces them.
func (s *Service) GetQuestionsByTagID(ctx context.Context, tagID int, opts PageOpts) (*TagQuestions, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, tagID).Error; err != nil {
		return nil, notFound(err, "tag")
	}
	opts = opts.normalize()

	query := s.db.WithContext(ctx).Model(&models.Question{}).
		Joins("JOIN question_tags ON question_tags.question_id = questions.id").
		Where("question_tags.tag_id = ?", tagID)
	query = s.applyQuestionSearch(query, opts.Search)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	err := query.
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
	return &TagQuestions{
		TagTitle:  tag.Name,
		Questions: questions,
		IsNext:    opts.isNext(total, len(questions)),
	}, nil
}

// GetTopInteractedTags returns the tags a user touches most, derived from
// the interaction log.
func (s *Service) GetTopInteractedTags(ctx context.Context, userID, limit int) ([]models.Tag, error) {
	if limit <= 0 {
		limit = 3
	}
	var tags []models.Tag
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Joins("JOIN interaction_tags ON interaction_tags.tag_id = tags.id").
		Joins("JOIN interactions ON interactions.id = interaction_tags.interaction_id").
		Where("interactions.user_id = ?", userID).
		Group("tags.id").
		Order("COUNT(*) DESC").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

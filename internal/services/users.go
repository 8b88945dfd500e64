package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/avelinadev/devflow/backend/internal/models"
)

// CreateUser inserts a user record for a fresh identity-provider sign-up.
func (s *Service) CreateUser(ctx context.Context, clerkID, name, username, email, picture string) (*models.User, error) {
	user := models.User{
		ClerkID:  clerkID,
		Name:     name,
		Username: username,
		Email:    email,
		Picture:  picture,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser syncs profile fields for the user matching the external id.
func (s *Service) UpdateUser(ctx context.Context, clerkID string, update models.UserUpdate, path string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("clerk_id = ?", clerkID).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user")
	}

	user.Name = update.Name
	user.Username = update.Username
	user.Email = update.Email
	user.Picture = update.Picture
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}

	s.revalidate(path, "/api/users")
	return &user, nil
}

// DeleteUser removes the user matching the external id together with every
// question they authored (and those questions' dependents). Answers and
// interactions the user left on other people's questions stay behind as a
// historical record.
func (s *Service) DeleteUser(ctx context.Context, clerkID string) (*models.User, error) {
	var user models.User
	var questionIDs []int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("clerk_id = ?", clerkID).First(&user).Error; err != nil {
			return notFound(err, "user")
		}

		if err := tx.Model(&models.Question{}).
			Where("author_id = ?", user.ID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		for _, id := range questionIDs {
			if err := deleteQuestionCascade(tx, id); err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.SavedQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		return nil, err
	}

	for _, id := range questionIDs {
		s.index.DeleteQuestion(id)
	}
	s.revalidate("/api/users", "/api/questions")
	return &user, nil
}

// GetUserByClerkID resolves a user by the external identity-provider id.
func (s *Service) GetUserByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("clerk_id = ?", clerkID).First(&user).Error
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

// UserList is the paginated result of a user query.
type UserList struct {
	Users  []models.User `json:"users"`
	IsNext bool          `json:"is_next"`
}

// GetAllUsers returns the paginated community page. Filters: new_users,
// old_users, top_contributors.
func (s *Service) GetAllUsers(ctx context.Context, opts PageOpts) (*UserList, error) {
	opts = opts.normalize()
	query := s.db.WithContext(ctx).Model(&models.User{})
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("name ILIKE ? OR username ILIKE ?", pattern, pattern)
	}

	switch opts.Filter {
	case "new_users":
		query = query.Order("created_at DESC")
	case "old_users":
		query = query.Order("created_at ASC")
	case "top_contributors":
		query = query.Order("reputation DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var users []models.User
	err := query.Offset(opts.offset()).Limit(opts.PageSize).Find(&users).Error
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &UserList{Users: users, IsNext: opts.isNext(total, len(users))}, nil
}

// UserInfo is the profile header: the user plus content totals.
type UserInfo struct {
	User           models.User `json:"user"`
	TotalQuestions int64       `json:"total_questions"`
	TotalAnswers   int64       `json:"total_answers"`
}

// GetUserInfo aggregates profile statistics for the user matching clerkID.
func (s *Service) GetUserInfo(ctx context.Context, clerkID string) (*UserInfo, error) {
	user, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	info := UserInfo{User: *user}
	if err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("author_id = ?", user.ID).Count(&info.TotalQuestions).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&models.Answer{}).
		Where("author_id = ?", user.ID).Count(&info.TotalAnswers).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

// GetUserQuestions lists a user's questions, most viewed and voted first.
func (s *Service) GetUserQuestions(ctx context.Context, userID int, opts PageOpts) (*QuestionList, error) {
	opts = opts.normalize()
	query := s.db.WithContext(ctx).Model(&models.Question{}).Where("author_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	err := query.
		Order("views DESC").Order(questionScore + " DESC").
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

// GetSavedQuestions returns the user's bookmarked questions. Filters:
// most_recent, oldest, most_viewed, most_voted, most_answered.
func (s *Service) GetSavedQuestions(ctx context.Context, clerkID string, opts PageOpts) (*QuestionList, error) {
	user, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}
	opts = opts.normalize()

	query := s.db.WithContext(ctx).Model(&models.Question{}).
		Joins("JOIN saved_questions ON saved_questions.question_id = questions.id").
		Where("saved_questions.user_id = ?", user.ID)
	query = s.applyQuestionSearch(query, opts.Search)

	switch opts.Filter {
	case "most_recent":
		query = query.Order("questions.created_at DESC")
	case "oldest":
		query = query.Order("questions.created_at ASC")
	case "most_viewed":
		query = query.Order("questions.views DESC")
	case "most_voted":
		query = query.Order(questionScore + " DESC")
	case "most_answered":
		query = query.Order("(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) DESC")
	default:
		query = query.Order("questions.created_at DESC")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var questions []models.Question
	err = query.
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

// RecomputeReputation rebuilds the user's counter from the event ledger
// and returns the derived value. Safe to re-run at any time.
func (s *Service) RecomputeReputation(ctx context.Context, userID int) (int, error) {
	var sum int
	err := s.db.WithContext(ctx).Model(&models.ReputationEvent{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", sum)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, notFound(gorm.ErrRecordNotFound, "user")
	}
	return sum, nil
}

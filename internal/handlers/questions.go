package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/middleware"
	"github.com/avelinadev/devflow/backend/internal/models"
	"github.com/avelinadev/devflow/backend/internal/services"
)

type QuestionHandler struct {
	svc *services.Service
}

// GetQuestions returns the paginated question feed.
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	list, err := h.svc.GetQuestions(c.Request.Context(), pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetQuestion returns a single question with vote totals and, for an
// authenticated caller, their own vote/save state.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	question, err := h.svc.GetQuestionByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	up, down := h.svc.QuestionVoteCounts(c.Request.Context(), id)
	response := gin.H{
		"question":  question,
		"upvotes":   up,
		"downvotes": down,
	}

	if clerkID, ok := middleware.ClerkID(c); ok {
		if user, err := h.svc.GetUserByClerkID(c.Request.Context(), clerkID); err == nil {
			state, err := h.svc.QuestionVoteState(c.Request.Context(), id, user.ID)
			if err == nil {
				response["viewer"] = state
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// CreateQuestion creates a new question (PROTECTED)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	question, err := h.svc.CreateQuestion(c.Request.Context(), input.Title, input.Content, user.ID, input.Tags, input.Path)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// EditQuestion updates a question's title and content (PROTECTED - requires ownership)
func (h *QuestionHandler) EditQuestion(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input models.EditQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	question, err := h.svc.GetQuestionByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if question.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own questions"})
		return
	}

	updated, err := h.svc.EditQuestion(c.Request.Context(), id, input.Title, input.Content, input.Path)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteQuestion deletes a question and its dependents (PROTECTED - requires ownership)
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	question, err := h.svc.GetQuestionByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if question.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own questions"})
		return
	}

	if err := h.svc.DeleteQuestion(c.Request.Context(), id, c.Query("path")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}

// VoteQuestion handles upvoting/downvoting a question (PROTECTED)
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		VoteType int    `json:"vote_type" binding:"required,oneof=-1 1"`
		Path     string `json:"path"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote type must be -1 or 1"})
		return
	}

	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	if err := h.svc.VoteQuestion(c.Request.Context(), id, user.ID, input.VoteType, input.Path); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

// SaveQuestion toggles the caller's bookmark on a question (PROTECTED)
func (h *QuestionHandler) SaveQuestion(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		Path string `json:"path"`
	}
	_ = c.ShouldBindJSON(&input)

	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	saved, err := h.svc.ToggleSaveQuestion(c.Request.Context(), id, user.ID, input.Path)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// ViewQuestion bumps the view counter; the viewer is recorded when known.
func (h *QuestionHandler) ViewQuestion(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	viewerID := 0
	if clerkID, ok := middleware.ClerkID(c); ok {
		if user, err := h.svc.GetUserByClerkID(c.Request.Context(), clerkID); err == nil {
			viewerID = user.ID
		}
	}

	if err := h.svc.IncrementViews(c.Request.Context(), id, viewerID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "View recorded"})
}

// GetHotQuestions returns the five highest-scored questions.
func (h *QuestionHandler) GetHotQuestions(c *gin.Context) {
	questions, err := h.svc.GetHotQuestions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetRecommended returns the tag-overlap feed for the caller (PROTECTED)
func (h *QuestionHandler) GetRecommended(c *gin.Context) {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	list, err := h.svc.GetRecommendedQuestions(c.Request.Context(), clerkID, pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

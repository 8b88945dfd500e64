package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/models"
	"github.com/avelinadev/devflow/backend/internal/services"
)

type AnswerHandler struct {
	svc *services.Service
}

// GetAnswers returns all answers for a question with calculated votes.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, ok := intParam(c, "id")
	if !ok {
		return
	}

	answers, err := h.svc.GetAnswers(c.Request.Context(), questionID, c.Query("filter"))
	if err != nil {
		fail(c, err)
		return
	}

	responses := make([]gin.H, 0, len(answers))
	for _, answer := range answers {
		up, down := h.svc.AnswerVoteCounts(c.Request.Context(), answer.ID)
		responses = append(responses, gin.H{
			"id":          answer.ID,
			"content":     answer.Content,
			"author_id":   answer.AuthorID,
			"author":      answer.Author,
			"question_id": answer.QuestionID,
			"upvotes":     up,
			"downvotes":   down,
			"created_at":  answer.CreatedAt,
			"updated_at":  answer.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// CreateAnswer posts an answer under a question (PROTECTED)
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	questionID, ok := intParam(c, "id")
	if !ok {
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	answer, err := h.svc.CreateAnswer(c.Request.Context(), input.Content, user.ID, questionID, input.Path)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// DeleteAnswer deletes an answer and its votes (PROTECTED - requires ownership)
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	answerID, ok := intParam(c, "answerId")
	if !ok {
		return
	}

	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	answer, err := h.svc.GetAnswerByID(c.Request.Context(), answerID)
	if err != nil {
		fail(c, err)
		return
	}
	if answer.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own answers"})
		return
	}

	if err := h.svc.DeleteAnswer(c.Request.Context(), answerID, c.Query("path")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted successfully"})
}

// VoteAnswer handles upvoting/downvoting an answer (PROTECTED)
func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	answerID, ok := intParam(c, "answerId")
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

	if err := h.svc.VoteAnswer(c.Request.Context(), answerID, user.ID, input.VoteType, input.Path); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}

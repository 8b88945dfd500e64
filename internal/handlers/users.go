package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/models"
	"github.com/avelinadev/devflow/backend/internal/services"
)

type UserHandler struct {
	svc *services.Service
}

// GetUsers returns the paginated community page.
func (h *UserHandler) GetUsers(c *gin.Context) {
	list, err := h.svc.GetAllUsers(c.Request.Context(), pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUserProfile returns a user's profile: the user record plus question
// and answer totals. The path parameter is the identity-provider id, the
// key profile pages link by.
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	info, err := h.svc.GetUserInfo(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		fail(c, err)
		return
	}

	tags, err := h.svc.GetTopInteractedTags(c.Request.Context(), info.User.ID, 3)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            info.User,
		"total_questions": info.TotalQuestions,
		"total_answers":   info.TotalAnswers,
		"top_tags":        tags,
	})
}

// GetUserQuestions returns a user's questions, most viewed first.
func (h *UserHandler) GetUserQuestions(c *gin.Context) {
	user, err := h.svc.GetUserByClerkID(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		fail(c, err)
		return
	}

	list, err := h.svc.GetUserQuestions(c.Request.Context(), user.ID, pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUserAnswers returns a user's answers, highest voted first.
func (h *UserHandler) GetUserAnswers(c *gin.Context) {
	user, err := h.svc.GetUserByClerkID(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		fail(c, err)
		return
	}

	list, err := h.svc.GetUserAnswers(c.Request.Context(), user.ID, pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetSavedQuestions returns the caller's bookmarked questions (PROTECTED)
func (h *UserHandler) GetSavedQuestions(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	list, err := h.svc.GetSavedQuestions(c.Request.Context(), user.ClerkID, pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetMe returns the current authenticated user (PROTECTED)
func (h *UserHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe edits the caller's profile fields (PROTECTED). The identity
// provider remains authoritative; webhook syncs overwrite these fields.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	var input struct {
		models.UserUpdate
		Path string `json:"path"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.svc.UpdateUser(c.Request.Context(), user.ClerkID, input.UserUpdate, input.Path)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RecomputeReputation rebuilds the caller's reputation counter from the
// ledger (PROTECTED). Exposed for support tooling after replays.
func (h *UserHandler) RecomputeReputation(c *gin.Context) {
	user, ok := currentUser(c, h.svc)
	if !ok {
		return
	}

	reputation, err := h.svc.RecomputeReputation(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reputation": reputation})
}

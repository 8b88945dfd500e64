package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/middleware"
	"github.com/avelinadev/devflow/backend/internal/models"
	"github.com/avelinadev/devflow/backend/internal/services"
	"github.com/avelinadev/devflow/backend/internal/webhook"
)

// Handler combines all handler types
type Handler struct {
	Question *QuestionHandler
	Answer   *AnswerHandler
	User     *UserHandler
	Tag      *TagHandler
	Webhook  *WebhookHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(svc *services.Service, verifier *webhook.Verifier) *Handler {
	return &Handler{
		Question: &QuestionHandler{svc: svc},
		Answer:   &AnswerHandler{svc: svc},
		User:     &UserHandler{svc: svc},
		Tag:      &TagHandler{svc: svc},
		Webhook:  &WebhookHandler{svc: svc, verifier: verifier},
	}
}

// currentUser resolves the authenticated user from the token subject.
func currentUser(c *gin.Context, svc *services.Service) (*models.User, bool) {
	clerkID, ok := middleware.ClerkID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}
	user, err := svc.GetUserByClerkID(c.Request.Context(), clerkID)
	if err != nil {
		// A valid token whose subject has no local record means the
		// webhook sync has not landed yet (or the account is gone).
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return nil, false
	}
	return user, true
}

// pageOpts reads the shared pagination/search/filter query params.
func pageOpts(c *gin.Context) services.PageOpts {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return services.PageOpts{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("q"),
		Filter:   c.Query("filter"),
	}
}

// intParam parses a numeric path parameter, responding 400 on garbage.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// fail maps service errors onto the response taxonomy.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

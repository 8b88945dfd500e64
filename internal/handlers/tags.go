package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/services"
)

type TagHandler struct {
	svc *services.Service
}

// GetTags returns the paginated tag directory.
func (h *TagHandler) GetTags(c *gin.Context) {
	list, err := h.svc.GetAllTags(c.Request.Context(), pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetTagQuestions returns the questions carrying a tag.
func (h *TagHandler) GetTagQuestions(c *gin.Context) {
	tagID, ok := intParam(c, "id")
	if !ok {
		return
	}

	result, err := h.svc.GetQuestionsByTagID(c.Request.Context(), tagID, pageOpts(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/models"
	"github.com/avelinadev/devflow/backend/internal/services"
	"github.com/avelinadev/devflow/backend/internal/webhook"
)

// WebhookHandler receives identity-provider lifecycle events and maps
// them onto the user lifecycle operations.
type WebhookHandler struct {
	svc      *services.Service
	verifier *webhook.Verifier
}

// HandleClerkEvent verifies the signed envelope and dispatches by event
// type. A failed lifecycle write surfaces as a 5xx so the provider
// retries; success is only reported once the local record matches.
func (h *WebhookHandler) HandleClerkEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if err := h.verifier.Verify(c.Request.Header, body); err != nil {
		log.Printf("webhook: rejected event: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	var event webhook.Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed event payload"})
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case webhook.EventUserCreated:
		user, err := h.svc.CreateUser(ctx,
			event.Data.ID,
			event.Data.Name(),
			event.Data.Username,
			event.Data.Email(),
			event.Data.ImageURL,
		)
		if err != nil {
			log.Printf("webhook: user.created %s: %v", event.Data.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OK", "user": user})

	case webhook.EventUserUpdated:
		update := models.UserUpdate{
			Name:     event.Data.Name(),
			Username: event.Data.Username,
			Email:    event.Data.Email(),
			Picture:  event.Data.ImageURL,
		}
		user, err := h.svc.UpdateUser(ctx, event.Data.ID, update, "/profile/"+event.Data.ID)
		if err != nil {
			log.Printf("webhook: user.updated %s: %v", event.Data.ID, err)
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OK", "user": user})

	case webhook.EventUserDeleted:
		user, err := h.svc.DeleteUser(ctx, event.Data.ID)
		if err != nil {
			log.Printf("webhook: user.deleted %s: %v", event.Data.ID, err)
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "OK", "user": user})

	default:
		// Unhandled event types are acknowledged so the provider does
		// not keep redelivering them.
		c.JSON(http.StatusOK, gin.H{"message": ""})
	}
}

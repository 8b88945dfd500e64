package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelinadev/devflow/backend/internal/webhook"
)

var webhookTestKey = []byte("endpoint-test-key")

func webhookTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	secret := "whsec_" + base64.StdEncoding.EncodeToString(webhookTestKey)
	verifier, err := webhook.NewVerifier(secret, 5*time.Minute)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &WebhookHandler{verifier: verifier}
	r.POST("/api/webhooks/clerk", handler.HandleClerkEvent)
	return r
}

func signEnvelope(id, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, webhookTestKey)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signedWebhookRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", strings.NewReader(body))
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set(webhook.HeaderID, "msg_1")
	req.Header.Set(webhook.HeaderTimestamp, timestamp)
	req.Header.Set(webhook.HeaderSignature, signEnvelope("msg_1", timestamp, []byte(body)))
	return req
}

func TestWebhookRejectsUnsignedRequest(t *testing.T) {
	r := webhookTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/clerk", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r := webhookTestRouter(t)

	req := signedWebhookRequest(`{"type":"user.created"}`)
	req.Header.Set(webhook.HeaderSignature, "v1,bm90LXRoZS1zaWduYXR1cmU=")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestWebhookRejectsMalformedPayload(t *testing.T) {
	r := webhookTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhookRequest(`{not json`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestWebhookAcknowledgesUnknownEventType(t *testing.T) {
	r := webhookTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhookRequest(`{"type":"session.created","data":{"id":"sess_1"}}`))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (unknown events are acknowledged)", w.Code)
	}
}

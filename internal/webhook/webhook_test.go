package webhook

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func testVerifier(t *testing.T, tolerance time.Duration) *Verifier {
	t.Helper()
	secret := secretPrefix + base64.StdEncoding.EncodeToString([]byte("test-endpoint-key"))
	v, err := NewVerifier(secret, tolerance)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	return v
}

func signedHeaders(v *Verifier, id string, at time.Time, body []byte) http.Header {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	headers := http.Header{}
	headers.Set(HeaderID, id)
	headers.Set(HeaderTimestamp, timestamp)
	headers.Set(HeaderSignature, "v1,"+v.sign(id, timestamp, body))
	return headers
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	v := testVerifier(t, 5*time.Minute)
	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)

	headers := signedHeaders(v, "msg_1", time.Now(), body)
	if err := v.Verify(headers, body); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
}

func TestVerifyRejectsMissingHeaders(t *testing.T) {
	v := testVerifier(t, 5*time.Minute)
	body := []byte(`{}`)

	headers := signedHeaders(v, "msg_1", time.Now(), body)
	for _, name := range []string{HeaderID, HeaderTimestamp, HeaderSignature} {
		stripped := headers.Clone()
		stripped.Del(name)
		if err := v.Verify(stripped, body); !errors.Is(err, ErrMissingHeaders) {
			t.Errorf("Verify() without %s = %v, want ErrMissingHeaders", name, err)
		}
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	v := testVerifier(t, 5*time.Minute)
	body := []byte(`{"type":"user.created"}`)

	headers := signedHeaders(v, "msg_1", time.Now(), body)
	tampered := []byte(`{"type":"user.deleted"}`)
	if err := v.Verify(headers, tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify() with tampered body = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	v := testVerifier(t, 5*time.Minute)
	body := []byte(`{}`)
	headers := signedHeaders(v, "msg_1", time.Now(), body)

	other, err := NewVerifier(secretPrefix+base64.StdEncoding.EncodeToString([]byte("other-key")), 5*time.Minute)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	if err := other.Verify(headers, body); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify() with wrong key = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyRejectsStaleTimestamp(t *testing.T) {
	v := testVerifier(t, 5*time.Minute)
	body := []byte(`{}`)

	headers := signedHeaders(v, "msg_1", time.Now().Add(-10*time.Minute), body)
	if err := v.Verify(headers, body); !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("Verify() with old timestamp = %v, want ErrStaleTimestamp", err)
	}

	headers = signedHeaders(v, "msg_1", time.Now().Add(10*time.Minute), body)
	if err := v.Verify(headers, body); !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("Verify() with future timestamp = %v, want ErrStaleTimestamp", err)
	}
}

func TestVerifyZeroToleranceSkipsTimestampCheck(t *testing.T) {
	v := testVerifier(t, 0)
	body := []byte(`{}`)

	headers := signedHeaders(v, "msg_1", time.Now().Add(-24*time.Hour), body)
	if err := v.Verify(headers, body); err != nil {
		t.Fatalf("Verify() with zero tolerance = %v, want nil", err)
	}
}

func TestVerifyAcceptsAnyV1Signature(t *testing.T) {
	v := testVerifier(t, 5*time.Minute)
	body := []byte(`{}`)

	headers := signedHeaders(v, "msg_1", time.Now(), body)
	valid := headers.Get(HeaderSignature)
	headers.Set(HeaderSignature, "v1,bm90LXRoZS1zaWc= "+valid)
	if err := v.Verify(headers, body); err != nil {
		t.Fatalf("Verify() with multiple signatures = %v, want nil", err)
	}

	// A non-v1 scheme alone never matches, even with the right digest.
	headers.Set(HeaderSignature, "v2,"+valid[len("v1,"):])
	if err := v.Verify(headers, body); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("Verify() with v2-only signature = %v, want ErrInvalidSignature", err)
	}
}

func TestNewVerifierRejectsBadSecret(t *testing.T) {
	if _, err := NewVerifier("whsec_not!base64!!", time.Minute); err == nil {
		t.Fatal("expected NewVerifier() to fail for malformed secret")
	}
}

func TestEventDataHelpers(t *testing.T) {
	data := EventData{
		FirstName: "Ada",
		LastName:  "Lovelace",
		EmailAddresses: []EmailAddress{
			{EmailAddress: "ada@example.com"},
			{EmailAddress: "backup@example.com"},
		},
	}
	if got := data.Name(); got != "Ada Lovelace" {
		t.Errorf("Name() = %q, want %q", got, "Ada Lovelace")
	}
	if got := data.Email(); got != "ada@example.com" {
		t.Errorf("Email() = %q, want %q", got, "ada@example.com")
	}

	data = EventData{FirstName: "Ada"}
	if got := data.Name(); got != "Ada" {
		t.Errorf("Name() without last name = %q, want %q", got, "Ada")
	}
	if got := data.Email(); got != "" {
		t.Errorf("Email() without addresses = %q, want empty", got)
	}
}

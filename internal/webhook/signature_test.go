package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"email.bounced","data":{"email":"jane@example.com"}}`)
	secret := "whsec_test"

	tests := []struct {
		name      string
		signature string
		secret    string
		want      bool
	}{
		{"valid signature", sign(body, secret), secret, true},
		{"wrong signature", sign(body, "other-secret"), secret, false},
		{"tampered body signature", sign([]byte(`{}`), secret), secret, false},
		{"garbage signature", "not-hex-at-all", secret, false},
		{"missing signature with secret", "", secret, false},
		{"no secret allows unsigned", "", "", true},
		{"no secret ignores signature", "anything", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifySignature(body, tt.signature, tt.secret); got != tt.want {
				t.Errorf("VerifySignature() = %v, want %v", got, tt.want)
			}
		})
	}
}

package messenger

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	SignatureHeader = "X-Hub-Signature-256"

	// maxWebhookBody caps every webhook body read.
	maxWebhookBody = 1 << 20
)

// VerifySignature returns middleware that checks X-Hub-Signature-256 against appSecret.
// With an empty appSecret it passes every request through unchanged.
func VerifySignature(appSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if appSecret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context())

			signature := r.Header.Get(SignatureHeader)
			if signature == "" {
				logger.Warn().Msg("webhook request without signature")
				http.Error(w, "Missing signature", http.StatusUnauthorized)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					logger.Warn().Int64("limit", tooLarge.Limit).Msg("webhook payload too large")
					http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
					return
				}
				logger.Warn().Err(err).Msg("failed to read webhook body")
				http.Error(w, "Bad Request", http.StatusBadRequest)
				return
			}
			r.Body.Close()

			if !ValidSignature(appSecret, signature, body) {
				logger.Warn().Msg("webhook signature mismatch")
				http.Error(w, "Invalid signature", http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// ValidSignature reports whether signature ("sha256=<hex>") is the HMAC-SHA256 of body.
func ValidSignature(appSecret, signature string, body []byte) bool {
	hexSig, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(hexSig)
	if err != nil {
		return false
	}
	return hmac.Equal(got, Sign(appSecret, body))
}

// Sign computes the raw HMAC-SHA256 of body with appSecret.
func Sign(appSecret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return mac.Sum(nil)
}

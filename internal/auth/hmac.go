package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignBody returns the hex HMAC-SHA256 of a webhook body.
func SignBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares a provider-supplied signature against the body
// HMAC in constant time. An empty secret disables verification; an empty
// signature with a configured secret always fails.
func VerifySignature(secret string, body []byte, given string) bool {
	if secret == "" {
		return true
	}
	if given == "" {
		return false
	}
	want := SignBody(secret, body)
	return hmac.Equal([]byte(given), []byte(want))
}

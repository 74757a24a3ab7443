package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyGitHubSignature reports whether signatureHeader is a valid
// HMAC-SHA256 signature of body under secret, in the "sha256=<hex>" form
// GitHub sends in X-Hub-Signature-256.
//
// The MAC is computed over the exact raw bytes as received. Re-serializing
// the payload before hashing changes the bytes and produces false negatives
// against a real sender, which is why this takes []byte and not a decoded
// structure.
//
// An empty secret can never verify. Without this guard a signature HMAC'd
// with an empty key would pass, and anyone can compute that signature.
func VerifyGitHubSignature(body []byte, signatureHeader, secret string) bool {
	if secret == "" {
		return false
	}

	hexPart, ok := strings.CutPrefix(signatureHeader, "sha256=")
	if !ok || hexPart == "" {
		return false
	}

	// Rejects odd-length and non-hex input without computing a MAC.
	received, err := hex.DecodeString(hexPart)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	// hmac.Equal compares in constant time; unequal lengths return false
	// immediately, which is fine - the length is not secret, only the content.
	return hmac.Equal(received, expected)
}

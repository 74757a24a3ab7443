package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyGitHubSignatureKnownVector(t *testing.T) {
	body := []byte(`{"action":"completed","workflow_run":{"id":1234567890}}`)
	secret := "test_webhook_secret"

	// Reference digest computed independently for this secret and body.
	signature := "sha256=0b7aacde4251ec6f8e9c1582326bb09d9c60246847d0153b1420cea7433bd7fc"

	assert.True(t, VerifyGitHubSignature(body, signature, secret))
	assert.Equal(t, signature, signBody(body, secret))
}

func TestVerifyGitHubSignatureRejectsTampering(t *testing.T) {
	body := []byte(`{"action":"requested"}`)
	secret := "test_webhook_secret"
	signature := signBody(body, secret)

	assert.True(t, VerifyGitHubSignature(body, signature, secret))

	// Flipping any single byte of the payload flips the result
	tamperedBody := append([]byte(nil), body...)
	tamperedBody[0] ^= 0x01
	assert.False(t, VerifyGitHubSignature(tamperedBody, signature, secret))

	// Flipping a hex digit of the signature flips the result
	tamperedSignature := []byte(signature)
	if tamperedSignature[len(tamperedSignature)-1] == 'a' {
		tamperedSignature[len(tamperedSignature)-1] = 'b'
	} else {
		tamperedSignature[len(tamperedSignature)-1] = 'a'
	}
	assert.False(t, VerifyGitHubSignature(body, string(tamperedSignature), secret))

	// A secret mismatch always fails
	assert.False(t, VerifyGitHubSignature(body, signature, "other_secret"))
}

func TestVerifyGitHubSignatureMalformedHeaders(t *testing.T) {
	body := []byte(`{}`)
	secret := "test_webhook_secret"

	malformed := []string{
		"",
		"invalid",
		"sha256=",
		"sha1=deadbeef",
		"sha256=zzzz",                // non-hex characters
		"sha256=abc",                 // odd-length hex
		"SHA256=" + "ab",             // prefix is case-sensitive
		signBody(body, secret)[7:],   // valid hex but no prefix
		signBody(body, secret)[:20],  // truncated
	}
	for _, signature := range malformed {
		assert.False(t, VerifyGitHubSignature(body, signature, secret), "signature %q should not verify", signature)
	}
}

func TestVerifyGitHubSignatureEmptySecret(t *testing.T) {
	body := []byte(`{}`)

	// An empty key still produces a well-defined MAC that anyone can compute,
	// so verification with no secret configured must always fail - including
	// for a signature that was HMAC'd with the empty key.
	assert.False(t, VerifyGitHubSignature(body, signBody(body, ""), ""))
	assert.False(t, VerifyGitHubSignature(body, signBody(body, "real_secret"), ""))
}

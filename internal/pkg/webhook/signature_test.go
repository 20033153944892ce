package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"testing"
)

func signSHA256(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func signSHA512(payload []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureSHA256(t *testing.T) {
	payload := []byte(`{"event":"on_payment","order_id":"O-1"}`)
	secret := "topsecret"

	if !VerifySignature(payload, signSHA256(payload, secret), secret) {
		t.Fatalf("expected valid SHA256 signature to verify")
	}
}

func TestVerifySignatureSHA512Fallback(t *testing.T) {
	payload := []byte(`{"event":"on_payment","order_id":"O-1"}`)
	secret := "topsecret"

	if !VerifySignature(payload, signSHA512(payload, secret), secret) {
		t.Fatalf("expected SHA512 signature to verify via fallback")
	}
}

func TestVerifySignatureUppercaseHex(t *testing.T) {
	payload := []byte("body")
	secret := "s3cret"

	sig := signSHA256(payload, secret)
	upper := ""
	for _, r := range sig {
		if r >= 'a' && r <= 'f' {
			upper += string(r - 32)
		} else {
			upper += string(r)
		}
	}
	if !VerifySignature(payload, upper, secret) {
		t.Fatalf("expected uppercase hex signature to verify")
	}
}

func TestVerifySignatureRejects(t *testing.T) {
	payload := []byte("body")

	if VerifySignature(payload, "", "secret") {
		t.Fatalf("expected empty signature to fail")
	}
	if VerifySignature(payload, signSHA256(payload, "secret"), "") {
		t.Fatalf("expected empty secret to fail")
	}
	if VerifySignature(payload, "not-hex!!", "secret") {
		t.Fatalf("expected non-hex signature to fail")
	}
	if VerifySignature(payload, signSHA256(payload, "wrong"), "secret") {
		t.Fatalf("expected signature under wrong secret to fail")
	}
	if VerifySignature([]byte("tampered"), signSHA256(payload, "secret"), "secret") {
		t.Fatalf("expected tampered payload to fail")
	}
}

package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateJWTToken("ops", time.Hour, "s3cret")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub, err := ParseJWTToken(token, "s3cret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "ops" {
		t.Fatalf("subject: got %q", sub)
	}
}

func TestTokenRejected(t *testing.T) {
	good, _ := GenerateJWTToken("ops", time.Hour, "s3cret")
	expired, _ := GenerateJWTToken("ops", -time.Minute, "s3cret")

	cases := map[string]struct {
		token, secret string
	}{
		"wrong secret": {good, "other"},
		"expired":      {expired, "s3cret"},
		"garbage":      {"not-a-token", "s3cret"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseJWTToken(tc.token, tc.secret); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestGenerateRequiresSecret(t *testing.T) {
	if _, err := GenerateJWTToken("ops", time.Hour, ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

package auth

import "crypto/subtle"

// SecretGate authorizes high-privilege ingestion writes against a static
// shared secret, independent of end-user identity.
type SecretGate struct {
	secret string
}

// NewSecretGate creates a gate for the configured secret. An empty secret
// means ingestion is disabled: every request is denied.
func NewSecretGate(secret string) *SecretGate {
	return &SecretGate{secret: secret}
}

// Authorize checks the credential header against the configured secret.
// Denied when the secret is unset or the value does not match. The compare
// is constant-time to avoid leaking the secret through timing.
// Pure check — no side effects.
func (g *SecretGate) Authorize(header string) error {
	if g.secret == "" {
		return ErrInvalidSecret
	}
	if subtle.ConstantTimeCompare([]byte(header), []byte(g.secret)) != 1 {
		return ErrInvalidSecret
	}
	return nil
}

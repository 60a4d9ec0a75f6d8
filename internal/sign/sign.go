// Package sign computes the integrity signature required by the SaySwitch
// payment gateway: a SHA-512 hex digest over the canonicalized payload
// concatenated with the shared secret.
package sign

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoSecret is returned by NewSigner when the shared secret is empty.
// Signing without a secret would silently produce forgeable digests, so this
// is treated as a fatal configuration error by callers.
var ErrNoSecret = errors.New("signing secret is not configured")

// Signer produces gateway signatures for payment payloads.
type Signer struct {
	secret string
}

// NewSigner constructs a Signer. The secret must be non-empty.
func NewSigner(secret string) (*Signer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSecret
	}
	return &Signer{secret: secret}, nil
}

// Canonicalize serializes payload into a stable string form: keys sorted
// lexicographically, each rendered as "key=value", joined with "&". The same
// map always yields the same string, which is what makes the digest
// verifiable by the gateway.
func Canonicalize(payload map[string]string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(payload[k])
	}
	return sb.String()
}

// Sign returns the lowercase hex SHA-512 digest of the canonicalized payload
// with the shared secret appended.
func (s *Signer) Sign(payload map[string]string) string {
	sum := sha512.Sum512([]byte(Canonicalize(payload) + s.secret))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether signature matches the digest Sign would produce for
// payload. Comparison is case-insensitive on the hex encoding.
func (s *Signer) Verify(payload map[string]string, signature string) bool {
	return strings.EqualFold(s.Sign(payload), strings.TrimSpace(signature))
}

// SignBody returns the digest for a raw body (used for webhook verification,
// where the gateway signs the exact bytes it sent rather than a key-value
// canonical form).
func (s *Signer) SignBody(body []byte) string {
	sum := sha512.Sum512(append(body[:len(body):len(body)], []byte(s.secret)...))
	return hex.EncodeToString(sum[:])
}

// VerifyBody reports whether signature matches SignBody(body).
func (s *Signer) VerifyBody(body []byte, signature string) bool {
	return strings.EqualFold(s.SignBody(body), strings.TrimSpace(signature))
}

// String implements fmt.Stringer without leaking the secret.
func (s *Signer) String() string { return fmt.Sprintf("sign.Signer(len=%d)", len(s.secret)) }

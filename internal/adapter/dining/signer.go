package dining

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer produces the keyed digest the upstream expects during device
// registration: HMAC-SHA256 over the temp token verbatim, lowercase hex.
type Signer struct {
	secret []byte
}

// NewSigner builds a Signer with the platform shared secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the lowercase hex HMAC-SHA256 digest of message.
func (s *Signer) Sign(message string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// NonceIssuer issues and checks the anti-forgery token the form carries in
// its hidden transport field. Tokens are an HMAC over the shortcode and a
// time bucket, so the server stays stateless; a token stays valid for the
// current and the previous bucket.
type NonceIssuer struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// NewNonceIssuer builds an issuer. Lifetime defaults to one hour.
func NewNonceIssuer(secret []byte, lifetime time.Duration) *NonceIssuer {
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	return &NonceIssuer{
		secret:   append([]byte(nil), secret...),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// Issue returns the token for a shortcode in the current time bucket.
func (n *NonceIssuer) Issue(shortcode string) string {
	return n.sign(shortcode, n.bucket(0))
}

// Verify reports whether the token matches the shortcode in the current or
// previous bucket.
func (n *NonceIssuer) Verify(shortcode, token string) bool {
	if token == "" {
		return false
	}
	for _, offset := range []int64{0, -1} {
		expected := n.sign(shortcode, n.bucket(offset))
		if hmac.Equal([]byte(expected), []byte(token)) {
			return true
		}
	}
	return false
}

func (n *NonceIssuer) bucket(offset int64) int64 {
	return n.now().Unix()/int64(n.lifetime.Seconds()) + offset
}

func (n *NonceIssuer) sign(shortcode string, bucket int64) string {
	mac := hmac.New(sha256.New, n.secret)
	mac.Write([]byte(shortcode))
	mac.Write([]byte(":"))
	mac.Write([]byte(strconv.FormatInt(bucket, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

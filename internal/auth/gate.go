package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoSecret is returned when neither a plaintext password nor a bcrypt
// hash is configured. The process must refuse to serve in that case.
var ErrNoSecret = errors.New("auth: no shared secret configured")

// Gate decides whether a submitted password grants access. One shared secret
// for the whole household; there is no per-user identity, no attempt counter
// and no lockout. A wrong submission is simply a denial — the next correct
// one still succeeds.
type Gate struct {
	password     string
	passwordHash []byte
}

// NewGate builds a gate from the configured secret. Exactly one of password
// (plaintext) or passwordHash (bcrypt) should be set; the hash wins when both
// are present.
func NewGate(password, passwordHash string) (*Gate, error) {
	if password == "" && passwordHash == "" {
		return nil, ErrNoSecret
	}
	g := &Gate{password: password}
	if passwordHash != "" {
		// Fail fast on a malformed hash rather than denying every login.
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, errors.New("auth: LARDER_PASSWORD_HASH is not a valid bcrypt hash")
		}
		g.passwordHash = []byte(passwordHash)
	}
	return g, nil
}

// Verify reports whether the presented password matches the configured
// secret. Plaintext comparison is constant-time.
func (g *Gate) Verify(presented string) bool {
	if presented == "" {
		return false
	}
	if g.passwordHash != nil {
		return bcrypt.CompareHashAndPassword(g.passwordHash, []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(g.password), []byte(presented)) == 1
}

// Package auth tracks the shared upstream bearer credential. The engine
// never mints tokens; it holds one issued elsewhere and has to notice when
// the upstream stops accepting it.
package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the session-wide bearer token. Every channel and HTTP call
// shares it, so invalidation is a one-way, session-level switch.
type Credential struct {
	mu          sync.RWMutex
	token       string
	invalidated bool
}

func NewCredential(token string) *Credential {
	return &Credential{token: token}
}

// Token returns the bearer value, empty once invalidated.
func (c *Credential) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.invalidated {
		return ""
	}
	return c.token
}

// Invalidate marks the credential as rejected by the upstream.
func (c *Credential) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = true
}

// Invalidated reports whether the session needs to re-authenticate.
func (c *Credential) Invalidated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.invalidated
}

// ExpiresAt reads the exp claim without verifying the signature. The signing
// key lives with the upstream; this is only for proactive refresh scheduling.
// Tokens without an exp claim return nil.
func ExpiresAt(token string) (*time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parsing credential: %w", err)
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("reading credential expiry: %w", err)
	}
	if expiry == nil {
		return nil, nil
	}
	t := expiry.Time
	return &t, nil
}

// ExpiresSoon reports whether the credential expires within the window.
// Unparseable tokens count as expiring, so callers refresh conservatively.
func ExpiresSoon(token string, within time.Duration, now time.Time) bool {
	expiry, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	if expiry == nil {
		return false
	}
	return expiry.Before(now.Add(within))
}

// Package session holds client-side identity: the admin session with its
// inactivity expiry and the persistent guest customer id.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andreasstove999/cafeteria-go/internal/clients"
)

const (
	DefaultIdleTimeout = 60 * time.Second
	maxCooldown        = 30 * time.Second
)

var (
	ErrInvalidKey       = errors.New("invalid admin key")
	ErrCooldown         = errors.New("too many failed logins")
	ErrExpired          = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not logged in")
)

// Authenticator exchanges the admin key for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, key string) (clients.LoginResult, error)
}

// Admin is an explicit admin session. It is safe for concurrent use and
// satisfies clients.TokenSource.
type Admin struct {
	auth Authenticator
	idle time.Duration
	now  func() time.Time

	mu            sync.Mutex
	token         string
	tokenExpiry   time.Time
	expired       bool
	timer         *time.Timer
	gen           uint64
	failures      int
	cooldownUntil time.Time
	onExpire      []func()
}

func NewAdmin(auth Authenticator, idle time.Duration) *Admin {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Admin{auth: auth, idle: idle, now: time.Now}
}

// Login authenticates with key. A rejected key starts a local cooldown of
// min(30s, 2^failures s) during which further attempts fail fast.
func (a *Admin) Login(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidKey
	}

	a.mu.Lock()
	if wait := a.cooldownUntil.Sub(a.now()); wait > 0 {
		a.mu.Unlock()
		return fmt.Errorf("%w: retry in %s", ErrCooldown, wait.Round(time.Second))
	}
	a.mu.Unlock()

	res, err := a.auth.Login(ctx, key)
	if err != nil {
		if clients.IsStatus(err, http.StatusUnauthorized) {
			a.mu.Lock()
			a.failures++
			a.cooldownUntil = a.now().Add(cooldown(a.failures))
			a.mu.Unlock()
			return ErrInvalidKey
		}
		return fmt.Errorf("admin login: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = res.Token
	a.tokenExpiry = res.ExpiresAt
	a.expired = false
	a.failures = 0
	a.cooldownUntil = time.Time{}
	a.armLocked()
	return nil
}

func cooldown(failures int) time.Duration {
	if failures >= 5 {
		return maxCooldown
	}
	return min(maxCooldown, time.Duration(math.Pow(2, float64(failures)))*time.Second)
}

// armLocked (re)starts the idle timer. A fired timer from an older
// generation is ignored by expire.
func (a *Admin) armLocked() {
	a.gen++
	gen := a.gen
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.idle, func() { a.expire(gen) })
}

func (a *Admin) expire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.token == "" {
		a.mu.Unlock()
		return
	}
	a.clearLocked()
	a.expired = true
	callbacks := append([]func(){}, a.onExpire...)
	a.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (a *Admin) clearLocked() {
	a.token = ""
	a.tokenExpiry = time.Time{}
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Touch records activity and restarts the idle timer.
func (a *Admin) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == "" {
		return
	}
	a.armLocked()
}

// Token returns the bearer token, or "" when logged out. A token past its
// server-side expiry is dropped.
func (a *Admin) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token != "" && !a.tokenExpiry.IsZero() && !a.now().Before(a.tokenExpiry) {
		a.clearLocked()
		a.expired = true
	}
	return a.token
}

func (a *Admin) Authenticated() bool { return a.Token() != "" }

// Expired reports whether the last session ended by timing out.
func (a *Admin) Expired() bool {
	a.Token()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.expired
}

// Require returns nil while logged in, ErrExpired after a timeout and
// ErrNotAuthenticated otherwise.
func (a *Admin) Require() error {
	if a.Authenticated() {
		return nil
	}
	if a.Expired() {
		return ErrExpired
	}
	return ErrNotAuthenticated
}

func (a *Admin) OnExpire(fn func()) {
	a.mu.Lock()
	a.onExpire = append(a.onExpire, fn)
	a.mu.Unlock()
}

// Logout ends the session without running expiry callbacks.
func (a *Admin) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked()
	a.expired = false
}

// Cooldown returns the time left before another login attempt is allowed.
func (a *Admin) Cooldown() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return max(0, a.cooldownUntil.Sub(a.now()))
}

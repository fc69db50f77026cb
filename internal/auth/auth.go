// Package auth issues and verifies the admin bearer tokens.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/okian/typerank/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the lifetime of an admin token.
const DefaultTokenTTL = 24 * time.Hour

const secretBytes = 32

// Config holds the admin credentials. PasswordHash is a bcrypt hash and takes
// precedence over Password.
type Config struct {
	Secret       string
	PasswordHash string
	Password     string
	TokenTTL     time.Duration
}

// Claims are the custom claims carried by an admin token.
type Claims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin"`
}

// Authenticator checks the admin password and signs tokens.
type Authenticator struct {
	secret       []byte
	passwordHash []byte
	password     []byte
	ttl          time.Duration
	now          func() time.Time
	logger       logger.Logger
}

// Option applies a configuration option to the Authenticator.
type Option func(*Authenticator)

// WithLogger sets the logger used for startup warnings.
func WithLogger(l logger.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock overrides the time source for issued and verified tokens.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// New builds an Authenticator. An empty secret is replaced by a random one,
// so tokens do not survive a restart.
func New(ctx context.Context, cfg Config, opts ...Option) (*Authenticator, error) {
	a := &Authenticator{
		secret:       []byte(cfg.Secret),
		passwordHash: []byte(strings.TrimSpace(cfg.PasswordHash)),
		password:     []byte(cfg.Password),
		ttl:          cfg.TokenTTL,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Nop()
	}
	if a.ttl <= 0 {
		a.ttl = DefaultTokenTTL
	}

	if len(a.secret) == 0 {
		a.secret = make([]byte, secretBytes)
		if _, err := rand.Read(a.secret); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
		a.logger.Warn(ctx, "no JWT secret configured, using a random one; tokens will not survive a restart")
	}
	if len(a.passwordHash) > 0 && !isBcrypt(string(a.passwordHash)) {
		a.logger.Warn(ctx, "admin password hash is not a bcrypt hash and will be ignored")
		a.passwordHash = nil
	}
	if !a.HasPassword() {
		a.logger.Warn(ctx, "no admin password configured, every login will fail")
	}
	return a, nil
}

// HasPassword reports whether any admin credential is configured.
func (a *Authenticator) HasPassword() bool {
	return len(a.passwordHash) > 0 || len(a.password) > 0
}

// Login checks password and returns a signed admin token.
func (a *Authenticator) Login(_ context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrMissingPassword
	}
	if !a.matches(password) {
		return "", ErrInvalidPassword
	}
	return a.issue()
}

func (a *Authenticator) matches(password string) bool {
	if len(a.passwordHash) > 0 {
		if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil {
			return true
		}
	}
	if len(a.password) > 0 {
		return subtle.ConstantTimeCompare(a.password, []byte(password)) == 1
	}
	return false
}

func (a *Authenticator) issue() (string, error) {
	now := a.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Admin: true,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns its claims.
func (a *Authenticator) Verify(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrInvalidSignature):
			return Claims{}, ErrInvalidSignature
		}
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrMissingPassword
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func isBcrypt(h string) bool {
	return strings.HasPrefix(h, "$2a$") || strings.HasPrefix(h, "$2b$") || strings.HasPrefix(h, "$2y$")
}

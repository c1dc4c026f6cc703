package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
	ErrNoSecret      = errors.New("service token secret is not configured")
)

// refreshMargin is how long before expiry a cached token is replaced
const refreshMargin = 30 * time.Second

// TokenConfig defines service token settings
type TokenConfig struct {
	SecretKey   string
	TTL         time.Duration
	TokenIssuer string
	Subject     string
}

// Claims defines the service token content
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenSource mints HS256 service tokens for calls to the backend and
// reuses the current one until it is close to expiry.
type TokenSource struct {
	config TokenConfig
	now    func() time.Time

	mu      sync.Mutex
	current string
	expires time.Time
}

// NewTokenSource creates a token source. A nil source is returned when no
// secret is configured, which callers treat as "send no Authorization header".
func NewTokenSource(config TokenConfig) *TokenSource {
	if config.SecretKey == "" {
		return nil
	}
	if config.Subject == "" {
		config.Subject = "dashboard"
	}
	return &TokenSource{config: config, now: time.Now}
}

// Token returns a valid bearer token, minting a new one when needed
func (s *TokenSource) Token() (string, error) {
	if s == nil {
		return "", ErrNoSecret
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.current != "" && now.Add(refreshMargin).Before(s.expires) {
		return s.current, nil
	}

	expires := now.Add(s.config.TTL)
	claims := &Claims{
		Scope: "kaddem:read kaddem:write",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   s.config.Subject,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign service token: %w", err)
	}

	s.current = signed
	s.expires = expires
	return signed, nil
}

// ValidateToken parses and verifies a service token signed with secret
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// ExtractBearerToken extracts the token from an Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}
	return authHeader, nil
}

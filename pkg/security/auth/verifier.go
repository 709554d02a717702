package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mercator-hq/ganymede/pkg/config"
)

// ErrEmptyToken is returned when no token is presented.
var ErrEmptyToken = errors.New("token cannot be empty")

// Claims holds the verified token claims the server cares about.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// Verifier validates HS256 tokens.
type Verifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

// NewVerifier creates a verifier from admin auth configuration.
func NewVerifier(cfg config.AdminAuthConfig) (*Verifier, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("HS256 requires secret key")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return &Verifier{
		secret: []byte(cfg.SecretKey),
		issuer: cfg.Issuer,
		parser: jwt.NewParser(opts...),
	}, nil
}

// VerifyToken verifies tokenString and returns its claims.
func (v *Verifier) VerifyToken(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrEmptyToken
	}

	var registered jwt.RegisteredClaims
	token, err := v.parser.ParseWithClaims(tokenString, &registered, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if registered.Subject == "" {
		return nil, fmt.Errorf("missing or invalid 'sub' claim")
	}

	claims := &Claims{
		Subject: registered.Subject,
		Issuer:  registered.Issuer,
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}
	return claims, nil
}

// IssueToken signs an HS256 token for subject valid for ttl. It is used by
// operators to mint admin tokens and by tests.
func IssueToken(secret, issuer, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

// Identity is the authenticated caller, threaded explicitly into every
// workflow that needs it.
type Identity struct {
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// TokenService issues and verifies signed identity assertions.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service with the given signing secret and
// validity window.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token embedding the identity.
func (t *TokenService) Issue(id Identity) (string, error) {
	now := time.Now()
	c := &claims{
		Email: id.Email,
		Role:  string(id.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   id.UserID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(t.secret)
}

// Verify validates the signature and expiry of tokenString and returns the
// embedded identity. Every failure mode collapses to Unauthorized.
func (t *TokenService) Verify(tokenString string) (Identity, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.New(apperr.KindUnauthorized, "Unauthorized")
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	return Identity{UserID: c.Subject, Email: c.Email, Role: user.Role(c.Role)}, nil
}

// FromRequest extracts and verifies the bearer token on r.
func (t *TokenService) FromRequest(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, apperr.New(apperr.KindUnauthorized, "Unauthorized")
	}
	return t.Verify(strings.TrimPrefix(header, "Bearer "))
}

type contextKey struct{}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the auth middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Package auth issues and checks the bearer tokens that scope API sessions
// to a learner.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "trilogic"

// DefaultTTL is how long issued tokens stay valid.
const DefaultTTL = 8 * time.Hour

// MinSecretLen is the shortest accepted signing secret.
const MinSecretLen = 16

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the token claims. The subject is the learner id.
type Claims struct {
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens.
type Service struct {
	hmac []byte
	now  func() time.Time
}

// New creates a Service with the shared secret.
func New(secret string) *Service {
	return &Service{hmac: []byte(secret), now: time.Now}
}

// Issue returns a token for learner valid for ttl.
func (a *Service) Issue(learner string, ttl time.Duration) (string, error) {
	if learner == "" {
		return "", errors.New("learner id must not be empty")
	}
	now := a.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   learner,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

// Parse verifies tokenStr and returns its claims.
func (a *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

type learnerKey struct{}

// WithLearner returns a context carrying the learner id.
func WithLearner(ctx context.Context, learner string) context.Context {
	return context.WithValue(ctx, learnerKey{}, learner)
}

// LearnerFrom returns the learner id in ctx, or "" when the request was
// not authenticated.
func LearnerFrom(ctx context.Context) string {
	s, _ := ctx.Value(learnerKey{}).(string)
	return s
}

// Middleware rejects requests without a valid bearer token and stores the
// learner id in the request context. onError writes the rejection.
func (a *Service) Middleware(onError func(w http.ResponseWriter, status int, msg string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				onError(w, http.StatusUnauthorized, ErrMissingToken.Error())
				return
			}
			claims, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				onError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithLearner(r.Context(), claims.Subject)))
		})
	}
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123"

func TestIssueAndParse(t *testing.T) {
	a := New(secret)
	tok, err := a.Issue("alice", time.Hour)
	require.NoError(t, err)

	claims, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "trilogic", claims.Issuer)

	_, err = a.Issue("", time.Hour)
	assert.Error(t, err)
}

func TestParseRejects(t *testing.T) {
	a := New(secret)
	good, err := a.Issue("alice", time.Hour)
	require.NoError(t, err)

	expired := New(secret)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("alice", time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: "alice"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		svc   *Service
		token string
	}{
		{"wrong secret", New("another-secret-value"), good},
		{"expired", a, old},
		{"unsigned", a, unsigned},
		{"garbage", a, "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Parse(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestMiddleware(t *testing.T) {
	a := New(secret)
	var seen string
	h := a.Middleware(func(w http.ResponseWriter, status int, msg string) {
		http.Error(w, msg, status)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = LearnerFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := a.Issue("bob", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", seen)
}

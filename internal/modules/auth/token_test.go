package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", 7*24*time.Hour)

	id := Identity{UserID: "d7f1c1b2-0000-0000-0000-000000000001", Email: "jane@example.com", Role: user.RoleManager}
	token, err := tokens.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerifyExpiredToken(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Hour)

	token, err := tokens.Issue(Identity{UserID: "u1", Email: "a@b.c", Role: user.RoleStaff})
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(Identity{UserID: "u1", Email: "a@b.c", Role: user.RoleStaff})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestVerifyGarbage(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	_, err := tokens.Verify("not.a.token")
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestFromRequest(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	token, err := tokens.Issue(Identity{UserID: "u1", Email: "a@b.c", Role: user.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		wantOK bool
	}{
		{"valid bearer", "Bearer " + token, true},
		{"missing header", "", false},
		{"wrong scheme", "Basic " + token, false},
		{"bare token", token, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			_, err := tokens.FromRequest(r)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
			}
		})
	}
}

func TestRequireMiddleware(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	token, err := tokens.Issue(Identity{UserID: "u1", Email: "a@b.c", Role: user.RoleViewer})
	require.NoError(t, err)

	var captured Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := tokens.Require(next)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.c", captured.Email)

	// Without a token the request never reaches the handler.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestRequireRoles(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := tokens.Require(RequireRoles(user.RoleAdmin, user.RoleManager)(next))

	serve := func(role user.Role) *httptest.ResponseRecorder {
		token, err := tokens.Issue(Identity{UserID: "u1", Email: "a@b.c", Role: role})
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodDelete, "/", nil)
		r.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, serve(user.RoleAdmin).Code)
	assert.Equal(t, http.StatusOK, serve(user.RoleManager).Code)

	w := serve(user.RoleStaff)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubValidator struct {
	identities map[string]*utils.Identity
	err        error
	calls      int
}

func (s *stubValidator) Validate(_ context.Context, plaintext string) (*utils.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.identities[plaintext], nil
}

func identityHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := utils.GetIdentity(r.Context())
		require.True(t, ok)
		w.Header().Set("X-User", identity.User.Email)
		w.WriteHeader(http.StatusOK)
	})
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newValidator() *stubValidator {
	return &stubValidator{identities: map[string]*utils.Identity{
		"user-token":  {User: &entity.User{Base: entity.Base{ID: 1}, Email: "u@x.com", Role: entity.RoleUser}, TokenID: 10},
		"admin-token": {User: &entity.User{Base: entity.Base{ID: 2}, Email: "a@x.com", Role: entity.RoleAdmin}, TokenID: 20},
	}}
}

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic user-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer user-token", http.StatusOK},
		{"scheme is case insensitive", "bearer user-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authenticate(newValidator(), zap.NewNop())(identityHandler(t))
			rec := serve(h, tt.header)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				body := envelope(t, rec)
				assert.False(t, body.Success)
				assert.Equal(t, "Unauthenticated", body.Message)
			}
		})
	}
}

func TestAuthenticate_ValidatorFailureIs500(t *testing.T) {
	v := &stubValidator{err: errors.New("db down")}
	rec := serve(Authenticate(v, zap.NewNop())(identityHandler(t)), "Bearer whatever")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRole(t *testing.T) {
	chain := func(v TokenValidator) http.Handler {
		return Authenticate(v, zap.NewNop())(RequireRole(entity.RoleAdmin, zap.NewNop())(identityHandler(t)))
	}

	t.Run("unauthenticated before role check", func(t *testing.T) {
		rec := serve(chain(newValidator()), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		rec := serve(chain(newValidator()), "Bearer user-token")
		assert.Equal(t, http.StatusForbidden, rec.Code)

		body := envelope(t, rec)
		assert.Equal(t, "Unauthorized", body.Message)
		assert.Equal(t, "This action requires admin role. You do not have permission to perform this action.", body.Error)
	})

	t.Run("matching role passes", func(t *testing.T) {
		rec := serve(chain(newValidator()), "Bearer admin-token")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "a@x.com", rec.Header().Get("X-User"))
	})

	t.Run("without authenticate", func(t *testing.T) {
		h := RequireRole(entity.RoleAdmin, zap.NewNop())(identityHandler(t))
		rec := serve(h, "Bearer admin-token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

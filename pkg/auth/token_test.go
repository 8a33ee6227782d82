package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AarneshKhaitan/SC2002-OODP/pkg/logger"
	"github.com/AarneshKhaitan/SC2002-OODP/pkg/types"
)

func TestGenerateAndValidateToken(t *testing.T) {
	validator := NewTokenValidator("test-secret", "hms", time.Hour)

	token, err := validator.GenerateToken(&types.UserClaims{
		UserID:   "doctor-1",
		Username: "dr.house",
		Role:     types.RoleDoctor,
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "doctor-1", claims.UserID)
	assert.Equal(t, "dr.house", claims.Username)
	assert.Equal(t, types.RoleDoctor, claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewTokenValidator("secret-a", "hms", time.Hour)
	validator := NewTokenValidator("secret-b", "hms", time.Hour)

	token, err := issuer.GenerateToken(&types.UserClaims{UserID: "u1", Role: types.RolePatient})
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	validator := NewTokenValidator("test-secret", "hms", -time.Minute)

	token, err := validator.GenerateToken(&types.UserClaims{UserID: "u1", Role: types.RolePatient})
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	validator := NewTokenValidator("test-secret", "hms", time.Hour)

	_, err := validator.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	validator := NewTokenValidator("test-secret", "hms", time.Hour)
	log := logger.New("error")

	var seen *types.UserClaims
	handler := Middleware(validator, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, err := validator.GenerateToken(&types.UserClaims{UserID: "patient-1", Role: types.RolePatient})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "patient-1", seen.UserID)
}

func TestMiddleware_RejectsMissingAndMalformed(t *testing.T) {
	validator := NewTokenValidator("test-secret", "hms", time.Hour)
	log := logger.New("error")

	handler := Middleware(validator, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run for unauthenticated requests")
	}))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"invalid token", "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

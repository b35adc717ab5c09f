package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"sea-u/config"
	seau_errors "sea-u/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateRoundTrip(t *testing.T) {
	auth := NewAuthService(&config.Config{JWTSecret: "secret", JWTIssuer: "sea-u-idp"})
	id := uuid.New()

	token, err := auth.IssueAccessToken(id, time.Minute)
	require.NoError(t, err)

	got, err := auth.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAuthenticateRejects(t *testing.T) {
	auth := NewAuthService(&config.Config{JWTSecret: "secret", JWTIssuer: "sea-u-idp"})
	id := uuid.New()

	other := NewAuthService(&config.Config{JWTSecret: "other", JWTIssuer: "sea-u-idp"})
	forged, err := other.IssueAccessToken(id, time.Minute)
	require.NoError(t, err)

	expired, err := auth.IssueAccessToken(id, -time.Minute)
	require.NoError(t, err)

	wrongIssuer, err := NewAuthService(&config.Config{JWTSecret: "secret", JWTIssuer: "elsewhere"}).IssueAccessToken(id, time.Minute)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: id.String(),
		Issuer:  "sea-u-idp",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		Issuer:    "sea-u-idp",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "a.b.c",
		"forged":       forged,
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"no expiry":    noExpiry,
		"bad subject":  badSubject,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Authenticate(token)
			assert.ErrorIs(t, err, seau_errors.ErrUnauthorized)
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", seau_errors.ErrInvalidInput), http.StatusBadRequest},
		{seau_errors.ErrUnauthorized, http.StatusUnauthorized},
		{seau_errors.ErrForbidden, http.StatusForbidden},
		{seau_errors.ErrNotFound, http.StatusNotFound},
		{seau_errors.ErrAlreadyExists, http.StatusConflict},
		{seau_errors.ErrRateLimited, http.StatusTooManyRequests},
		{seau_errors.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestUserContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserContext(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}

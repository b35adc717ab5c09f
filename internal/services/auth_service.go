package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sea-u/config"
	seau_errors "sea-u/pkg/errors"
	"sea-u/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService verifies access tokens issued by the identity provider. The
// token subject is the user id that keys the profile row.
type AuthService struct {
	jwtSecret []byte
	issuer    string
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		jwtSecret: []byte(cfg.JWTSecret),
		issuer:    cfg.JWTIssuer,
	}
}

type AccessClaims struct {
	jwt.RegisteredClaims
}

func (c AccessClaims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, seau_errors.ErrUnauthorized
	}
	return id, nil
}

func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, seau_errors.ErrUnauthorized
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, opts...)
	if err != nil {
		return AccessClaims{}, seau_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, seau_errors.ErrUnauthorized
	}
	return *claims, nil
}

// Authenticate returns the user id carried by a valid token.
func (s *AuthService) Authenticate(tokenString string) (uuid.UUID, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID()
}

// IssueAccessToken signs a token the way the identity provider does. It is
// used for development seeding and tests.
func (s *AuthService) IssueAccessToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, seau_errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, seau_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, seau_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, seau_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, seau_errors.ErrAlreadyExists), errors.Is(err, seau_errors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, seau_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, seau_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"

// WithUserContext stores the authenticated user id, also exposing it to the logger.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, logger.UserIdKey, userID.String())
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

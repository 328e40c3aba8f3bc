package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"menumart/internal/caching"
	"menumart/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenRevoked = errors.New("token has been revoked")

// TokenService issues HS256 service tokens carrying the tenant and role
// claims the request pipeline resolves from, and maintains a redis-backed
// revocation denylist. Credential verification (passwords, OTP delivery)
// belongs to the identity provider, not here.
type TokenService interface {
	Issue(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, roles []string) (*models.TokenResponse, error)
	Revoke(ctx context.Context, tokenID string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenClaims represents the JWT claims carried by service tokens.
type TokenClaims struct {
	TenantID string   `json:"tenant_id,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type tokenService struct {
	cacheSvc  caching.CacheService
	jwtSecret []byte
	tokenTTL  int // Access token TTL in seconds
}

func NewTokenService(cacheSvc caching.CacheService, jwtSecret string, tokenTTLSeconds int) TokenService {
	return &tokenService{
		cacheSvc:  cacheSvc,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTLSeconds,
	}
}

func (s *tokenService) Issue(ctx context.Context, userID uuid.UUID, tenantID *uuid.UUID, roles []string) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	var tid string
	if tenantID != nil {
		tid = tenantID.String()
	}

	claims := TokenClaims{
		TenantID: tid,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "menumart-auth",
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings{"menumart-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %v", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   s.tokenTTL,
		TokenID:     tokenID,
		TenantID:    tid,
		UserID:      userID.String(),
		IssuedAt:    now,
	}, nil
}

func (s *tokenService) Revoke(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return fmt.Errorf("%w: token_id is required", models.ErrInvalidArgument)
	}
	// Denylist entries only need to outlive the longest-lived token.
	ttl := time.Duration(s.tokenTTL) * time.Second
	return s.cacheSvc.SetString(ctx, denylistKey(tokenID), "revoked", ttl)
}

func (s *tokenService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	value, err := s.cacheSvc.GetString(ctx, denylistKey(tokenID))
	if err != nil {
		return false, err
	}
	return value != "", nil
}

func denylistKey(tokenID string) string {
	return fmt.Sprintf("menumart:token-denylist:%s", tokenID)
}

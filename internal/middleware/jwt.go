package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"menumart/internal/services"
	"menumart/internal/tenancy"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const superUserRole = "superuser"

// principalClaims adapts the token claims to the tenancy resolver.
type principalClaims struct {
	services.TokenClaims
}

func (p *principalClaims) IsSuperUser() bool {
	for _, role := range p.Roles {
		if role == superUserRole {
			return true
		}
	}
	return false
}

func (p *principalClaims) TenantClaim() (string, bool) {
	if p.TenantID == "" {
		return "", false
	}
	return p.TenantID, true
}

func (p *principalClaims) SubjectClaim() (string, bool) {
	if p.Subject == "" {
		return "", false
	}
	return p.Subject, true
}

// JWTMiddleware validates bearer tokens and attaches the resolved tenant
// context to the request. Tokens are verified against the shared HS256
// secret, or against a remote JWKS when a JWKS URL is configured.
type JWTMiddleware struct {
	tokenSvc services.TokenService
	keyFunc  jwt.Keyfunc
	jwks     *keyfunc.JWKS
}

func NewJWTMiddleware(tokenSvc services.TokenService, jwtSecret string) *JWTMiddleware {
	return &JWTMiddleware{
		tokenSvc: tokenSvc,
		keyFunc: func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		},
	}
}

// NewJWTMiddlewareWithJWKS verifies tokens against keys published by an
// external identity provider. The key set refreshes itself in the
// background until ctx is cancelled.
func NewJWTMiddlewareWithJWKS(ctx context.Context, tokenSvc services.TokenService, jwksURL string) (*JWTMiddleware, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx: ctx,
		RefreshErrorHandler: func(err error) {
			log.Printf("WARN: JWKS refresh failed: %v", err)
		},
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, err
	}
	return &JWTMiddleware{
		tokenSvc: tokenSvc,
		keyFunc:  jwks.Keyfunc,
		jwks:     jwks,
	}, nil
}

func (m *JWTMiddleware) Close() {
	if m.jwks != nil {
		m.jwks.EndBackground()
	}
}

func (m *JWTMiddleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims := &principalClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			if m.tokenSvc != nil && claims.ID != "" {
				revoked, err := m.tokenSvc.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					log.Printf("WARN: token denylist lookup failed: %v", err)
				} else if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token has been revoked")
				}
			}

			tc := tenancy.Resolve(claims)
			ctx := tenancy.WithContext(c.Request().Context(), tc)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

package middleware

import (
	"net/http"
	"time"

	"cloudpanel/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// NewAuthConfig builds the JWT validation config. When a JWKS URL is set,
// tokens from the external OAuth identity provider are verified against the
// provider's published keys; otherwise the local HMAC secret is used
// (development mode).
func NewAuthConfig(jwksURL, jwtSecret string) (echojwt.Config, error) {
	cfg := echojwt.Config{
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}

			sub, _ := claims["sub"].(string)
			userID, err := uuid.Parse(sub)
			if err != nil {
				return
			}
			role, _ := claims["role"].(string)

			ctx := common.WithUser(c.Request().Context(), userID, role)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}

	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  5 * time.Minute,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return cfg, err
		}
		cfg.KeyFunc = jwks.Keyfunc
	} else {
		cfg.SigningKey = []byte(jwtSecret)
	}

	return cfg, nil
}

// RequireAdmin rejects requests from non-admin users.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetUserRoleFromContext(c.Request().Context())
			if !ok || role != "admin" {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

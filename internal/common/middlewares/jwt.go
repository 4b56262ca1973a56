package middlewares

import (
	"net/http"
	"strings"

	"github.com/c14220110/hospital-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

// ContextKeyClaims is where the validated claims are stored on the echo context.
const ContextKeyClaims = "claims"

// JWTMiddleware requires "Authorization: Bearer <token>" signed with secret.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization header missing"})
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header"})
			}
			claims, err := utils.ValidateJWTToken(secret, parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token: " + err.Error()})
			}

			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims set by JWTMiddleware, or nil when auth is disabled.
func ClaimsFrom(c echo.Context) *utils.Claims {
	claims, _ := c.Get(ContextKeyClaims).(*utils.Claims)
	return claims
}

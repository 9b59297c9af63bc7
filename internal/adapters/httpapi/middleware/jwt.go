package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"chronicle/internal/config"
	"chronicle/internal/core/apperr"
	userPort "chronicle/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenCookie is read when no Authorization header is sent.
const TokenCookie = "token"

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

var errNoToken = errors.New("no token")

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// ParseToken validates an HS256 token and returns its subject.
func ParseToken(raw string, jwtKey []byte) (string, error) {
	if raw == "" {
		return "", errNoToken
	}
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

func wantsHTML(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

func rejectUnauthenticated(c *gin.Context) {
	if wantsHTML(c) {
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
}

// JWTAuthMiddleware rejects requests without a valid token or whose subject no
// longer exists. Browsers are sent to the login page with the original path in next.
func JWTAuthMiddleware(jwtKey []byte, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ParseToken(bearerToken(c), jwtKey)
		if err != nil {
			if !errors.Is(err, errNoToken) {
				config.Logger.Debug("Rejected token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			}
			rejectUnauthenticated(c)
			return
		}

		if _, err := users.GetByID(c.Request.Context(), userID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				config.Logger.Info("Token subject no longer exists", zap.String("userID", userID))
				rejectUnauthenticated(c)
				return
			}
			config.Logger.Error("Error loading token subject", zap.String("userID", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalJWTAuthMiddleware sets the user id when a valid token is present and
// lets anonymous requests through.
func OptionalJWTAuthMiddleware(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := ParseToken(bearerToken(c), jwtKey); err == nil {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*userPort.UserDTO, error)
}

// RequireStaff must run after JWTAuthMiddleware.
func RequireStaff(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey)
		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || !u.IsStaff {
			config.Logger.Warn("⚠️ Staff route denied", zap.String("userID", userID), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff only"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/annazecevic/catalog-service/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
	ContextArtistID = "artist_id"
)

type Claims struct {
	Role     string `json:"role"`
	ArtistID int64  `json:"artist_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware accepts the identity headers set by the gateway
// (X-User-ID, X-User-Role, X-Artist-ID) and falls back to a Bearer token
// signed with jwtSecret.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			artistID, err := parseArtistID(c.GetHeader("X-Artist-ID"))
			if err != nil {
				logger.Security(logger.EventInvalidToken, "Malformed artist header", logger.Fields("ip", c.ClientIP()))
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid artist id header"})
				return
			}
			setIdentity(c, userID, c.GetHeader("X-User-Role"), artistID)
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Security(logger.EventInvalidToken, "Missing user authentication", logger.Fields("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user authentication"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			logger.Security(logger.EventInvalidToken, "Invalid authorization header format", logger.Fields("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				logger.Security(logger.EventExpiredToken, "Access attempt with expired token", logger.Fields("ip", c.ClientIP()))
			} else {
				logger.Security(logger.EventInvalidToken, "Access attempt with invalid token", logger.Fields("ip", c.ClientIP()))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user ID in token"})
			return
		}

		setIdentity(c, claims.Subject, claims.Role, claims.ArtistID)
		c.Next()
	}
}

func parseArtistID(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, errors.New("invalid artist id")
	}
	return id, nil
}

func setIdentity(c *gin.Context, userID, role string, artistID int64) {
	c.Set(ContextUserID, userID)
	c.Set(ContextUserRole, role)
	c.Set(ContextArtistID, artistID)
}

// RoleMiddleware lets the request through when the caller has any of the
// given roles.
func RoleMiddleware(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(ContextUserRole)
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		logger.Security(logger.EventAccessDenied, "Insufficient permissions", logger.Fields(
			"user_id", c.GetString(ContextUserID),
			"user_role", userRole,
			"required_roles", strings.Join(roles, ","),
			"ip", c.ClientIP(),
		))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":          "insufficient permissions",
			"required_roles": roles,
		})
	}
}

func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware("admin")
}

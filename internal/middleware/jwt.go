package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ecom_back_end/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const UserIDKey = "user_id"

var (
	errMissingToken = errors.New("Authentication required")
	errBadHeader    = errors.New("Invalid Authorization header")
	errBadToken     = errors.New("Invalid token")
)

// AuthRequired vérifie le bearer token et place user_id dans le contexte
func AuthRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticate(c, secret)
		if err != nil {
			logging.From(c).Warn("❌ Authentification refusée", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth renseigne user_id si un token valide est présent, sans jamais bloquer
func OptionalAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := authenticate(c, secret); err == nil {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// UserID vide si la requête n'est pas authentifiée
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func authenticate(c *gin.Context, secret []byte) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errBadHeader
	}

	// exp est vérifié par le parser
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", errBadToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errBadToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errBadToken
	}
	return userID, nil
}

// IssueToken signe un token HS256 portant user_id (outillage et tests ; le
// login lui-même est géré ailleurs)
func IssueToken(secret []byte, userID, email string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

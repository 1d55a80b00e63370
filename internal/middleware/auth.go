package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adamistheanswer/pokebay/internal/domain/dto"
)

// ErrInvalidToken is returned when a bearer token fails validation.
var ErrInvalidToken = errors.New("invalid token")

// JWTAuth returns a middleware that validates HS256 bearer tokens signed
// with the given secret. The token subject is stored in the gin context
// under "user_id".
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		requestID := GetRequestID(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, "Authorization token required").
				WithRequestID(requestID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, "Invalid authorization header").
				WithRequestID(requestID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
			return
		}

		claims, err := validateToken(tokenString, key)
		if err != nil {
			errorResp := dto.NewError(dto.ErrCodeUnauthorized, "Invalid or expired token").
				WithRequestID(requestID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
			return
		}

		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			c.Set("user_id", sub)
		}
		c.Next()
	}
}

func validateToken(tokenString string, key []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

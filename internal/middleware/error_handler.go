package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adamistheanswer/pokebay/internal/domain/dto"
	"github.com/adamistheanswer/pokebay/internal/logger"
)

// ErrorHandler returns a middleware that handles gin context errors.
// It provides centralized error logging and a JSON 500 for handlers that
// recorded an error without writing a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID := GetRequestID(c)

			log := logger.Logger()
			log.Error().
				Str("request_id", requestID).
				Str("error", err.Error()).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("Request error")

			if !c.Writer.Written() {
				errorResp := dto.NewError(dto.ErrCodeInternal, "An unexpected error occurred").
					WithRequestID(requestID)
				c.JSON(http.StatusInternalServerError, errorResp)
			}
		}
	}
}

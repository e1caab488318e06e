package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-contact-backend/internal/delivery/http/response"
	"portfolio-contact-backend/pkg/apperror"
	"portfolio-contact-backend/pkg/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString("RequestID")

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed",
					"status", appErr.Code,
					"error", err,
					"cause", appErr.Err,
					"path", c.FullPath(),
					"request_id", requestID,
				)
			}
			if len(appErr.Fields) > 0 {
				response.Error(c, appErr.Code, appErr.Message, appErr.Fields)
			} else {
				response.Error(c, appErr.Code, appErr.Message, nil)
			}
			return
		}

		// SECURITY: Never expose internal error details to clients.
		logger.Log.Error("Internal Server Error", "error", err, "path", c.FullPath(), "request_id", requestID)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}

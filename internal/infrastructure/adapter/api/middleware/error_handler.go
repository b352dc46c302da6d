package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
)

// ErrorHandler middleware recovers from panics and renders the apology page
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in request", map[string]any{
					"error":      err,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": RequestID(c),
					"user_agent": c.Request.UserAgent(),
				})

				if c.Writer.Written() {
					c.Abort()
					return
				}
				Apology(c, http.StatusInternalServerError, errs.PublicMessage(errs.ErrInternalServer))
				c.Abort()
			}
		}()

		c.Next()
	}
}

// StatusFor maps a domain error to the status of its apology page
func StatusFor(err error) int {
	switch {
	case errs.ErrorCode(err) == errs.CodeInvalidCredentials:
		return http.StatusForbidden
	case errs.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Fail records err on the request and renders its apology. Server side
// failures are logged with their details, which never reach the page.
func Fail(c *gin.Context, logger coreport.Logger, err error) {
	FailWithStatus(c, logger, StatusFor(err), err)
}

// FailWithStatus is Fail with an explicit status
func FailWithStatus(c *gin.Context, logger coreport.Logger, status int, err error) {
	_ = c.Error(err)

	if status >= http.StatusInternalServerError {
		fields := errs.LogFields(err)
		fields["path"] = c.Request.URL.Path
		fields["request_id"] = RequestID(c)
		if userID, ok := UserID(c); ok {
			fields["user_id"] = userID
		}
		logger.Error("Request failed", fields)
	}

	Apology(c, status, errs.PublicMessage(err))
}

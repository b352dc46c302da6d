package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/security"
)

const (
	userIDKey = "user_id"
	userKey   = "user"
)

// LoginPath is where requests without a valid session are sent
const LoginPath = "/login"

// SessionCookie describes the cookie carrying the session token
type SessionCookie struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// Set stores token in the cookie
func (s SessionCookie) Set(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, token, int(s.TTL.Seconds()), "/", "", s.Secure, true)
}

// Clear expires the cookie
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}

// Token returns the token sent by the browser, if any
func (s SessionCookie) Token(c *gin.Context) (string, bool) {
	token, err := c.Cookie(s.Name)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// UserLoader loads the account behind a session
type UserLoader interface {
	CurrentUser(ctx context.Context, userID uint64) (*entity.User, error)
}

// RequireSession lets a request through only with a valid session cookie.
// The user id and account are stored in the context for handlers and the
// layout.
func RequireSession(
	sessions security.SessionManager,
	users UserLoader,
	cookie SessionCookie,
	logger coreport.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := cookie.Token(c)
		if !ok {
			redirectToLogin(c)
			return
		}

		session, err := sessions.Verify(c.Request.Context(), token)
		if err != nil {
			if errs.IsClientError(err) {
				cookie.Clear(c)
				redirectToLogin(c)
				return
			}
			Fail(c, logger, err)
			c.Abort()
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), session.UserID)
		if err != nil {
			if errs.IsNotFoundError(err) {
				logger.Warn("Session refers to a missing user", map[string]any{
					"user_id":    session.UserID,
					"session_id": session.ID,
				})
				cookie.Clear(c)
				redirectToLogin(c)
				return
			}
			Fail(c, logger, err)
			c.Abort()
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Set(userKey, user)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireSession
func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// CurrentUser returns the authenticated account, or nil
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.User)
	return user
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

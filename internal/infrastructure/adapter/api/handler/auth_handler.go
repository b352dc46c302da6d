package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/papertrade/internal/domain/entity"
	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/security"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/view"
)

// AuthHandler handles registration, login, logout and password changes
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	sessions    security.SessionManager
	cookie      middleware.SessionCookie
	logger      coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(
	authUseCase usecase.AuthUseCase,
	sessions security.SessionManager,
	cookie middleware.SessionCookie,
	logger coreport.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		sessions:    sessions,
		cookie:      cookie,
		logger:      logger,
	}
}

// LoginForm handles GET /login. Any previous session is ended first.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.endSession(c)
	middleware.Render(c, http.StatusOK, view.Login, nil)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	h.endSession(c)

	user, err := h.authUseCase.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		// Missing fields are reported as forbidden like bad credentials
		if errors.Is(err, errs.ErrValidation) {
			middleware.FailWithStatus(c, h.logger, http.StatusForbidden, err)
			return
		}
		middleware.Fail(c, h.logger, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusFound, "/")
}

// RegisterForm handles GET /register
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	middleware.Render(c, http.StatusOK, view.Register, nil)
}

// Register handles POST /register and logs the new user in
func (h *AuthHandler) Register(c *gin.Context) {
	user, err := h.authUseCase.Register(
		c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
		c.PostForm("confirmation"),
	)
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ChangePasswordForm handles GET /change_password
func (h *AuthHandler) ChangePasswordForm(c *gin.Context) {
	middleware.Render(c, http.StatusOK, view.ChangePassword, nil)
}

// ChangePassword handles POST /change_password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	err := h.authUseCase.ChangePassword(
		c.Request.Context(),
		userID(c),
		c.PostForm("password"),
		c.PostForm("new_pass"),
		c.PostForm("confirmation"),
	)
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	// Sessions opened with the old password end here; this browser gets a new one.
	uid := userID(c)
	if err := h.sessions.RevokeUser(c.Request.Context(), uid); err != nil {
		fields := errs.LogFields(err)
		fields["user_id"] = uid
		fields["request_id"] = middleware.RequestID(c)
		h.logger.Error("Password changed but older sessions were not revoked", fields)
	}
	if !h.startSession(c, middleware.CurrentUser(c)) {
		return
	}

	middleware.AddFlash(c, "Password changed successfully!")
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user *entity.User) bool {
	token, session, err := h.sessions.Issue(c.Request.Context(), user.ID)
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return false
	}

	h.cookie.Set(c, token)
	h.logger.Info("Session started", map[string]any{
		"user_id":    user.ID,
		"session_id": session.ID,
		"expires_at": session.ExpiresAt,
	})
	return true
}

// endSession revokes the token sent by the browser and clears the cookie
func (h *AuthHandler) endSession(c *gin.Context) {
	token, ok := h.cookie.Token(c)
	if !ok {
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		fields := errs.LogFields(err)
		fields["request_id"] = middleware.RequestID(c)
		h.logger.Warn("Failed to revoke session", fields)
	}
	h.cookie.Clear(c)
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/middleware"
	"movie-catalog/internal/service"
	"movie-catalog/internal/session"
	"movie-catalog/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, logout, registration, API tokens and /me.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Store
	jwtCfg   config.JWTConfig
	cookie   string
	log      *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, sessions *session.Store, jwtCfg config.JWTConfig, cookieName string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		cookie:   cookieName,
		log:      log,
	}
}

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login validates credentials, establishes a session and sets its cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid input. Please check your username and password.")
		return
	}

	res := h.auth.AttemptLogin(c.Request.Context(), req.Username, req.Password, c.ClientIP(), time.Now())
	switch res.Status {
	case service.LoginLocked:
		c.Header("Retry-After", strconv.Itoa(res.RetryAfter))
		util.Error(c, http.StatusTooManyRequests, util.CodeLocked, res.Message)
		return
	case service.LoginInvalidInput:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, res.Message)
		return
	case service.LoginInvalidCredentials:
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, res.Message)
		return
	case service.LoginServerError:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, res.Message)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), session.Claims{
		UserID:   res.UserID,
		Username: res.Username,
		Role:     res.Role,
	})
	if err != nil {
		h.log.Error("session create failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not establish session")
		return
	}
	h.setSessionCookie(c, token, 0)

	util.Success(c, util.Response{
		"user": gin.H{
			"id":       res.UserID,
			"username": res.Username,
			"role":     res.Role,
		},
	})
}

// LoginPrompt is the target of the unauthenticated redirect.
func (h *AuthHandler) LoginPrompt(c *gin.Context) {
	util.Error(c, http.StatusUnauthorized, util.CodeAuth, "login required")
}

// Token exchanges credentials for a bearer JWT (programmatic clients).
// Failed exchanges count against the same per-address throttle as Login.
func (h *AuthHandler) Token(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid input. Please check your username and password.")
		return
	}

	res := h.auth.AttemptLogin(c.Request.Context(), req.Username, req.Password, c.ClientIP(), time.Now())
	switch res.Status {
	case service.LoginLocked:
		c.Header("Retry-After", strconv.Itoa(res.RetryAfter))
		util.Error(c, http.StatusTooManyRequests, util.CodeLocked, res.Message)
		return
	case service.LoginInvalidInput:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, res.Message)
		return
	case service.LoginInvalidCredentials:
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, res.Message)
		return
	case service.LoginServerError:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, res.Message)
		return
	}

	ttl := time.Duration(h.jwtCfg.ExpireHours) * time.Hour
	token, err := util.GenerateToken(h.jwtCfg.Secret, h.jwtCfg.Issuer, res.UserID, res.Username, res.Role, ttl)
	if err != nil {
		h.log.Error("token generation failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not issue token")
		return
	}

	util.Success(c, util.Response{"token": token})
}

// Logout destroys the server-side session and expires the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie); err == nil && token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			h.log.Warn("session destroy failed", zap.Error(err))
		}
	}
	h.setSessionCookie(c, "", -1)
	util.Success(c, util.Response{"message": "logged out"})
}

type registerReq struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Register creates a standard account and logs it straight in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "username and password are required")
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Error("register failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not create user")
		return
	}
	switch res.Status {
	case service.RegisterInvalidInput:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, res.Message)
		return
	case service.RegisterUsernameTaken:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, res.Message)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), session.Claims{
		UserID:   res.UserID,
		Username: res.Username,
		Role:     res.Role,
	})
	if err != nil {
		h.log.Error("session create failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not establish session")
		return
	}
	h.setSessionCookie(c, token, 0)

	util.Success(c, util.Response{
		"user": gin.H{
			"id":       res.UserID,
			"username": res.Username,
			"role":     res.Role,
		},
	})
}

// Me echoes the authenticated caller's claims.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "login required")
		return
	}
	util.Success(c, util.Response{
		"user": gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	// maxAge 0 keeps it a browser-session cookie; server-side idle expiry
	// is what actually bounds the session's lifetime.
	c.SetCookie(h.cookie, token, maxAge, "/", "", false, true)
}

// Package service holds the business flows behind the HTTP handlers:
// authentication with per-address throttling, and the catalog flows.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"movie-catalog/internal/models"
	"movie-catalog/internal/throttle"
	"movie-catalog/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LoginStatus tags the outcome of a login attempt.
type LoginStatus int

const (
	LoginSuccess LoginStatus = iota
	LoginInvalidInput
	LoginInvalidCredentials
	LoginLocked
	// LoginServerError means the user store failed, not that the
	// credentials were wrong.
	LoginServerError
)

// LoginResult is the tagged outcome of AttemptLogin. RetryAfter is the
// remaining lockout in whole seconds, set only for LoginLocked.
type LoginResult struct {
	Status     LoginStatus
	Message    string
	RetryAfter int

	UserID   uint
	Username string
	Role     string
}

// RegisterStatus tags the outcome of a registration attempt.
type RegisterStatus int

const (
	RegisterSuccess RegisterStatus = iota
	RegisterInvalidInput
	RegisterUsernameTaken
)

// RegisterResult is the tagged outcome of Register.
type RegisterResult struct {
	Status  RegisterStatus
	Message string

	UserID   uint
	Username string
	Role     string
}

const (
	// The same message for unknown username and wrong password, so the
	// response does not leak which field was wrong.
	msgInvalidCredentials = "Invalid username or password"
	msgInvalidInput       = "Invalid input. Please check your username and password."
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

// AuthService validates credentials and enforces the per-address login
// throttle. The limiter is injected; AuthService holds no global state.
type AuthService struct {
	db         *gorm.DB
	limiter    *throttle.Limiter
	bcryptCost int
	log        *zap.Logger
}

func NewAuthService(db *gorm.DB, limiter *throttle.Limiter, bcryptCost int, log *zap.Logger) *AuthService {
	return &AuthService{
		db:         db,
		limiter:    limiter,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// AttemptLogin runs the full login flow for one request:
//
//  1. If clientAddr is locked out, fail without consulting the user store.
//  2. Reject blank (after trimming) username or password without touching
//     throttle state.
//  3. On unknown user or wrong password, count the failure; the threshold
//     sets a lockout. Every failure is counted even though the caller only
//     sees a generic message.
//  4. On success, clear throttle state and return the user's claims.
func (s *AuthService) AttemptLogin(ctx context.Context, username, password, clientAddr string, now time.Time) LoginResult {
	if remaining, locked := s.limiter.Check(clientAddr, now); locked {
		s.log.Warn("login rejected, address locked out",
			zap.String("addr", clientAddr),
			zap.Duration("remaining", remaining))
		return lockedResult(remaining)
	}

	// Presence is checked on trimmed values; the password itself is
	// compared as submitted.
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return LoginResult{Status: LoginInvalidInput, Message: msgInvalidInput}
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.log.Warn("login failed, unknown username",
			zap.String("username", username), zap.String("addr", clientAddr))
		return s.recordFailure(clientAddr, now)
	case err != nil:
		s.log.Error("user lookup failed", zap.Error(err))
		return LoginResult{Status: LoginServerError, Message: "could not process login"}
	}

	if !util.CheckPassword(user.PasswordHash, password) {
		s.log.Warn("login failed, wrong password",
			zap.String("username", username), zap.String("addr", clientAddr))
		return s.recordFailure(clientAddr, now)
	}

	s.limiter.Reset(clientAddr)
	s.log.Info("login succeeded",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
		zap.String("addr", clientAddr))
	return LoginResult{
		Status:   LoginSuccess,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

func (s *AuthService) recordFailure(clientAddr string, now time.Time) LoginResult {
	if remaining, locked := s.limiter.RecordFailure(clientAddr, now); locked {
		return lockedResult(remaining)
	}
	return LoginResult{Status: LoginInvalidCredentials, Message: msgInvalidCredentials}
}

func lockedResult(remaining time.Duration) LoginResult {
	secs := int(remaining.Seconds())
	return LoginResult{
		Status:     LoginLocked,
		RetryAfter: secs,
		Message:    fmt.Sprintf("Too many failed login attempts. Please try again after %d seconds.", secs),
	}
}

// Register creates a standard-role account: username 3-50 word characters,
// password at least 6 characters, username unique.
func (s *AuthService) Register(ctx context.Context, username, password string) (RegisterResult, error) {
	username = strings.TrimSpace(username)
	if !usernameRe.MatchString(username) {
		return RegisterResult{
			Status:  RegisterInvalidInput,
			Message: "Username must be 3-50 letters, digits or underscores",
		}, nil
	}
	if len(password) < 6 {
		return RegisterResult{
			Status:  RegisterInvalidInput,
			Message: "Password must be at least 6 characters",
		}, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return RegisterResult{}, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return RegisterResult{Status: RegisterUsernameTaken, Message: "Username already exists"}, nil
	}

	hash, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleStandard,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return RegisterResult{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user registered", zap.String("username", user.Username))
	return RegisterResult{
		Status:   RegisterSuccess,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

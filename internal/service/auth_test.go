package service

import (
	"context"
	"testing"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"
	"movie-catalog/internal/throttle"
	"movie-catalog/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Movie{}, &models.Session{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, password, role string) models.User {
	t.Helper()
	hash, err := util.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	limiter := throttle.New(config.ThrottleConfig{
		Enabled:        true,
		MaxFailures:    5,
		LockoutSeconds: 60,
	})
	return NewAuthService(db, limiter, bcrypt.MinCost, zap.NewNop())
}

func TestAttemptLogin_Success(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)

	res := svc.AttemptLogin(context.Background(), "admin", "password", "10.0.0.1", time.Now())
	require.Equal(t, LoginSuccess, res.Status)
	assert.Equal(t, user.ID, res.UserID)
	assert.Equal(t, "admin", res.Username)
	assert.Equal(t, models.RoleAdmin, res.Role)
}

func TestAttemptLogin_TrimsUsername(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)

	res := svc.AttemptLogin(context.Background(), "  admin  ", "password", "10.0.0.1", time.Now())
	assert.Equal(t, LoginSuccess, res.Status)
}

func TestAttemptLogin_GenericFailureMessage(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)
	ctx := context.Background()

	unknownUser := svc.AttemptLogin(ctx, "nobody", "password", "10.0.0.1", time.Now())
	wrongPassword := svc.AttemptLogin(ctx, "admin", "nope", "10.0.0.2", time.Now())

	require.Equal(t, LoginInvalidCredentials, unknownUser.Status)
	require.Equal(t, LoginInvalidCredentials, wrongPassword.Status)
	// Unknown user and wrong password must be indistinguishable to the caller.
	assert.Equal(t, unknownUser.Message, wrongPassword.Message)
}

func TestAttemptLogin_InvalidInput(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)
	ctx := context.Background()

	for _, tc := range []struct{ username, password string }{
		{"", "password"},
		{"admin", ""},
		{"   ", "password"},
		{"admin", "   "},
	} {
		res := svc.AttemptLogin(ctx, tc.username, tc.password, "10.0.0.1", time.Now())
		assert.Equal(t, LoginInvalidInput, res.Status, "username=%q password=%q", tc.username, tc.password)
	}

	// Invalid input never counts against the throttle.
	res := svc.AttemptLogin(ctx, "admin", "password", "10.0.0.1", time.Now())
	assert.Equal(t, LoginSuccess, res.Status)
}

func TestAttemptLogin_LockoutWinsOverValidCredentials(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 4; i++ {
		res := svc.AttemptLogin(ctx, "admin", "wrong", "10.0.0.1", now)
		require.Equal(t, LoginInvalidCredentials, res.Status)
	}
	res := svc.AttemptLogin(ctx, "admin", "wrong", "10.0.0.1", now)
	require.Equal(t, LoginLocked, res.Status, "5th failure must report the lockout")

	// The 6th attempt inside the window is rejected even with valid
	// credentials.
	res = svc.AttemptLogin(ctx, "admin", "password", "10.0.0.1", now.Add(10*time.Second))
	require.Equal(t, LoginLocked, res.Status)
	assert.Equal(t, 50, res.RetryAfter)
}

func TestAttemptLogin_LockedDoesNotConsultStore(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		svc.AttemptLogin(ctx, "admin", "wrong", "10.0.0.1", now)
	}

	// With the user table gone, any store access would error; a locked
	// attempt must not get that far.
	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	res := svc.AttemptLogin(ctx, "admin", "password", "10.0.0.1", now)
	assert.Equal(t, LoginLocked, res.Status)
}

func TestAttemptLogin_StoreErrorIsNotAuthFailure(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)

	require.NoError(t, db.Migrator().DropTable(&models.User{}))

	res := svc.AttemptLogin(context.Background(), "admin", "password", "10.0.0.1", time.Now())
	require.Equal(t, LoginServerError, res.Status)
	assert.NotEqual(t, msgInvalidCredentials, res.Message,
		"a broken store must not masquerade as bad credentials")
}

func TestAttemptLogin_SuccessResetsThrottle(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 4; i++ {
		svc.AttemptLogin(ctx, "admin", "wrong", "10.0.0.1", now)
	}
	res := svc.AttemptLogin(ctx, "admin", "password", "10.0.0.1", now)
	require.Equal(t, LoginSuccess, res.Status)

	// The counter restarts: four more failures do not lock.
	for i := 0; i < 4; i++ {
		res = svc.AttemptLogin(ctx, "admin", "wrong", "10.0.0.1", now)
		require.Equal(t, LoginInvalidCredentials, res.Status, "failure %d after reset", i+1)
	}
	res = svc.AttemptLogin(ctx, "admin", "wrong", "10.0.0.1", now)
	assert.Equal(t, LoginLocked, res.Status)
}

func TestAttemptLogin_ThrottleIsolation(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 5; i++ {
		svc.AttemptLogin(ctx, "admin", "wrong", "10.0.0.1", now)
	}

	res := svc.AttemptLogin(ctx, "admin", "password", "10.0.0.2", now)
	assert.Equal(t, LoginSuccess, res.Status, "lockout of one address must not affect another")
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	res, err := svc.Register(ctx, "newuser", "secret1")
	require.NoError(t, err)
	require.Equal(t, RegisterSuccess, res.Status)
	assert.Equal(t, models.RoleStandard, res.Role)

	// The stored password is a verifiable hash, never plaintext.
	var user models.User
	require.NoError(t, db.First(&user, "username = ?", "newuser").Error)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, util.CheckPassword(user.PasswordHash, "secret1"))

	login := svc.AttemptLogin(ctx, "newuser", "secret1", "10.0.0.1", time.Now())
	assert.Equal(t, LoginSuccess, login.Status)
}

func TestRegister_Validation(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "admin", "password", models.RoleAdmin)
	svc := newAuthService(t, db)
	ctx := context.Background()

	res, err := svc.Register(ctx, "ab", "secret1")
	require.NoError(t, err)
	assert.Equal(t, RegisterInvalidInput, res.Status)

	res, err = svc.Register(ctx, "newuser", "short")
	require.NoError(t, err)
	assert.Equal(t, RegisterInvalidInput, res.Status)

	res, err = svc.Register(ctx, "admin", "secret1")
	require.NoError(t, err)
	assert.Equal(t, RegisterUsernameTaken, res.Status)
}

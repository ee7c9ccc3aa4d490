package seed

import (
	"testing"

	"movie-catalog/internal/models"
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

func counts(t *testing.T, db *gorm.DB) (users, movies int64) {
	t.Helper()
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Movie{}).Count(&movies).Error)
	return users, movies
}

func TestRunPopulatesEmptyStores(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Run(db, bcrypt.MinCost, zap.NewNop()))

	users, movies := counts(t, db)
	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, len(Movies), movies)

	var admin models.User
	require.NoError(t, db.First(&admin, "username = ?", "admin").Error)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, util.CheckPassword(admin.PasswordHash, "password"),
		"seed passwords are stored hashed, not plaintext")
}

func TestRunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Run(db, bcrypt.MinCost, zap.NewNop()))
	usersBefore, moviesBefore := counts(t, db)

	require.NoError(t, Run(db, bcrypt.MinCost, zap.NewNop()))
	usersAfter, moviesAfter := counts(t, db)

	assert.Equal(t, usersBefore, usersAfter)
	assert.Equal(t, moviesBefore, moviesAfter)
}

func TestRunSkipsPopulatedStores(t *testing.T) {
	db := newTestDB(t)

	hash, err := util.HashPassword("existing", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{
		Username:     "existing",
		PasswordHash: hash,
		Role:         models.RoleStandard,
	}).Error)

	require.NoError(t, Run(db, bcrypt.MinCost, zap.NewNop()))

	users, movies := counts(t, db)
	assert.EqualValues(t, 1, users, "a populated user store is left alone")
	assert.EqualValues(t, len(Movies), movies, "the empty movie store is still seeded")
}

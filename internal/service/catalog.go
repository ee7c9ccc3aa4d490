package service

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MovieFilters narrows a catalog listing. Empty fields mean "no filter".
type MovieFilters struct {
	Title string // case-insensitive substring match
	Genre string // exact match
}

// Outcome tags the result of a guarded single-row mutation.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeInvalidID
	OutcomeNotFound
	// OutcomeConflict means the row's concurrency token moved (or the row
	// vanished) between our read and write.
	OutcomeConflict
)

// CatalogService implements the movie listing and mutation flows.
type CatalogService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCatalogService(db *gorm.DB, log *zap.Logger) *CatalogService {
	return &CatalogService{db: db, log: log}
}

// ListMovies returns the filtered catalog in insertion order, plus the
// distinct genre set (ascending) for the filter control. Title matching is
// a substring match; SQLite's LIKE is case-insensitive for ASCII, which is
// the documented behavior here.
func (s *CatalogService) ListMovies(ctx context.Context, f MovieFilters) ([]models.Movie, []string, error) {
	var genres []string
	if err := s.db.WithContext(ctx).Model(&models.Movie{}).
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &genres).Error; err != nil {
		return nil, nil, fmt.Errorf("list genres: %w", err)
	}

	q := s.db.WithContext(ctx).Model(&models.Movie{})
	if f.Title != "" {
		q = q.Where("title LIKE ?", "%"+f.Title+"%")
	}
	if f.Genre != "" {
		q = q.Where("genre = ?", f.Genre)
	}

	var movies []models.Movie
	if err := q.Order("id ASC").Find(&movies).Error; err != nil {
		return nil, nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, genres, nil
}

// GetMovie fetches one row. Absent ids yield (nil, nil).
func (s *CatalogService) GetMovie(ctx context.Context, id uint) (*models.Movie, error) {
	var movie models.Movie
	err := s.db.WithContext(ctx).First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return &movie, nil
}

// DeleteMovie removes one row under optimistic concurrency: the delete
// carries the version we read, and a zero-row result means another actor
// got there first.
func (s *CatalogService) DeleteMovie(ctx context.Context, id *uint) (Outcome, error) {
	if id == nil {
		return OutcomeInvalidID, nil
	}

	var movie models.Movie
	err := s.db.WithContext(ctx).First(&movie, *id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load movie %d: %w", *id, err)
	}

	res := s.db.WithContext(ctx).
		Where("id = ? AND version = ?", movie.ID, movie.Version).
		Delete(&models.Movie{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete movie %d: %w", *id, res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Info("delete lost concurrency race", zap.Uint("id", movie.ID))
		return OutcomeConflict, nil
	}
	return OutcomeDone, nil
}

// FavoriteMovie assigns the movie to userID under the same version-checked
// discipline as DeleteMovie, bumping the concurrency token.
func (s *CatalogService) FavoriteMovie(ctx context.Context, id *uint, userID uint) (Outcome, error) {
	if id == nil {
		return OutcomeInvalidID, nil
	}

	var movie models.Movie
	err := s.db.WithContext(ctx).First(&movie, *id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OutcomeNotFound, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load movie %d: %w", *id, err)
	}

	res := s.db.WithContext(ctx).Model(&models.Movie{}).
		Where("id = ? AND version = ?", movie.ID, movie.Version).
		Updates(map[string]interface{}{
			"user_id": userID,
			"version": movie.Version + 1,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("favorite movie %d: %w", *id, res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Info("favorite lost concurrency race", zap.Uint("id", movie.ID))
		return OutcomeConflict, nil
	}
	return OutcomeDone, nil
}

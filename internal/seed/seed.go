// Package seed populates empty stores with fixture rows at startup.
package seed

import (
	"fmt"
	"time"

	"movie-catalog/internal/models"
	"movie-catalog/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type movieFixture struct {
	title       string
	releaseDate string // YYYY-MM-DD
	genre       string
	priceCent   int64
	rating      string
}

// Movies is the fixture catalog inserted into an empty movie store.
// The trailing space in "Ghostbusters " is part of the fixture.
var Movies = []movieFixture{
	{"When Harry Met Sally", "1989-02-12", "Romantic Comedy", 799, "R"},
	{"Ghostbusters ", "1984-03-13", "Comedy", 899, "G"},
	{"Ghostbusters 2", "1986-02-23", "Comedy", 999, "G"},
	{"Rio Bravo", "1959-04-15", "Western", 399, "NA"},
	{"Inception", "2010-07-16", "Sci-Fi", 999, "PG-13"},
	{"Interstellar", "2014-11-07", "Sci-Fi", 1099, "PG-13"},
	{"The Dark Knight", "2008-07-18", "Action", 999, "PG-13"},
	{"The Matrix", "1999-03-31", "Action", 899, "R"},
	{"Pulp Fiction", "1994-10-14", "Crime", 799, "R"},
	{"The Shawshank Redemption", "1994-09-23", "Drama", 899, "R"},
	{"Forrest Gump", "1994-07-06", "Drama", 799, "PG-13"},
	{"The Godfather", "1972-03-24", "Crime", 999, "R"},
	{"The Lord of the Rings: The Fellowship of the Ring", "2001-12-19", "Fantasy", 1099, "PG-13"},
	{"Star Wars: Episode IV - A New Hope", "1977-05-25", "Sci-Fi", 899, "PG"},
	{"Gladiator", "2000-05-05", "Action", 999, "R"},
	{"The Prestige", "2006-10-20", "Drama", 899, "PG-13"},
	{"The Departed", "2006-10-06", "Crime", 1099, "R"},
	{"Whiplash", "2014-10-10", "Drama", 999, "R"},
	{"Mad Max: Fury Road", "2015-05-15", "Action", 1199, "R"},
	{"The Social Network", "2010-10-01", "Drama", 899, "PG-13"},
	{"Parasite", "2019-05-30", "Thriller", 1299, "R"},
	{"Coco", "2017-11-22", "Animation", 799, "PG"},
	{"The Grand Budapest Hotel", "2014-03-28", "Comedy", 999, "R"},
	{"The Truman Show", "1998-06-05", "Drama", 899, "PG"},
	{"The Green Mile", "1999-12-10", "Drama", 999, "R"},
	{"The Big Lebowski", "1998-03-06", "Comedy", 799, "R"},
	{"Braveheart", "1995-05-24", "Drama", 999, "R"},
	{"Toy Story", "1995-11-22", "Animation", 699, "G"},
	{"Schindler's List", "1993-12-15", "Drama", 1099, "R"},
	{"Goodfellas", "1990-09-19", "Crime", 999, "R"},
	{"The Wolf of Wall Street", "2013-12-25", "Biography", 1199, "R"},
	{"The Incredibles", "2004-11-05", "Animation", 899, "PG"},
	{"Finding Nemo", "2003-05-30", "Animation", 799, "G"},
}

type userFixture struct {
	username string
	password string
	role     string
}

var users = []userFixture{
	{"admin", "password", models.RoleAdmin},
	{"demo", "demo123", models.RoleStandard},
}

// Run seeds the user and movie stores if they are empty. Re-running against
// populated stores is a no-op (existence check, not an upsert).
func Run(db *gorm.DB, bcryptCost int, log *zap.Logger) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount == 0 {
		for _, u := range users {
			hash, err := util.HashPassword(u.password, bcryptCost)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			user := models.User{
				Username:     u.username,
				PasswordHash: hash,
				Role:         u.role,
			}
			if err := db.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.username, err)
			}
		}
		log.Info("seeded users", zap.Int("count", len(users)))
	}

	var movieCount int64
	if err := db.Model(&models.Movie{}).Count(&movieCount).Error; err != nil {
		return fmt.Errorf("count movies: %w", err)
	}
	if movieCount == 0 {
		for _, m := range Movies {
			releaseDate, err := time.Parse(time.DateOnly, m.releaseDate)
			if err != nil {
				return fmt.Errorf("parse release date for %q: %w", m.title, err)
			}
			movie := models.Movie{
				Title:       m.title,
				ReleaseDate: releaseDate,
				Genre:       m.genre,
				PriceCent:   m.priceCent,
				Rating:      m.rating,
			}
			if err := db.Create(&movie).Error; err != nil {
				return fmt.Errorf("seed movie %q: %w", m.title, err)
			}
		}
		log.Info("seeded movies", zap.Int("count", len(Movies)))
	}

	return nil
}

package handler

import (
	"net/http"
	"strconv"
	"time"

	"movie-catalog/internal/middleware"
	"movie-catalog/internal/models"
	"movie-catalog/internal/service"
	"movie-catalog/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MovieHandler serves the catalog routes.
type MovieHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

func NewMovieHandler(catalog *service.CatalogService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{catalog: catalog, log: log}
}

type movieResp struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Genre       string `json:"genre"`
	PriceCent   int64  `json:"price_cent"`
	Price       string `json:"price"` // two-decimal string for display
	Rating      string `json:"rating"`
	UserID      *uint  `json:"user_id"`
	Version     uint   `json:"version"`
}

// formatCentPrice renders cents as a two-decimal currency string.
func formatCentPrice(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', 2, 64)
}

func toMovieResp(m *models.Movie) movieResp {
	return movieResp{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseDate: m.ReleaseDate.Format(time.DateOnly),
		Genre:       m.Genre,
		PriceCent:   m.PriceCent,
		Price:       formatCentPrice(m.PriceCent),
		Rating:      m.Rating,
		UserID:      m.UserID,
		Version:     m.Version,
	}
}

// List returns the filtered catalog, the distinct genre set, and the
// caller's role (for admin-only affordances client-side). Query parameters:
// title (substring), genre (exact).
func (h *MovieHandler) List(c *gin.Context) {
	filters := service.MovieFilters{
		Title: c.Query("title"),
		Genre: c.Query("genre"),
	}

	movies, genres, err := h.catalog.ListMovies(c.Request.Context(), filters)
	if err != nil {
		h.log.Error("list movies failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not list movies")
		return
	}

	items := make([]movieResp, 0, len(movies))
	for i := range movies {
		items = append(items, toMovieResp(&movies[i]))
	}

	role := ""
	if claims := middleware.CurrentClaims(c); claims != nil {
		role = claims.Role
	}

	util.Success(c, util.Response{
		"movies": items,
		"genres": genres,
		"role":   role,
	})
}

// Get returns one movie (the data a delete-confirmation view shows).
func (h *MovieHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid movie ID.")
		return
	}

	movie, err := h.catalog.GetMovie(c.Request.Context(), id)
	if err != nil {
		h.log.Error("get movie failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not load movie")
		return
	}
	if movie == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "The movie does not exist.")
		return
	}

	util.Success(c, util.Response{"movie": toMovieResp(movie)})
}

// Delete removes one movie under optimistic concurrency.
func (h *MovieHandler) Delete(c *gin.Context) {
	var idPtr *uint
	if id, ok := parseID(c); ok {
		idPtr = &id
	}

	outcome, err := h.catalog.DeleteMovie(c.Request.Context(), idPtr)
	if err != nil {
		h.log.Error("delete movie failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not delete movie")
		return
	}

	switch outcome {
	case service.OutcomeInvalidID:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid movie ID.")
	case service.OutcomeNotFound:
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "The movie you are trying to delete has already been deleted.")
	case service.OutcomeConflict:
		util.Error(c, http.StatusConflict, util.CodeConflict, "The movie you are trying to delete has already been deleted by another user.")
	default:
		util.Success(c, util.Response{"message": "Movie deleted successfully."})
	}
}

// Favorite claims a movie for the current user.
func (h *MovieHandler) Favorite(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "login required")
		return
	}

	var idPtr *uint
	if id, ok := parseID(c); ok {
		idPtr = &id
	}

	outcome, err := h.catalog.FavoriteMovie(c.Request.Context(), idPtr, claims.UserID)
	if err != nil {
		h.log.Error("favorite movie failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not update movie")
		return
	}

	switch outcome {
	case service.OutcomeInvalidID:
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid movie ID.")
	case service.OutcomeNotFound:
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "The movie does not exist.")
	case service.OutcomeConflict:
		util.Error(c, http.StatusConflict, util.CodeConflict, "The movie was modified by another user.")
	default:
		util.Success(c, util.Response{"message": "Movie added to favorites."})
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"movie-catalog/internal/service"
	"movie-catalog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportHandler streams the (optionally filtered) catalog as CSV or XLSX.
// The same title/genre query parameters as the list route apply.
type ExportHandler struct {
	catalog *service.CatalogService
	log     *zap.Logger
}

func NewExportHandler(catalog *service.CatalogService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{catalog: catalog, log: log}
}

var exportHeader = []string{"Title", "Release Date", "Genre", "Price", "Rating"}

// CSV exports the catalog as a CSV attachment.
func (h *ExportHandler) CSV(c *gin.Context) {
	movies, _, err := h.catalog.ListMovies(c.Request.Context(), service.MovieFilters{
		Title: c.Query("title"),
		Genre: c.Query("genre"),
	})
	if err != nil {
		h.log.Error("export csv failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not export movies")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"movies_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeader)
	for i := range movies {
		m := &movies[i]
		_ = writer.Write([]string{
			m.Title,
			m.ReleaseDate.Format(time.DateOnly),
			m.Genre,
			formatCentPrice(m.PriceCent),
			m.Rating,
		})
	}
}

// XLSX exports the catalog as an Excel workbook.
func (h *ExportHandler) XLSX(c *gin.Context) {
	movies, _, err := h.catalog.ListMovies(c.Request.Context(), service.MovieFilters{
		Title: c.Query("title"),
		Genre: c.Query("genre"),
	})
	if err != nil {
		h.log.Error("export xlsx failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not export movies")
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Movies"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		h.log.Error("export xlsx failed", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "could not export movies")
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}
	for row := range movies {
		m := &movies[row]
		values := []interface{}{
			m.Title,
			m.ReleaseDate.Format(time.DateOnly),
			m.Genre,
			formatCentPrice(m.PriceCent),
			m.Rating,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"movies_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.log.Error("write xlsx failed", zap.Error(err))
	}
}

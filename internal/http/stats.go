package http

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"booklibrary/internal/auth"
	"booklibrary/internal/database/stats"
	"booklibrary/internal/validation"
)

// StatsController serves the statistics pages.
type StatsController struct {
	stats  *stats.Repository
	limits validation.Limits
	topN   int
}

func NewStatsController(statsRepo *stats.Repository, limits validation.Limits, topN int) *StatsController {
	return &StatsController{stats: statsRepo, limits: limits, topN: topN}
}

// Page renders the statistics landing page.
func (ctl *StatsController) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "statistic", gin.H{
		"Username": auth.GetUsername(c),
	})
}

type yearWindowForm struct {
	Start string
	End   string
	Error string
}

// parseYearWindow reads the optional start/end parameters. Blank means
// unbounded on that side; anything unparsable or out of range comes
// back as a form error for re-rendering.
func (ctl *StatsController) parseYearWindow(c *gin.Context) (validation.YearWindow, yearWindowForm, bool) {
	form := yearWindowForm{
		Start: strings.TrimSpace(c.Query("start_year")),
		End:   strings.TrimSpace(c.Query("end_year")),
	}

	var start, end *int
	if form.Start != "" {
		n, err := strconv.Atoi(form.Start)
		if err != nil {
			form.Error = "start year: enter a valid year"
			return validation.YearWindow{}, form, false
		}
		start = &n
	}
	if form.End != "" {
		n, err := strconv.Atoi(form.End)
		if err != nil {
			form.Error = "end year: enter a valid year"
			return validation.YearWindow{}, form, false
		}
		end = &n
	}

	window, err := ctl.limits.NewYearWindow(start, end)
	if err != nil {
		form.Error = err.Error()
		return validation.YearWindow{}, form, false
	}
	return window, form, true
}

// GenresPage renders the genre distribution over an optional year
// window. Invalid window input re-renders the form with the error and
// no chart.
func (ctl *StatsController) GenresPage(c *gin.Context) {
	ctl.renderGenres(c, "genres_statistic")
}

// GenresChartPartial renders just the chart fragment.
func (ctl *StatsController) GenresChartPartial(c *gin.Context) {
	ctl.renderGenres(c, "fig_genres_statistic")
}

func (ctl *StatsController) renderGenres(c *gin.Context, template string) {
	window, form, ok := ctl.parseYearWindow(c)
	if !ok {
		c.HTML(http.StatusOK, template, gin.H{
			"Form":     form,
			"Username": auth.GetUsername(c),
		})
		return
	}

	distribution, err := ctl.stats.GenreDistribution(window)
	if err != nil {
		log.Printf("ERROR: computing genre distribution: %v", err)
		c.String(http.StatusInternalServerError, "Failed to compute the statistics")
		return
	}

	c.HTML(http.StatusOK, template, gin.H{
		"Distribution": distribution,
		"Form":         form,
		"Window":       window,
		"Username":     auth.GetUsername(c),
	})
}

// AuthorsPage renders the books-per-author distribution.
func (ctl *StatsController) AuthorsPage(c *gin.Context) {
	distribution, err := ctl.stats.AuthorDistribution()
	if err != nil {
		log.Printf("ERROR: computing author distribution: %v", err)
		c.String(http.StatusInternalServerError, "Failed to compute the statistics")
		return
	}

	c.HTML(http.StatusOK, "authors_statistic", gin.H{
		"Distribution": distribution,
		"Username":     auth.GetUsername(c),
	})
}

// BooksReadPage renders the viewer's personal reading summary.
func (ctl *StatsController) BooksReadPage(c *gin.Context) {
	summary, err := ctl.stats.UserReadingSummary(auth.GetUserID(c))
	if err != nil {
		log.Printf("ERROR: computing reading summary: %v", err)
		c.String(http.StatusInternalServerError, "Failed to compute the statistics")
		return
	}

	c.HTML(http.StatusOK, "books_read_statistic", gin.H{
		"Summary":  summary,
		"Username": auth.GetUsername(c),
	})
}

// GeneralPage renders the global dashboard: totals, average publication
// year and the top rankings.
func (ctl *StatsController) GeneralPage(c *gin.Context) {
	summary, err := ctl.stats.General(ctl.topN)
	if err != nil {
		log.Printf("ERROR: computing general statistics: %v", err)
		c.String(http.StatusInternalServerError, "Failed to compute the statistics")
		return
	}

	c.HTML(http.StatusOK, "general_statistics", gin.H{
		"Summary":  summary,
		"Username": auth.GetUsername(c),
	})
}

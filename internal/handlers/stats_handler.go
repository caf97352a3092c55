package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pageturn/forum-backend/internal/repositories"
	"github.com/pageturn/forum-backend/internal/stats"
)

// StatsHandler serves the public site overview, combining live row counts
// with the file-backed view counters.
type StatsHandler struct {
	stats repositories.StatsRepository
	views *stats.Store
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsRepo repositories.StatsRepository, views *stats.Store) *StatsHandler {
	return &StatsHandler{stats: statsRepo, views: views}
}

// RegisterStatsRoutes registers the public stats endpoint
func (h *StatsHandler) RegisterStatsRoutes(g *echo.Group) {
	g.GET("/stats", h.SiteOverview)
}

// SiteOverview returns site-wide counts plus the accumulated view counters
func (h *StatsHandler) SiteOverview(c echo.Context) error {
	counts, err := h.stats.SiteCounts()
	if err != nil {
		return mapStoreError(err)
	}
	views := h.views.Get()
	return c.JSON(http.StatusOK, echo.Map{
		"users":          counts.Users,
		"posts":          counts.Posts,
		"comments":       counts.Comments,
		"homeViews":      views.HomeViews,
		"totalPostViews": views.TotalPostViews,
	})
}

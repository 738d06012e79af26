package dashboard

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/autosam-rentals/backend/pkg/response"
)

// Handler serves the aggregated admin dashboard.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// Overview handles GET /api/admin/dashboard. It assembles every dashboard
// block in one response so the admin UI needs a single round trip.
func (h *Handler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	bookings, err := h.repo.BookingCounts(ctx)
	if err != nil {
		h.logger.Error("dashboard booking counts", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	revenue, err := h.repo.Revenue(ctx)
	if err != nil {
		h.logger.Error("dashboard revenue", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	cars, err := h.repo.CarCounts(ctx)
	if err != nil {
		h.logger.Error("dashboard car counts", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	daily, err := h.repo.DailySeries(ctx, 30)
	if err != nil {
		h.logger.Error("dashboard daily series", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	monthly, err := h.repo.MonthlySeries(ctx, 12)
	if err != nil {
		h.logger.Error("dashboard monthly series", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	topCars, err := h.repo.TopCars(ctx, 5)
	if err != nil {
		h.logger.Error("dashboard top cars", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	pickups, err := h.repo.TopLocations(ctx, "pickup_location", 5)
	if err != nil {
		h.logger.Error("dashboard pickup locations", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	dropoffs, err := h.repo.TopLocations(ctx, "dropoff_location", 5)
	if err != nil {
		h.logger.Error("dashboard dropoff locations", zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}

	response.OK(c, gin.H{
		"bookings":          bookings,
		"revenue":           revenue,
		"cars":              cars,
		"daily":             daily,
		"monthly":           monthly,
		"top_cars":          topCars,
		"pickup_locations":  pickups,
		"dropoff_locations": dropoffs,
	})
}

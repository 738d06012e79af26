package promotions

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autosam-rentals/backend/internal/models"
	"github.com/autosam-rentals/backend/pkg/response"
)

// ValidateRequest is the body for POST /api/promotions/validate.
type ValidateRequest struct {
	Code     string   `json:"code" binding:"required"`
	CarID    string   `json:"car_id"`
	Subtotal *float64 `json:"subtotal"`
}

// PromotionRequest is the body for admin promotion create/update.
type PromotionRequest struct {
	Title           string   `json:"title" binding:"required"`
	TitleFr         string   `json:"title_fr"`
	Description     string   `json:"description"`
	DescriptionFr   string   `json:"description_fr"`
	DiscountPercent *float64 `json:"discount_percent"`
	DiscountAmount  *float64 `json:"discount_amount"`
	Code            *string  `json:"code"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date" binding:"required"`
	IsActive        *bool    `json:"is_active"`
	CarID           *string  `json:"car_id"`
	DisplayOrder    int      `json:"display_order"`
}

// Handler handles promotion HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a promotions handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListActive handles GET /api/promotions.
func (h *Handler) ListActive(c *gin.Context) {
	list, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("list active promotions failed", zap.Error(err))
		response.Internal(c, "failed to list promotions")
		return
	}
	response.OK(c, list)
}

// Validate handles POST /api/promotions/validate. Resolves a code against an
// optional car and, when a subtotal is supplied, returns the discounted
// subtotal (percent wins over flat amount, flat floors at zero).
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "code required")
		return
	}
	var carID *uuid.UUID
	if req.CarID != "" {
		id, err := uuid.Parse(req.CarID)
		if err != nil {
			response.BadRequest(c, "invalid car id")
			return
		}
		carID = &id
	}

	promo, err := h.repo.ValidateCode(c.Request.Context(), req.Code, carID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "invalid or expired promo code")
			return
		}
		response.Internal(c, "failed to validate code")
		return
	}

	out := gin.H{"promotion": promo}
	if req.Subtotal != nil {
		out["discounted_subtotal"] = promo.Apply(*req.Subtotal)
	}
	response.OK(c, out)
}

// ListAll handles GET /api/admin/promotions.
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list promotions")
		return
	}
	response.OK(c, list)
}

func (h *Handler) bindPromotion(c *gin.Context, p *models.Promotion) bool {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return false
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		response.BadRequest(c, "invalid end_date")
		return false
	}
	var start *models.Date
	if req.StartDate != "" {
		s, err := models.ParseDate(req.StartDate)
		if err != nil {
			response.BadRequest(c, "invalid start_date")
			return false
		}
		if end.Before(s) {
			response.BadRequest(c, "end_date must not precede start_date")
			return false
		}
		start = &s
	}
	var carID *uuid.UUID
	if req.CarID != nil && *req.CarID != "" {
		id, err := uuid.Parse(*req.CarID)
		if err != nil {
			response.BadRequest(c, "invalid car id")
			return false
		}
		carID = &id
	}
	if req.DiscountPercent != nil && (*req.DiscountPercent <= 0 || *req.DiscountPercent > 100) {
		response.BadRequest(c, "discount_percent must be in (0, 100]")
		return false
	}
	if req.DiscountAmount != nil && *req.DiscountAmount <= 0 {
		response.BadRequest(c, "discount_amount must be positive")
		return false
	}

	p.Title = req.Title
	p.TitleFr = req.TitleFr
	p.Description = req.Description
	p.DescriptionFr = req.DescriptionFr
	p.DiscountPercent = req.DiscountPercent
	p.DiscountAmount = req.DiscountAmount
	p.Code = req.Code
	p.StartDate = start
	p.EndDate = end
	p.IsActive = true
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.CarID = carID
	p.DisplayOrder = req.DisplayOrder
	return true
}

// Create handles POST /api/admin/promotions.
func (h *Handler) Create(c *gin.Context) {
	var p models.Promotion
	if !h.bindPromotion(c, &p) {
		return
	}
	if err := h.repo.Create(c.Request.Context(), &p); err != nil {
		if errors.Is(err, ErrCodeTaken) {
			response.Conflict(c, "promo code already in use")
			return
		}
		h.logger.Error("create promotion failed", zap.Error(err))
		response.Internal(c, "failed to create promotion")
		return
	}
	response.Created(c, p)
}

// Update handles PUT /api/admin/promotions/:id.
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var p models.Promotion
	if !h.bindPromotion(c, &p) {
		return
	}
	p.ID = id
	if err := h.repo.Update(c.Request.Context(), &p); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "promotion not found")
		case errors.Is(err, ErrCodeTaken):
			response.Conflict(c, "promo code already in use")
		default:
			response.Internal(c, "failed to update promotion")
		}
		return
	}
	response.OK(c, p)
}

// Delete handles DELETE /api/admin/promotions/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "promotion not found")
			return
		}
		response.Internal(c, "failed to delete promotion")
		return
	}
	response.NoContent(c)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid promotion id")
		return 0, false
	}
	return id, true
}

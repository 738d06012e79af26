package cars

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/autosam-rentals/backend/internal/models"
	"github.com/autosam-rentals/backend/pkg/response"
	"github.com/autosam-rentals/backend/pkg/storage"
)

// CarRequest is the body for admin car create/update.
type CarRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	PricePerDay  float64 `json:"price_per_day" binding:"required,gt=0"`
	Seats        int     `json:"seats" binding:"required,gt=0"`
	Transmission string  `json:"transmission" binding:"required"`
	Fuel         string  `json:"fuel" binding:"required"`
	Available    *bool   `json:"available"`
}

// Handler handles car HTTP endpoints.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a cars handler. s3 may be nil when image uploads are
// disabled (no AWS config).
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// List handles GET /api/cars.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list cars failed", zap.Error(err))
		response.Internal(c, "failed to list cars")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /api/cars/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car id")
		return
	}
	car, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "car not found")
			return
		}
		response.Internal(c, "failed to load car")
		return
	}
	response.OK(c, car)
}

func (h *Handler) bindCar(c *gin.Context, car *models.Car) bool {
	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return false
	}
	if !models.ValidCategory(req.Category) {
		response.BadRequest(c, "invalid category")
		return false
	}
	if !models.ValidTransmission(req.Transmission) {
		response.BadRequest(c, "invalid transmission")
		return false
	}
	if !models.ValidFuel(req.Fuel) {
		response.BadRequest(c, "invalid fuel")
		return false
	}
	car.Name = req.Name
	car.Category = req.Category
	car.PricePerDay = req.PricePerDay
	car.Seats = req.Seats
	car.Transmission = req.Transmission
	car.Fuel = req.Fuel
	car.Available = true
	if req.Available != nil {
		car.Available = *req.Available
	}
	return true
}

// Create handles POST /api/admin/cars.
func (h *Handler) Create(c *gin.Context) {
	var car models.Car
	if !h.bindCar(c, &car) {
		return
	}
	if err := h.repo.Create(c.Request.Context(), &car); err != nil {
		h.logger.Error("create car failed", zap.Error(err))
		response.Internal(c, "failed to create car")
		return
	}
	response.Created(c, car)
}

// Update handles PUT /api/admin/cars/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car id")
		return
	}
	var car models.Car
	if !h.bindCar(c, &car) {
		return
	}
	car.ID = id
	if err := h.repo.Update(c.Request.Context(), &car); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "car not found")
			return
		}
		h.logger.Error("update car failed", zap.Error(err), zap.String("car_id", id.String()))
		response.Internal(c, "failed to update car")
		return
	}
	response.OK(c, car)
}

// Delete handles DELETE /api/admin/cars/:id. Blocked while bookings reference
// the car.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car id")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, "car not found")
		case errors.Is(err, ErrHasBookings):
			response.Conflict(c, "car has bookings and cannot be deleted")
		default:
			response.Internal(c, "failed to delete car")
		}
		return
	}
	response.NoContent(c)
}

// UploadImage handles POST /api/admin/cars/:id/images (multipart form:
// "image" file, optional "is_primary" and "position" fields).
func (h *Handler) UploadImage(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "image storage not configured")
		return
	}
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car id")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), carID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "car not found")
			return
		}
		response.Internal(c, "failed to load car")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file required")
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImageFileSize {
		response.BadRequest(c, "image exceeds maximum size")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateImageFileType(contentType, header.Filename) {
		response.BadRequest(c, "unsupported image type")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(header.Filename)
	}

	isPrimary := c.PostForm("is_primary") == "true"
	position, _ := strconv.Atoi(c.PostForm("position"))

	imageID := uuid.New()
	key := storage.CarImageKey(carID.String(), imageID.String(), header.Filename)
	url, err := h.s3.UploadImage(c.Request.Context(), key, contentType, file, header.Size)
	if err != nil {
		h.logger.Error("image upload failed", zap.Error(err), zap.String("car_id", carID.String()))
		response.Internal(c, "failed to upload image")
		return
	}

	img := &models.CarImage{
		ID:        imageID,
		CarID:     carID,
		URL:       url,
		S3Key:     key,
		IsPrimary: isPrimary,
		Position:  position,
	}
	if err := h.repo.AddImage(c.Request.Context(), img); err != nil {
		// best effort: do not leave an orphan object behind
		if delErr := h.s3.DeleteImage(c.Request.Context(), key); delErr != nil {
			h.logger.Warn("orphan image cleanup failed", zap.Error(delErr), zap.String("s3_key", key))
		}
		h.logger.Error("image insert failed", zap.Error(err), zap.String("car_id", carID.String()))
		response.Internal(c, "failed to save image")
		return
	}
	response.Created(c, img)
}

// DeleteImage handles DELETE /api/admin/cars/:id/images/:imageId. Removes the
// S3 object and the row.
func (h *Handler) DeleteImage(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car id")
		return
	}
	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		response.BadRequest(c, "invalid image id")
		return
	}
	img, err := h.repo.GetImage(c.Request.Context(), carID, imageID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "image not found")
			return
		}
		response.Internal(c, "failed to load image")
		return
	}
	if h.s3 != nil {
		if err := h.s3.DeleteImage(c.Request.Context(), img.S3Key); err != nil {
			h.logger.Warn("s3 image delete failed", zap.Error(err), zap.String("s3_key", img.S3Key))
		}
	}
	if err := h.repo.DeleteImage(c.Request.Context(), imageID); err != nil {
		response.Internal(c, "failed to delete image")
		return
	}
	response.NoContent(c)
}

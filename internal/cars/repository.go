package cars

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autosam-rentals/backend/internal/models"
)

var (
	// ErrNotFound is returned when no car (or image) matches the id.
	ErrNotFound = errors.New("car not found")
	// ErrHasBookings is returned when deletion is blocked by referencing bookings.
	ErrHasBookings = errors.New("car has bookings and cannot be deleted")
)

// Repository handles car and car image persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a cars repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const carColumns = `id, name, category, price_per_day, seats, transmission, fuel, available, created_at, updated_at`

func scanCar(row pgx.Row) (*models.Car, error) {
	var car models.Car
	err := row.Scan(&car.ID, &car.Name, &car.Category, &car.PricePerDay, &car.Seats,
		&car.Transmission, &car.Fuel, &car.Available, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &car, nil
}

// List returns all cars with their images, primary image first.
func (r *Repository) List(ctx context.Context) ([]models.Car, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+carColumns+` FROM cars ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *car)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range list {
		images, err := r.ListImages(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Images = images
	}
	return list, nil
}

// GetByID returns a car with its images.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	car, err := scanCar(r.pool.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	car.Images, err = r.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	return car, nil
}

// Create inserts a car.
func (r *Repository) Create(ctx context.Context, car *models.Car) error {
	const q = `INSERT INTO cars (name, category, price_per_day, seats, transmission, fuel, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, car.Name, car.Category, car.PricePerDay, car.Seats,
		car.Transmission, car.Fuel, car.Available).
		Scan(&car.ID, &car.CreatedAt, &car.UpdatedAt)
}

// Update overwrites a car's editable fields.
func (r *Repository) Update(ctx context.Context, car *models.Car) error {
	const q = `UPDATE cars SET name = $2, category = $3, price_per_day = $4, seats = $5,
		transmission = $6, fuel = $7, available = $8, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, car.ID, car.Name, car.Category, car.PricePerDay, car.Seats,
		car.Transmission, car.Fuel, car.Available).Scan(&car.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// HasBookings reports whether any booking references the car.
func (r *Repository) HasBookings(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE car_id = $1)`, id).Scan(&exists)
	return exists, err
}

// Delete removes a car. Deletion is blocked while any booking references it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	referenced, err := r.HasBookings(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrHasBookings
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListImages returns a car's images, primary first then by position.
func (r *Repository) ListImages(ctx context.Context, carID uuid.UUID) ([]models.CarImage, error) {
	const q = `SELECT id, car_id, url, s3_key, is_primary, position, created_at
		FROM car_images WHERE car_id = $1 ORDER BY is_primary DESC, position, created_at`
	rows, err := r.pool.Query(ctx, q, carID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.CarImage
	for rows.Next() {
		var img models.CarImage
		if err := rows.Scan(&img.ID, &img.CarID, &img.URL, &img.S3Key, &img.IsPrimary, &img.Position, &img.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, img)
	}
	return list, rows.Err()
}

// AddImage inserts an image row. When primary, any existing primary image is
// demoted first so a car keeps exactly one primary image.
func (r *Repository) AddImage(ctx context.Context, img *models.CarImage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if img.IsPrimary {
		if _, err := tx.Exec(ctx, `UPDATE car_images SET is_primary = FALSE WHERE car_id = $1`, img.CarID); err != nil {
			return err
		}
	}
	const q = `INSERT INTO car_images (id, car_id, url, s3_key, is_primary, position)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	if err := tx.QueryRow(ctx, q, img.ID, img.CarID, img.URL, img.S3Key, img.IsPrimary, img.Position).
		Scan(&img.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetImage returns an image row for a car.
func (r *Repository) GetImage(ctx context.Context, carID, imageID uuid.UUID) (*models.CarImage, error) {
	const q = `SELECT id, car_id, url, s3_key, is_primary, position, created_at
		FROM car_images WHERE id = $1 AND car_id = $2`
	var img models.CarImage
	err := r.pool.QueryRow(ctx, q, imageID, carID).
		Scan(&img.ID, &img.CarID, &img.URL, &img.S3Key, &img.IsPrimary, &img.Position, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &img, nil
}

// DeleteImage removes an image row.
func (r *Repository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM car_images WHERE id = $1`, imageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

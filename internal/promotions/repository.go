package promotions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autosam-rentals/backend/internal/models"
)

var (
	// ErrNotFound is returned when no promotion matches the lookup.
	ErrNotFound = errors.New("promotion not found")
	// ErrCodeTaken is returned when another promotion already uses the code.
	ErrCodeTaken = errors.New("promo code already in use")
)

const pgUniqueViolation = "23505"

// Repository handles promotion persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a promotions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const promoColumns = `id, title, COALESCE(title_fr,''), COALESCE(description,''), COALESCE(description_fr,''),
	discount_percent, discount_amount, code, start_date, end_date, is_active, car_id, display_order,
	created_at, updated_at`

func scanPromotion(row pgx.Row) (*models.Promotion, error) {
	var p models.Promotion
	var start *time.Time
	var end time.Time
	err := row.Scan(&p.ID, &p.Title, &p.TitleFr, &p.Description, &p.DescriptionFr,
		&p.DiscountPercent, &p.DiscountAmount, &p.Code, &start, &end, &p.IsActive, &p.CarID, &p.DisplayOrder,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if start != nil {
		d := models.Date{Time: *start}
		p.StartDate = &d
	}
	p.EndDate = models.Date{Time: end}
	return &p, nil
}

// ValidateCode resolves a promo code against an optional car. The promotion
// must be active, inside its window today, and either global or bound to the
// supplied car. Codes are unique by schema; the lowest display_order wins
// the tie-break.
func (r *Repository) ValidateCode(ctx context.Context, code string, carID *uuid.UUID) (*models.Promotion, error) {
	const q = `SELECT ` + promoColumns + ` FROM promotions
		WHERE code IS NOT NULL AND LOWER(code) = LOWER($1)
		  AND is_active
		  AND (start_date IS NULL OR start_date <= CURRENT_DATE)
		  AND end_date >= CURRENT_DATE
		  AND (car_id IS NULL OR car_id = $2)
		ORDER BY display_order
		LIMIT 1`
	return scanPromotion(r.pool.QueryRow(ctx, q, code, carID))
}

// ListActive returns publicly listable promotions: active, inside their
// window, and not tied to a car that is under a blocking booking covering
// today. Re-evaluated on every call, never cached.
func (r *Repository) ListActive(ctx context.Context) ([]models.Promotion, error) {
	const q = `SELECT ` + promoColumns + ` FROM promotions p
		WHERE is_active
		  AND (start_date IS NULL OR start_date <= CURRENT_DATE)
		  AND end_date >= CURRENT_DATE
		  AND (p.car_id IS NULL OR NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.car_id = p.car_id
				  AND b.status IN ('pending','confirmed')
				  AND b.pickup_date <= CURRENT_DATE
				  AND b.return_date >= CURRENT_DATE))
		ORDER BY display_order, id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListAll returns every promotion for the admin back-office.
func (r *Repository) ListAll(ctx context.Context) ([]models.Promotion, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+promoColumns+` FROM promotions ORDER BY display_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]models.Promotion, error) {
	var list []models.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// GetByID returns a promotion by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Promotion, error) {
	return scanPromotion(r.pool.QueryRow(ctx, `SELECT `+promoColumns+` FROM promotions WHERE id = $1`, id))
}

// Create inserts a promotion.
func (r *Repository) Create(ctx context.Context, p *models.Promotion) error {
	const q = `INSERT INTO promotions (title, title_fr, description, description_fr,
			discount_percent, discount_amount, code, start_date, end_date, is_active, car_id, display_order)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), NULLIF($4,''), $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q, p.Title, p.TitleFr, p.Description, p.DescriptionFr,
		p.DiscountPercent, p.DiscountAmount, p.Code, startArg(p), p.EndDate.Time, p.IsActive, p.CarID, p.DisplayOrder).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	return codeTakenOr(err)
}

// Update overwrites a promotion's fields.
func (r *Repository) Update(ctx context.Context, p *models.Promotion) error {
	const q = `UPDATE promotions SET title = $2, title_fr = NULLIF($3,''), description = NULLIF($4,''),
			description_fr = NULLIF($5,''), discount_percent = $6, discount_amount = $7, code = $8,
			start_date = $9, end_date = $10, is_active = $11, car_id = $12, display_order = $13, updated_at = NOW()
		WHERE id = $1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, p.ID, p.Title, p.TitleFr, p.Description, p.DescriptionFr,
		p.DiscountPercent, p.DiscountAmount, p.Code, startArg(p), p.EndDate.Time, p.IsActive, p.CarID, p.DisplayOrder).
		Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return codeTakenOr(err)
}

// codeTakenOr maps a unique violation on the code index to ErrCodeTaken.
func codeTakenOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrCodeTaken
	}
	return err
}

// Delete removes a promotion.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func startArg(p *models.Promotion) any {
	if p.StartDate == nil {
		return nil
	}
	return p.StartDate.Time
}

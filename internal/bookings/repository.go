package bookings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autosam-rentals/backend/internal/models"
)

var (
	// ErrNotFound is returned when no booking matches the id.
	ErrNotFound = errors.New("booking not found")
	// ErrDateConflict is returned when the requested range intersects a
	// blocking (pending/confirmed) booking for the same car.
	ErrDateConflict = errors.New("car already booked for the requested dates")
	// ErrInvalidTransition is returned when the lifecycle forbids the
	// requested status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Postgres error codes surfaced by the overlap protections.
const (
	pgSerializationFailure = "40001"
	pgExclusionViolation   = "23P01"
)

// Repository handles booking persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a bookings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bookingColumns = `id, car_id, user_id, customer_name, email, phone, license_number,
	pickup_location, dropoff_location, pickup_date, return_date, total_price, status,
	COALESCE(notes,''), language, created_at, updated_at`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.CarID, &b.UserID, &b.CustomerName, &b.Email, &b.Phone, &b.LicenseNumber,
		&b.PickupLocation, &b.DropoffLocation, &b.PickupDate.Time, &b.ReturnDate.Time, &b.TotalPrice, &b.Status,
		&b.Notes, &b.Language, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// IsOverlapping reports whether any blocking booking for the car intersects
// the inclusive range [pickup, ret].
func (r *Repository) IsOverlapping(ctx context.Context, carID uuid.UUID, pickup, ret models.Date) (bool, error) {
	return overlapExists(ctx, r.pool, carID, pickup, ret)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func overlapExists(ctx context.Context, q querier, carID uuid.UUID, pickup, ret models.Date) (bool, error) {
	rows, err := q.Query(ctx,
		`SELECT pickup_date, return_date FROM bookings WHERE car_id = $1 AND status IN ('pending','confirmed')`,
		carID)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var existing models.Booking
		if err := rows.Scan(&existing.PickupDate.Time, &existing.ReturnDate.Time); err != nil {
			return false, err
		}
		if existing.OverlapsRange(pickup, ret) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// Create inserts a booking after verifying no blocking booking overlaps the
// requested range. Check and insert run in one SERIALIZABLE transaction so two
// racing requests for the same car cannot both win; the gist exclusion
// constraint in the schema is the database-level backstop.
func (r *Repository) Create(ctx context.Context, b *models.Booking) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	conflict, err := overlapExists(ctx, tx, b.CarID, b.PickupDate, b.ReturnDate)
	if err != nil {
		return conflictOr(err)
	}
	if conflict {
		return ErrDateConflict
	}

	const q = `INSERT INTO bookings (car_id, user_id, customer_name, email, phone, license_number,
			pickup_location, dropoff_location, pickup_date, return_date, total_price, status, notes, language)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'pending', NULLIF($12,''), $13)
		RETURNING id, status, created_at, updated_at`
	err = tx.QueryRow(ctx, q, b.CarID, b.UserID, b.CustomerName, b.Email, b.Phone, b.LicenseNumber,
		b.PickupLocation, b.DropoffLocation, b.PickupDate.Time, b.ReturnDate.Time, b.TotalPrice, b.Notes, b.Language).
		Scan(&b.ID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return conflictOr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return conflictOr(err)
	}
	return nil
}

// conflictOr maps serialization failures and exclusion violations to
// ErrDateConflict so callers can offer alternate dates.
func conflictOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgSerializationFailure || pgErr.Code == pgExclusionViolation {
			return ErrDateConflict
		}
	}
	return err
}

// GetByID returns a booking by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

// List returns bookings newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByUser returns bookings owned by the user, falling back to an email
// match for guest bookings made before the account existed.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, email string) ([]models.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
		WHERE user_id = $1 OR (user_id IS NULL AND LOWER(email) = LOWER($2))
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, userID, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]models.Booking, error) {
	var list []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *b)
	}
	return list, rows.Err()
}

// SetStatus transitions a booking and returns the prior status alongside the
// updated booking. Setting the current status is an idempotent no-op.
func (r *Repository) SetStatus(ctx context.Context, id int64, next models.BookingStatus) (models.BookingStatus, *models.Booking, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", nil, err
	}
	defer tx.Rollback(ctx)

	var prior models.BookingStatus
	err = tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&prior)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, ErrNotFound
		}
		return "", nil, err
	}

	if prior != next {
		if !prior.CanTransitionTo(next) {
			return prior, nil, ErrInvalidTransition
		}
		if _, err := tx.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(next)); err != nil {
			return prior, nil, err
		}
	}

	b, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return prior, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return prior, nil, err
	}
	return prior, b, nil
}

// Delete removes a booking.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the read-only reporting queries behind the admin dashboard.
// Every query is a stateless point-in-time aggregate; nothing is cached.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a dashboard repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// StatusCounts is the booking count per lifecycle status.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// CarCounts summarizes the fleet: the available flag is admin-managed, while
// reserved means a blocking booking covers today.
type CarCounts struct {
	Total         int `json:"total"`
	FlagAvailable int `json:"flag_available"`
	ReservedToday int `json:"reserved_today"`
}

// SeriesPoint is one bucket of a grouped time series.
type SeriesPoint struct {
	Period   string  `json:"period"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

// TopCar is a fleet car ranked by non-cancelled booking count.
type TopCar struct {
	CarID    uuid.UUID `json:"car_id"`
	Name     string    `json:"name"`
	Bookings int       `json:"bookings"`
}

// TopLocation is a pickup or dropoff location ranked by frequency.
type TopLocation struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// BookingCounts returns booking counts grouped by status.
func (r *Repository) BookingCounts(ctx context.Context) (StatusCounts, error) {
	var out StatusCounts
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return out, err
		}
		switch status {
		case "pending":
			out.Pending = n
		case "confirmed":
			out.Confirmed = n
		case "cancelled":
			out.Cancelled = n
		case "completed":
			out.Completed = n
		}
		out.Total += n
	}
	return out, rows.Err()
}

// Revenue returns the total_price sum over confirmed and completed bookings.
func (r *Repository) Revenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_price), 0) FROM bookings WHERE status IN ('confirmed','completed')`).
		Scan(&total)
	return total, err
}

// CarCounts returns fleet totals plus how many cars a blocking booking covers
// today.
func (r *Repository) CarCounts(ctx context.Context) (CarCounts, error) {
	var out CarCounts
	const q = `SELECT
		(SELECT COUNT(*) FROM cars),
		(SELECT COUNT(*) FROM cars WHERE available),
		(SELECT COUNT(DISTINCT car_id) FROM bookings
			WHERE status IN ('pending','confirmed')
			  AND pickup_date <= CURRENT_DATE AND return_date >= CURRENT_DATE)`
	err := r.pool.QueryRow(ctx, q).Scan(&out.Total, &out.FlagAvailable, &out.ReservedToday)
	return out, err
}

// DailySeries returns per-day booking counts and revenue for the last `days`
// days. Revenue only counts confirmed/completed bookings.
func (r *Repository) DailySeries(ctx context.Context, days int) ([]SeriesPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	const q = `SELECT TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS period,
			COUNT(*),
			COALESCE(SUM(total_price) FILTER (WHERE status IN ('confirmed','completed')), 0)
		FROM bookings WHERE created_at >= $1
		GROUP BY 1 ORDER BY 1`
	return r.series(ctx, q, since)
}

// MonthlySeries returns per-month booking counts and revenue for the last
// `months` months.
func (r *Repository) MonthlySeries(ctx context.Context, months int) ([]SeriesPoint, error) {
	if months <= 0 {
		months = 12
	}
	since := time.Now().UTC().AddDate(0, -months, 0)
	const q = `SELECT TO_CHAR(DATE_TRUNC('month', created_at), 'YYYY-MM') AS period,
			COUNT(*),
			COALESCE(SUM(total_price) FILTER (WHERE status IN ('confirmed','completed')), 0)
		FROM bookings WHERE created_at >= $1
		GROUP BY 1 ORDER BY 1`
	return r.series(ctx, q, since)
}

func (r *Repository) series(ctx context.Context, q string, since time.Time) ([]SeriesPoint, error) {
	rows, err := r.pool.Query(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		if err := rows.Scan(&p.Period, &p.Bookings, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// TopCars returns the n cars with the most non-cancelled bookings.
func (r *Repository) TopCars(ctx context.Context, n int) ([]TopCar, error) {
	if n <= 0 {
		n = 5
	}
	const q = `SELECT c.id, c.name, COUNT(b.id) AS bookings
		FROM cars c
		INNER JOIN bookings b ON b.car_id = c.id AND b.status <> 'cancelled'
		GROUP BY c.id, c.name
		ORDER BY bookings DESC, c.name
		LIMIT $1`
	rows, err := r.pool.Query(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TopCar
	for rows.Next() {
		var t TopCar
		if err := rows.Scan(&t.CarID, &t.Name, &t.Bookings); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TopLocations returns the n most frequent values of the given location
// column ("pickup_location" or "dropoff_location").
func (r *Repository) TopLocations(ctx context.Context, column string, n int) ([]TopLocation, error) {
	if column != "pickup_location" && column != "dropoff_location" {
		column = "pickup_location"
	}
	if n <= 0 {
		n = 5
	}
	q := `SELECT ` + column + `, COUNT(*) AS freq FROM bookings
		GROUP BY 1 ORDER BY freq DESC, 1 LIMIT $1`
	rows, err := r.pool.Query(ctx, q, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TopLocation
	for rows.Next() {
		var t TopLocation
		if err := rows.Scan(&t.Location, &t.Count); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

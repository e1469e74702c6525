package bookingrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanohind/vecos-backend/model"
)

type ListFilter struct {
	UserID    int64 // 0 = all users
	VehicleID int64 // 0 = all vehicles
	Status    model.BookingStatus
	From      time.Time // inclusive lower bound on start_time
	To        time.Time // exclusive upper bound on start_time
	Limit     int
	Offset    int
}

type Repo interface {
	Insert(ctx context.Context, tx pgx.Tx, b *model.Booking) error
	ByID(ctx context.Context, id int64) (*model.Booking, error)
	ByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Booking, error)

	// ListForVehicle reads a vehicle's bookings inside the transaction that
	// holds the vehicle row lock, so the conflict check sees a stable set.
	ListForVehicle(ctx context.Context, tx pgx.Tx, vehicleID int64, statuses []model.BookingStatus) ([]model.Booking, error)

	// ListByVehicle is the non-transactional variant used by read-only views
	// like the slot grid.
	ListByVehicle(ctx context.Context, vehicleID int64, statuses []model.BookingStatus) ([]model.Booking, error)

	List(ctx context.Context, f ListFilter) ([]model.Booking, error)

	// ListOverlappingRange returns pending/approved bookings touching the
	// half-open [from, to) window, ordered by start_time. Feeds the public
	// schedule.
	ListOverlappingRange(ctx context.Context, from, to time.Time, statuses []model.BookingStatus) ([]model.Booking, error)

	UpdateFields(ctx context.Context, tx pgx.Tx, b *model.Booking) error

	// UpdateStatus moves id from one status to another and reports whether a
	// row changed; the from-guard makes every transition idempotent.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, from, to model.BookingStatus) (bool, error)

	// DeletePending removes a booking only while it is still pending.
	DeletePending(ctx context.Context, id int64) (bool, error)

	Stats(ctx context.Context, userID int64, monthStart time.Time) (*model.BookingStats, error)

	// ListExpiredApproved returns approved bookings whose end_time passed the
	// cutoff. CompleteIfApproved finishes one of them; a false return means
	// another sweep got there first.
	ListExpiredApproved(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
	CompleteIfApproved(ctx context.Context, id int64) (bool, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db: db} }

const bookingCols = `id, vehicle_id, user_id, start_time, end_time, destination, status, notes, created_at, updated_at`

func scanBooking(row pgx.Row) (*model.Booking, error) {
	b := &model.Booking{}
	err := row.Scan(&b.ID, &b.VehicleID, &b.UserID, &b.StartTime, &b.EndTime,
		&b.Destination, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func collectBookings(rows pgx.Rows) ([]model.Booking, error) {
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func statusStrings(statuses []model.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *repo) Insert(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	return tx.QueryRow(ctx, `
		INSERT INTO vehicle_bookings (vehicle_id, user_id, start_time, end_time, destination, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		b.VehicleID, b.UserID, b.StartTime, b.EndTime, b.Destination, b.Status, b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx,
		`SELECT `+bookingCols+` FROM vehicle_bookings WHERE id = $1`, id))
}

func (r *repo) ByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx,
		`SELECT `+bookingCols+` FROM vehicle_bookings WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) ListForVehicle(ctx context.Context, tx pgx.Tx, vehicleID int64, statuses []model.BookingStatus) ([]model.Booking, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+bookingCols+`
		FROM vehicle_bookings
		WHERE vehicle_id = $1
		AND status = ANY($2)
		ORDER BY start_time`,
		vehicleID, statusStrings(statuses),
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *repo) ListByVehicle(ctx context.Context, vehicleID int64, statuses []model.BookingStatus) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingCols+`
		FROM vehicle_bookings
		WHERE vehicle_id = $1
		AND status = ANY($2)
		ORDER BY start_time`,
		vehicleID, statusStrings(statuses),
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM vehicle_bookings WHERE 1=1`
	args := []any{}
	n := 0
	next := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if f.UserID > 0 {
		q += ` AND user_id = ` + next(f.UserID)
	}
	if f.VehicleID > 0 {
		q += ` AND vehicle_id = ` + next(f.VehicleID)
	}
	if f.Status != "" {
		q += ` AND status = ` + next(f.Status)
	}
	if !f.From.IsZero() {
		q += ` AND start_time >= ` + next(f.From)
	}
	if !f.To.IsZero() {
		q += ` AND start_time < ` + next(f.To)
	}
	q += ` ORDER BY start_time DESC, id DESC`
	if f.Limit > 0 {
		q += ` LIMIT ` + next(f.Limit) + ` OFFSET ` + next(f.Offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *repo) ListOverlappingRange(ctx context.Context, from, to time.Time, statuses []model.BookingStatus) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingCols+`
		FROM vehicle_bookings
		WHERE status = ANY($3)
		AND start_time < $2
		AND $1 < end_time
		ORDER BY start_time`,
		from, to, statusStrings(statuses),
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *repo) UpdateFields(ctx context.Context, tx pgx.Tx, b *model.Booking) error {
	return tx.QueryRow(ctx, `
		UPDATE vehicle_bookings
		SET vehicle_id = $2,
			start_time = $3,
			end_time = $4,
			destination = $5,
			notes = $6,
			updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		b.ID, b.VehicleID, b.StartTime, b.EndTime, b.Destination, b.Notes,
	).Scan(&b.UpdatedAt)
}

func (r *repo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, from, to model.BookingStatus) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE vehicle_bookings
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) DeletePending(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM vehicle_bookings WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) Stats(ctx context.Context, userID int64, monthStart time.Time) (*model.BookingStats, error) {
	q := `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status = 'approved'),
			count(*) FILTER (WHERE status = 'rejected'),
			count(*) FILTER (WHERE status = 'completed'),
			count(*) FILTER (WHERE created_at >= $1)
		FROM vehicle_bookings`
	args := []any{monthStart}
	if userID > 0 {
		q += ` WHERE user_id = $2`
		args = append(args, userID)
	}

	s := &model.BookingStats{}
	err := r.db.QueryRow(ctx, q, args...).Scan(
		&s.Total, &s.Pending, &s.Approved, &s.Rejected, &s.Completed, &s.ThisMonth)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repo) ListExpiredApproved(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+bookingCols+`
		FROM vehicle_bookings
		WHERE status = 'approved'
		AND end_time < $1
		ORDER BY end_time`,
		cutoff,
	)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *repo) CompleteIfApproved(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE vehicle_bookings
		SET status = 'completed', updated_at = now()
		WHERE id = $1 AND status = 'approved'`,
		id,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

package vehiclerepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanohind/vecos-backend/model"
)

type ListFilter struct {
	Status model.VehicleStatus // empty = all
	Search string              // matched against brand, model, plate and fleet code
	Limit  int
	Offset int
}

type Repo interface {
	Create(ctx context.Context, v *model.Vehicle) error
	ByID(ctx context.Context, id int64) (*model.Vehicle, error)
	List(ctx context.Context, f ListFilter) ([]model.Vehicle, error)
	Update(ctx context.Context, v *model.Vehicle) error
	Delete(ctx context.Context, id int64) (bool, error)

	// LockForBooking takes a row lock on the vehicle, serializing conflict
	// checks and status writes per vehicle within a transaction.
	LockForBooking(ctx context.Context, tx pgx.Tx, id int64) (*model.Vehicle, error)

	// CountActiveBookings counts pending/approved bookings that have not yet
	// ended; used to refuse deleting a vehicle that is still claimed.
	CountActiveBookings(ctx context.Context, vehicleID int64, now time.Time) (int64, error)

	// ListAvailable returns active vehicles with no pending/approved booking
	// overlapping the half-open interval.
	ListAvailable(ctx context.Context, iv model.Interval) ([]model.Vehicle, error)
}

type repo struct{ db *pgxpool.Pool }

func New(db *pgxpool.Pool) Repo { return &repo{db: db} }

const vehicleCols = `id, vehicle_id, plat_no, brand, model, status, created_at, updated_at`

func scanVehicle(row pgx.Row) (*model.Vehicle, error) {
	v := &model.Vehicle{}
	err := row.Scan(&v.ID, &v.VehicleID, &v.PlatNo, &v.Brand, &v.Model, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *repo) Create(ctx context.Context, v *model.Vehicle) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO vehicles (vehicle_id, plat_no, brand, model, status)
		VALUES ($1, upper($2), $3, $4, $5)
		RETURNING id, plat_no, created_at, updated_at`,
		v.VehicleID, v.PlatNo, v.Brand, v.Model, v.Status,
	).Scan(&v.ID, &v.PlatNo, &v.CreatedAt, &v.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Vehicle, error) {
	return scanVehicle(r.db.QueryRow(ctx,
		`SELECT `+vehicleCols+` FROM vehicles WHERE id = $1`, id))
}

func (r *repo) List(ctx context.Context, f ListFilter) ([]model.Vehicle, error) {
	q := `SELECT ` + vehicleCols + ` FROM vehicles WHERE 1=1`
	args := []any{}
	n := 0
	next := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if f.Status != "" {
		q += ` AND status = ` + next(f.Status)
	}
	if f.Search != "" {
		p := next("%" + f.Search + "%")
		q += ` AND (brand ILIKE ` + p + ` OR model ILIKE ` + p +
			` OR plat_no ILIKE ` + p + ` OR vehicle_id ILIKE ` + p + `)`
	}
	q += ` ORDER BY brand, model`
	if f.Limit > 0 {
		q += ` LIMIT ` + next(f.Limit) + ` OFFSET ` + next(f.Offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, v *model.Vehicle) error {
	return r.db.QueryRow(ctx, `
		UPDATE vehicles
		SET vehicle_id = $2,
			plat_no = upper($3),
			brand = $4,
			model = $5,
			status = $6,
			updated_at = now()
		WHERE id = $1
		RETURNING plat_no, updated_at`,
		v.ID, v.VehicleID, v.PlatNo, v.Brand, v.Model, v.Status,
	).Scan(&v.PlatNo, &v.UpdatedAt)
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repo) LockForBooking(ctx context.Context, tx pgx.Tx, id int64) (*model.Vehicle, error) {
	return scanVehicle(tx.QueryRow(ctx,
		`SELECT `+vehicleCols+` FROM vehicles WHERE id = $1 FOR UPDATE`, id))
}

func (r *repo) CountActiveBookings(ctx context.Context, vehicleID int64, now time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT count(*)
		FROM vehicle_bookings
		WHERE vehicle_id = $1
		AND status IN ('pending','approved')
		AND end_time >= $2`,
		vehicleID, now,
	).Scan(&count)
	return count, err
}

func (r *repo) ListAvailable(ctx context.Context, iv model.Interval) ([]model.Vehicle, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+vehicleCols+`
		FROM vehicles v
		WHERE v.status = 'active'
		AND NOT EXISTS (
			SELECT 1
			FROM vehicle_bookings b
			WHERE b.vehicle_id = v.id
			AND b.status IN ('pending','approved')
			AND b.start_time < $2
			AND $1 < b.end_time
		)
		ORDER BY v.brand, v.model`,
		iv.Start, iv.End,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

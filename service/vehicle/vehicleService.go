package vehiclesvc

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sanohind/vecos-backend/model"
	vehiclerepo "github.com/sanohind/vecos-backend/repository/vehicle"
	"github.com/sanohind/vecos-backend/util/clock"
)

var (
	ErrNotFound      = errors.New("vehicle not found")
	ErrDuplicate     = errors.New("vehicle code or plate already registered")
	ErrBadInput      = errors.New("invalid payload")
	ErrHasBookings   = errors.New("vehicle has active bookings")
	ErrInvalidWindow = errors.New("start_time must be before end_time")
)

type CreateInput struct {
	VehicleID string
	PlatNo    string
	Brand     string
	Model     string
	Status    model.VehicleStatus
}

type UpdateInput struct {
	VehicleID *string
	PlatNo    *string
	Brand     *string
	Model     *string
	Status    *model.VehicleStatus
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*model.Vehicle, error)
	Get(ctx context.Context, id int64) (*model.Vehicle, error)
	List(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*model.Vehicle, error)
	Delete(ctx context.Context, id int64) error

	// Available lists active vehicles free of pending/approved bookings in
	// the requested window.
	Available(ctx context.Context, iv model.Interval) ([]model.Vehicle, error)
}

type service struct {
	r   vehiclerepo.Repo
	clk clock.Clock
}

func New(r vehiclerepo.Repo, clk clock.Clock) Service { return &service{r: r, clk: clk} }

func (s *service) Create(ctx context.Context, in CreateInput) (*model.Vehicle, error) {
	if in.VehicleID == "" || in.PlatNo == "" || in.Brand == "" || in.Model == "" {
		return nil, ErrBadInput
	}
	if in.Status == "" {
		in.Status = model.VehicleActive
	}
	v := &model.Vehicle{
		VehicleID: in.VehicleID,
		PlatNo:    strings.ToUpper(in.PlatNo),
		Brand:     in.Brand,
		Model:     in.Model,
		Status:    in.Status,
	}
	if err := s.r.Create(ctx, v); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return v, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Vehicle, error) {
	v, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *service) List(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error) {
	return s.r.List(ctx, f)
}

func (s *service) Update(ctx context.Context, id int64, in UpdateInput) (*model.Vehicle, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.VehicleID != nil {
		v.VehicleID = *in.VehicleID
	}
	if in.PlatNo != nil {
		v.PlatNo = strings.ToUpper(*in.PlatNo)
	}
	if in.Brand != nil {
		v.Brand = *in.Brand
	}
	if in.Model != nil {
		v.Model = *in.Model
	}
	if in.Status != nil {
		v.Status = *in.Status
	}
	if v.VehicleID == "" || v.PlatNo == "" || v.Brand == "" || v.Model == "" {
		return nil, ErrBadInput
	}
	if err := s.r.Update(ctx, v); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return v, nil
}

// Delete refuses while pending/approved bookings have not yet ended.
func (s *service) Delete(ctx context.Context, id int64) error {
	count, err := s.r.CountActiveBookings(ctx, id, s.clk.Now())
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrHasBookings
	}
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *service) Available(ctx context.Context, iv model.Interval) ([]model.Vehicle, error) {
	if !iv.Valid() {
		return nil, ErrInvalidWindow
	}
	return s.r.ListAvailable(ctx, iv)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

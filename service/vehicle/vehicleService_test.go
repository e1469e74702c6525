package vehiclesvc

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/sanohind/vecos-backend/model"
	vehiclerepo "github.com/sanohind/vecos-backend/repository/vehicle"
	"github.com/sanohind/vecos-backend/util/clock"
)

type vehicleRepoMock struct {
	createFn        func(ctx context.Context, v *model.Vehicle) error
	byIDFn          func(ctx context.Context, id int64) (*model.Vehicle, error)
	listFn          func(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error)
	updateFn        func(ctx context.Context, v *model.Vehicle) error
	deleteFn        func(ctx context.Context, id int64) (bool, error)
	countActiveFn   func(ctx context.Context, vehicleID int64, now time.Time) (int64, error)
	listAvailableFn func(ctx context.Context, iv model.Interval) ([]model.Vehicle, error)
}

func (m *vehicleRepoMock) Create(ctx context.Context, v *model.Vehicle) error {
	return m.createFn(ctx, v)
}
func (m *vehicleRepoMock) ByID(ctx context.Context, id int64) (*model.Vehicle, error) {
	return m.byIDFn(ctx, id)
}
func (m *vehicleRepoMock) List(ctx context.Context, f vehiclerepo.ListFilter) ([]model.Vehicle, error) {
	return m.listFn(ctx, f)
}
func (m *vehicleRepoMock) Update(ctx context.Context, v *model.Vehicle) error {
	return m.updateFn(ctx, v)
}
func (m *vehicleRepoMock) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFn(ctx, id)
}
func (m *vehicleRepoMock) LockForBooking(_ context.Context, _ pgx.Tx, _ int64) (*model.Vehicle, error) {
	panic("not used")
}
func (m *vehicleRepoMock) CountActiveBookings(ctx context.Context, vehicleID int64, now time.Time) (int64, error) {
	return m.countActiveFn(ctx, vehicleID, now)
}
func (m *vehicleRepoMock) ListAvailable(ctx context.Context, iv model.Interval) ([]model.Vehicle, error) {
	return m.listAvailableFn(ctx, iv)
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestCreateVehicle(t *testing.T) {
	t.Run("success uppercases plate and defaults status", func(t *testing.T) {
		repo := &vehicleRepoMock{
			createFn: func(_ context.Context, v *model.Vehicle) error {
				v.ID = 5
				return nil
			},
		}
		svc := New(repo, clock.Fixed(testNow))

		v, err := svc.Create(context.Background(), CreateInput{
			VehicleID: "VH-001",
			PlatNo:    "b 1234 xyz",
			Brand:     "Toyota",
			Model:     "Avanza",
		})
		require.NoError(t, err)
		require.Equal(t, "B 1234 XYZ", v.PlatNo)
		require.Equal(t, model.VehicleActive, v.Status)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc := New(&vehicleRepoMock{}, clock.Fixed(testNow))
		_, err := svc.Create(context.Background(), CreateInput{VehicleID: "VH-001"})
		require.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("duplicate plate", func(t *testing.T) {
		repo := &vehicleRepoMock{
			createFn: func(_ context.Context, _ *model.Vehicle) error {
				return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
			},
		}
		svc := New(repo, clock.Fixed(testNow))
		_, err := svc.Create(context.Background(), CreateInput{
			VehicleID: "VH-001", PlatNo: "B 1 A", Brand: "Toyota", Model: "Avanza",
		})
		require.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestUpdateVehicle(t *testing.T) {
	base := func() *model.Vehicle {
		return &model.Vehicle{
			ID: 5, VehicleID: "VH-001", PlatNo: "B 1234 XYZ",
			Brand: "Toyota", Model: "Avanza", Status: model.VehicleActive,
		}
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := &vehicleRepoMock{
			byIDFn:   func(_ context.Context, _ int64) (*model.Vehicle, error) { return base(), nil },
			updateFn: func(_ context.Context, _ *model.Vehicle) error { return nil },
		}
		svc := New(repo, clock.Fixed(testNow))

		inactive := model.VehicleInactive
		v, err := svc.Update(context.Background(), 5, UpdateInput{Status: &inactive})
		require.NoError(t, err)
		require.Equal(t, model.VehicleInactive, v.Status)
		require.Equal(t, "Toyota", v.Brand)
	})

	t.Run("cannot blank a required field", func(t *testing.T) {
		repo := &vehicleRepoMock{
			byIDFn: func(_ context.Context, _ int64) (*model.Vehicle, error) { return base(), nil },
		}
		svc := New(repo, clock.Fixed(testNow))

		empty := ""
		_, err := svc.Update(context.Background(), 5, UpdateInput{Brand: &empty})
		require.ErrorIs(t, err, ErrBadInput)
	})

	t.Run("missing vehicle", func(t *testing.T) {
		repo := &vehicleRepoMock{
			byIDFn: func(_ context.Context, _ int64) (*model.Vehicle, error) { return nil, pgx.ErrNoRows },
		}
		svc := New(repo, clock.Fixed(testNow))

		_, err := svc.Update(context.Background(), 5, UpdateInput{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteVehicle(t *testing.T) {
	t.Run("refused while bookings are active", func(t *testing.T) {
		repo := &vehicleRepoMock{
			countActiveFn: func(_ context.Context, _ int64, now time.Time) (int64, error) {
				require.Equal(t, testNow, now)
				return 2, nil
			},
		}
		svc := New(repo, clock.Fixed(testNow))
		require.ErrorIs(t, svc.Delete(context.Background(), 5), ErrHasBookings)
	})

	t.Run("success", func(t *testing.T) {
		repo := &vehicleRepoMock{
			countActiveFn: func(_ context.Context, _ int64, _ time.Time) (int64, error) { return 0, nil },
			deleteFn:      func(_ context.Context, _ int64) (bool, error) { return true, nil },
		}
		svc := New(repo, clock.Fixed(testNow))
		require.NoError(t, svc.Delete(context.Background(), 5))
	})

	t.Run("missing vehicle", func(t *testing.T) {
		repo := &vehicleRepoMock{
			countActiveFn: func(_ context.Context, _ int64, _ time.Time) (int64, error) { return 0, nil },
			deleteFn:      func(_ context.Context, _ int64) (bool, error) { return false, nil },
		}
		svc := New(repo, clock.Fixed(testNow))
		require.ErrorIs(t, svc.Delete(context.Background(), 5), ErrNotFound)
	})
}

func TestAvailable(t *testing.T) {
	t.Run("rejects reversed window", func(t *testing.T) {
		svc := New(&vehicleRepoMock{}, clock.Fixed(testNow))
		_, err := svc.Available(context.Background(), model.Interval{
			Start: testNow.Add(2 * time.Hour),
			End:   testNow,
		})
		require.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("passes interval through", func(t *testing.T) {
		iv := model.Interval{Start: testNow, End: testNow.Add(2 * time.Hour)}
		repo := &vehicleRepoMock{
			listAvailableFn: func(_ context.Context, got model.Interval) ([]model.Vehicle, error) {
				require.Equal(t, iv, got)
				return []model.Vehicle{{ID: 5}}, nil
			},
		}
		svc := New(repo, clock.Fixed(testNow))

		vs, err := svc.Available(context.Background(), iv)
		require.NoError(t, err)
		require.Len(t, vs, 1)
	})
}

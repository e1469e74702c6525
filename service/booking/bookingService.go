package bookingsvc

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sanohind/vecos-backend/model"
	bookingrepo "github.com/sanohind/vecos-backend/repository/booking"
	vehiclerepo "github.com/sanohind/vecos-backend/repository/vehicle"
	"github.com/sanohind/vecos-backend/util/clock"
)

// TxStarter is satisfied by *pgxpool.Pool.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SlotConfig describes the daily slot grid ("15:04" clock times).
type SlotConfig struct {
	WindowStart string
	WindowEnd   string
	Duration    time.Duration
}

type CreateInput struct {
	VehicleID   int64
	Interval    model.Interval
	Destination string
	Notes       *string
}

type UpdateInput struct {
	VehicleID   *int64
	Start       *time.Time
	End         *time.Time
	Destination *string
	Notes       *string
}

type Service interface {
	Create(ctx context.Context, userID int64, in CreateInput) (*model.Booking, error)
	Get(ctx context.Context, id, requesterID int64, isAdmin bool) (*model.Booking, error)
	List(ctx context.Context, f bookingrepo.ListFilter) ([]model.Booking, error)
	Update(ctx context.Context, id, requesterID int64, isAdmin bool, in UpdateInput) (*model.Booking, error)
	Delete(ctx context.Context, id, requesterID int64, isAdmin bool) error

	Approve(ctx context.Context, id int64) (*model.Booking, error)
	Reject(ctx context.Context, id int64) (*model.Booking, error)

	Stats(ctx context.Context, userID int64) (*model.BookingStats, error)
	AvailableSlots(ctx context.Context, vehicleID int64, date time.Time) ([]Slot, error)
	Schedule(ctx context.Context, start time.Time, days int) ([]ScheduleDay, error)
}

type service struct {
	db      TxStarter
	br      bookingrepo.Repo
	vr      vehiclerepo.Repo
	clk     clock.Clock
	loc     *time.Location
	slotCfg SlotConfig
}

func New(db TxStarter, br bookingrepo.Repo, vr vehiclerepo.Repo, clk clock.Clock, loc *time.Location, slotCfg SlotConfig) Service {
	return &service{db: db, br: br, vr: vr, clk: clk, loc: loc, slotCfg: slotCfg}
}

// Create validates the request and inserts a pending booking. The vehicle row
// lock keeps the conflict check and the insert atomic against concurrent
// bookings for the same vehicle.
func (s *service) Create(ctx context.Context, userID int64, in CreateInput) (out *model.Booking, err error) {
	if !in.Interval.Valid() {
		return nil, makeErrf(ErrValidation, "start_time must be before end_time")
	}
	if !in.Interval.Start.After(s.clk.Now()) {
		return nil, makeErrf(ErrValidation, "start_time must be in the future")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	v, err := s.vr.LockForBooking(ctx, tx, in.VehicleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrVehicleNotFound)
		}
		return nil, err
	}
	if v.Status != model.VehicleActive {
		return nil, makeErrf(ErrVehicleInactive, "cannot book inactive vehicle")
	}

	existing, err := s.br.ListForVehicle(ctx, tx, in.VehicleID, BlockingStatuses)
	if err != nil {
		return nil, err
	}
	if conflicts := FindConflicts(existing, in.Interval, BlockingStatuses, 0); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	b := &model.Booking{
		VehicleID:   in.VehicleID,
		UserID:      userID,
		StartTime:   in.Interval.Start,
		EndTime:     in.Interval.End,
		Destination: in.Destination,
		Notes:       in.Notes,
		Status:      model.BookingPending,
	}
	if err = s.br.Insert(ctx, tx, b); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, id, requesterID int64, isAdmin bool) (*model.Booking, error) {
	b, err := s.br.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if !isAdmin && b.UserID != requesterID {
		return nil, makeErr(ErrNotOwner)
	}
	return b, nil
}

func (s *service) List(ctx context.Context, f bookingrepo.ListFilter) ([]model.Booking, error) {
	return s.br.List(ctx, f)
}

// Update edits a pending booking, re-running the conflict check against the
// (possibly new) vehicle with the booking itself excluded.
func (s *service) Update(ctx context.Context, id, requesterID int64, isAdmin bool, in UpdateInput) (out *model.Booking, err error) {
	b, err := s.br.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if !isAdmin && b.UserID != requesterID {
		return nil, makeErr(ErrNotOwner)
	}
	if b.Status != model.BookingPending {
		return nil, makeErrf(ErrInvalidState, "only pending bookings can be updated")
	}

	vehicleID := b.VehicleID
	if in.VehicleID != nil {
		vehicleID = *in.VehicleID
	}
	iv := b.Interval()
	if in.Start != nil {
		iv.Start = *in.Start
	}
	if in.End != nil {
		iv.End = *in.End
	}
	if !iv.Valid() {
		return nil, makeErrf(ErrValidation, "start_time must be before end_time")
	}
	if in.Start != nil && !iv.Start.After(s.clk.Now()) {
		return nil, makeErrf(ErrValidation, "start_time must be in the future")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	v, err := s.vr.LockForBooking(ctx, tx, vehicleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrVehicleNotFound)
		}
		return nil, err
	}
	if v.Status != model.VehicleActive {
		return nil, makeErrf(ErrVehicleInactive, "cannot book inactive vehicle")
	}

	// Re-read under lock; the booking must still be pending.
	b, err = s.br.ByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingPending {
		return nil, makeErrf(ErrInvalidState, "only pending bookings can be updated")
	}

	existing, err := s.br.ListForVehicle(ctx, tx, vehicleID, BlockingStatuses)
	if err != nil {
		return nil, err
	}
	if conflicts := FindConflicts(existing, iv, BlockingStatuses, id); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	b.VehicleID = vehicleID
	b.StartTime = iv.Start
	b.EndTime = iv.End
	if in.Destination != nil {
		b.Destination = *in.Destination
	}
	if in.Notes != nil {
		b.Notes = in.Notes
	}
	if err = s.br.UpdateFields(ctx, tx, b); err != nil {
		return nil, err
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id, requesterID int64, isAdmin bool) error {
	b, err := s.br.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	if !isAdmin && b.UserID != requesterID {
		return makeErr(ErrNotOwner)
	}
	if b.Status != model.BookingPending {
		return makeErrf(ErrInvalidState, "only pending bookings can be deleted")
	}
	ok, err := s.br.DeletePending(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErrf(ErrInvalidState, "only pending bookings can be deleted")
	}
	return nil
}

// Approve moves a pending booking to approved after verifying the approved
// set for the vehicle stays conflict-free. Check and write share the vehicle
// row lock.
func (s *service) Approve(ctx context.Context, id int64) (out *model.Booking, err error) {
	b, err := s.br.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Vehicle lock first, booking row second, same order as Create/Update.
	if _, err = s.vr.LockForBooking(ctx, tx, b.VehicleID); err != nil {
		return nil, err
	}
	b, err = s.br.ByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	others, err := s.br.ListForVehicle(ctx, tx, b.VehicleID, ApprovedOnly)
	if err != nil {
		return nil, err
	}
	if err = ApproveCheck(*b, others); err != nil {
		return nil, err
	}

	ok, err := s.br.UpdateStatus(ctx, tx, id, model.BookingPending, model.BookingApproved)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErrf(ErrInvalidState, "cannot approve booking in status %s", b.Status)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	b.Status = model.BookingApproved
	return b, nil
}

func (s *service) Reject(ctx context.Context, id int64) (out *model.Booking, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	b, err := s.br.ByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if err = RejectCheck(*b); err != nil {
		return nil, err
	}

	ok, err := s.br.UpdateStatus(ctx, tx, id, model.BookingPending, model.BookingRejected)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErrf(ErrInvalidState, "cannot reject booking in status %s", b.Status)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	b.Status = model.BookingRejected
	return b, nil
}

func (s *service) Stats(ctx context.Context, userID int64) (*model.BookingStats, error) {
	now := s.clk.Now().In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	return s.br.Stats(ctx, userID, monthStart)
}

// AvailableSlots resolves the configured working window onto the given date
// and marks each slot against the vehicle's approved bookings.
func (s *service) AvailableSlots(ctx context.Context, vehicleID int64, date time.Time) ([]Slot, error) {
	if _, err := s.vr.ByID(ctx, vehicleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, makeErr(ErrVehicleNotFound)
		}
		return nil, err
	}

	window, err := s.resolveWindow(date)
	if err != nil {
		return nil, err
	}
	approved, err := s.br.ListByVehicle(ctx, vehicleID, ApprovedOnly)
	if err != nil {
		return nil, err
	}
	return GenerateSlots(approved, window, s.slotCfg.Duration, s.clk.Now()), nil
}

func (s *service) resolveWindow(date time.Time) (WorkingWindow, error) {
	start, err := time.ParseInLocation("15:04", s.slotCfg.WindowStart, s.loc)
	if err != nil {
		return WorkingWindow{}, err
	}
	end, err := time.ParseInLocation("15:04", s.slotCfg.WindowEnd, s.loc)
	if err != nil {
		return WorkingWindow{}, err
	}
	y, m, d := date.In(s.loc).Date()
	return WorkingWindow{
		Start: time.Date(y, m, d, start.Hour(), start.Minute(), 0, 0, s.loc),
		End:   time.Date(y, m, d, end.Hour(), end.Minute(), 0, 0, s.loc),
	}, nil
}

func (s *service) Schedule(ctx context.Context, start time.Time, days int) ([]ScheduleDay, error) {
	if days < 1 || days > 7 {
		return nil, makeErrf(ErrValidation, "days must be between 1 and 7")
	}
	y, m, d := start.In(s.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, days)

	bookings, err := s.br.ListOverlappingRange(ctx, from, to, BlockingStatuses)
	if err != nil {
		return nil, err
	}
	return BuildSchedule(bookings, from, days, s.clk.Now(), s.loc), nil
}

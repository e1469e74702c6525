package bookingsvc

import (
	"errors"
	"fmt"

	"github.com/sanohind/vecos-backend/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrInvalidState    ErrCode = "INVALID_STATE"
	ErrNotOwner        ErrCode = "NOT_OWNER"
	ErrVehicleNotFound ErrCode = "VEHICLE_NOT_FOUND"
	ErrVehicleInactive ErrCode = "VEHICLE_INACTIVE"
	ErrValidation      ErrCode = "VALIDATION"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode) error { return codedError{code: c} }

func makeErrf(c ErrCode, f string, a ...any) error {
	return codedError{code: c, msg: fmt.Sprintf(f, a...)}
}

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// ConflictError reports that a candidate interval overlaps existing bookings.
// The conflicting set is carried for caller display.
type ConflictError struct {
	Conflicts []model.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("interval conflicts with %d existing booking(s)", len(e.Conflicts))
}

// AsConflict unwraps err into a ConflictError, or nil.
func AsConflict(err error) *ConflictError {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

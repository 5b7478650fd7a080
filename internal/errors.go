package models

import "errors"

// Error classes. Handlers map these to status codes; the specific errors below unwrap to one of them.
var (
	ErrInvalidUUID     = errors.New("invalid uuid")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrPolicyViolation = errors.New("policy violation")
	ErrCapacity        = errors.New("capacity exceeded")
)

var (
	ErrTourNotFound         = newError(ErrNotFound, "tour not found")
	ErrTourNotBookable      = newError(ErrValidation, "tour is not open for booking")
	ErrBookingNotFound      = newError(ErrNotFound, "booking not found")
	ErrMissingTour          = newError(ErrValidation, "tour_id is required")
	ErrMissingDeparture     = newError(ErrValidation, "departure_date is required")
	ErrInvalidParticipants  = newError(ErrValidation, "at least one adult is required")
	ErrGuestContactRequired = newError(ErrValidation, "contact info is required for guest bookings")
	ErrInvalidStatus        = newError(ErrValidation, "invalid booking status")
	ErrInvalidPaymentStatus = newError(ErrValidation, "invalid payment status")
	ErrCapacityExceeded     = newError(ErrCapacity, "not enough capacity for the requested participants")
	ErrDuplicateReference   = newError(ErrConflict, "booking reference already exists")
	ErrAlreadyCancelled     = newError(ErrConflict, "booking is already cancelled")
	ErrInvalidTransition    = newError(ErrConflict, "booking status transition not allowed")
	ErrStatusChanged        = newError(ErrConflict, "booking status changed concurrently")
	ErrCancellationWindow   = newError(ErrPolicyViolation, "bookings cannot be cancelled less than 48 hours before departure")
	ErrBookingAccessDenied  = newError(ErrForbidden, "not allowed to access this booking")
	ErrTourAccessDenied     = newError(ErrForbidden, "not allowed to manage this tour")
	ErrInvalidCursor        = newError(ErrValidation, "invalid cursor")

	ErrInvalidKind         = newError(ErrValidation, "invalid entity kind")
	ErrEntityNotFound      = newError(ErrNotFound, "entity not found")
	ErrDuplicateEntityName = newError(ErrConflict, "an entity with this name already exists")
	ErrRejectionReason     = newError(ErrValidation, "rejection reason is required")
	ErrEntityRejected      = newError(ErrForbidden, "rejected entities cannot be activated")
	ErrEntityPending       = newError(ErrForbidden, "entity is pending approval")
	ErrPreferenceNotFound  = newError(ErrNotFound, "entity is not in the seller list")
	ErrAlreadyInList       = newError(ErrConflict, "entity is already in the seller list")
	ErrEntityNotApproved   = newError(ErrForbidden, "only approved entities can be added to a seller list")
	ErrEntityAccessDenied  = newError(ErrForbidden, "only the creator or an admin can edit this entity")
	ErrAdminOnly           = newError(ErrForbidden, "admin role required")
	ErrSellerOnly          = newError(ErrForbidden, "seller role required")

	ErrNotificationNotFound = newError(ErrNotFound, "notification not found")
)

// Error is a domain error that belongs to one of the error classes above.
type Error struct {
	class error
	msg   string
}

func newError(class error, msg string) *Error {
	return &Error{class: class, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.class
}

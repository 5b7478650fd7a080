package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"regexp"
	"time"
)

var referencePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{3,39}$`)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("valid_uuid", validateUUID)
	v.RegisterValidation("future_date", validateFutureDate)
	v.RegisterValidation("booking_status", validateBookingStatus)
	v.RegisterValidation("payment_status", validatePaymentStatus)
	v.RegisterValidation("booking_reference", validateBookingReference)

	return &CustomValidator{validator: v}
}

// Validate satisfies echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// validateFutureDate accepts today and later. A departure today is still bookable.
func validateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	y, m, d := time.Now().UTC().Date()
	return !date.UTC().Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return models.BookingStatus(fl.Field().String()).Valid()
}

func validatePaymentStatus(fl validator.FieldLevel) bool {
	return models.PaymentStatus(fl.Field().String()).Valid()
}

func validateBookingReference(fl validator.FieldLevel) bool {
	return referencePattern.MatchString(fl.Field().String())
}

func validateUUID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	_, err := uuid.Parse(id)
	return err == nil
}

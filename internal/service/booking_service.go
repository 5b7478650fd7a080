package service

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/samber/lo"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/clock"
	"github.com/sushilldhakal/tourmarket/internal/events"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"github.com/sushilldhakal/tourmarket/internal/metrics"
	"github.com/sushilldhakal/tourmarket/internal/ports"
	"github.com/sushilldhakal/tourmarket/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"strings"
	"time"
)

const (
	DefaultCancellationWindow = 48 * time.Hour
	defaultPageSize           = 10
	maxPageSize               = 100
)

type BookingOption func(*bookingService)

func WithClock(c clock.Clock) BookingOption {
	return func(s *bookingService) {
		s.clock = c
	}
}

func WithReferenceGenerator(gen ReferenceGenerator) BookingOption {
	return func(s *bookingService) {
		s.newReference = gen
	}
}

func WithCancellationWindow(d time.Duration) BookingOption {
	return func(s *bookingService) {
		s.cancellationWindow = d
	}
}

type bookingService struct {
	repo               ports.BookingRepository
	tours              ports.TourRepository
	publisher          ports.EventPublisher
	clock              clock.Clock
	newReference       ReferenceGenerator
	cancellationWindow time.Duration
}

func NewBookingService(repo ports.BookingRepository, tours ports.TourRepository, publisher ports.EventPublisher, opts ...BookingOption) *bookingService {
	s := &bookingService{
		repo:               repo,
		tours:              tours,
		publisher:          publisher,
		clock:              clock.NewSystem(),
		newReference:       NewReference,
		cancellationWindow: DefaultCancellationWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// dayWindow returns the UTC calendar day containing t as [start, end).
func dayWindow(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func (s *bookingService) CheckAvailability(ctx context.Context, tourID uuid.UUID, date time.Time) (*models.Availability, error) {
	tour, err := s.tours.GetTourByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	return s.availability(ctx, tour, date)
}

func (s *bookingService) availability(ctx context.Context, tour *models.Tour, date time.Time) (*models.Availability, error) {
	start, end := dayWindow(date)
	booked, err := s.repo.SumActiveParticipants(ctx, tour.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error checking availability: %w", err)
	}

	remaining := max(0, tour.Capacity()-booked)
	return &models.Availability{
		TourID:            tour.ID,
		Date:              start,
		MaxSize:           tour.Capacity(),
		Booked:            booked,
		RemainingCapacity: remaining,
		Available:         remaining > 0,
	}, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, actor models.Principal, request *models.BookingRequest) (*models.Booking, error) {
	ctx, span := tracing.StartSpan(ctx, "bookingService.CreateBooking")
	defer span.End()
	span.SetAttributes(attribute.String("tour_id", request.TourID.String()))

	if request.TourID == uuid.Nil {
		return nil, models.ErrMissingTour
	}
	if request.DepartureDate.IsZero() {
		return nil, models.ErrMissingDeparture
	}
	if request.Participants.Adults < 1 || request.Participants.Children < 0 || request.Participants.Infants < 0 {
		return nil, models.ErrInvalidParticipants
	}
	if actor.IsAnonymous() && request.Contact.IsZero() {
		return nil, models.ErrGuestContactRequired
	}

	tour, err := s.tours.GetTourByID(ctx, request.TourID)
	if err != nil {
		return nil, err
	}
	if tour.Status != models.TourStatusPublished {
		return nil, models.ErrTourNotBookable
	}

	// early answer for the common case; the repository re-checks under the tour lock
	avail, err := s.availability(ctx, tour, request.DepartureDate)
	if err != nil {
		return nil, err
	}
	if request.Participants.Counted() > avail.RemainingCapacity {
		metrics.CapacityRejections.Inc()
		return nil, models.ErrCapacityExceeded
	}

	now := s.clock.Now()
	booking := &models.Booking{
		ID:            uuid.New(),
		TourID:        tour.ID,
		DepartureDate: request.DepartureDate.UTC(),
		Participants:  request.Participants,
		Pricing:       priceSnapshot(tour, request),
		Contact:       request.Contact,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		Notes:         request.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !actor.IsAnonymous() {
		userID := actor.UserID
		booking.UserID = &userID
	}

	saved, err := s.insertWithReference(ctx, booking, strings.ToUpper(request.Reference))
	if err != nil {
		if errors.Is(err, models.ErrCapacityExceeded) {
			metrics.CapacityRejections.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	log.FromContext(ctx).WithField("booking_reference", saved.Reference).Info("Booking created")

	s.publish(ctx, events.BookingCreated{
		Header:        events.NewHeader(),
		BookingID:     saved.ID,
		Reference:     saved.Reference,
		TourID:        saved.TourID,
		UserID:        saved.UserID,
		DepartureDate: saved.DepartureDate,
		Participants:  saved.Participants.Counted(),
		TotalPrice:    saved.Pricing.TotalPrice,
		Currency:      saved.Pricing.Currency,
	})

	return saved, nil
}

// insertWithReference regenerates the reference when it collides, unless the caller chose it.
func (s *bookingService) insertWithReference(ctx context.Context, booking *models.Booking, reference string) (*models.Booking, error) {
	start, end := dayWindow(booking.DepartureDate)
	generated := reference == ""

	for attempt := 1; ; attempt++ {
		booking.Reference = reference
		if generated {
			booking.Reference = s.newReference(s.clock.Now())
		}

		saved, err := s.repo.CreateBooking(ctx, booking, start, end)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, models.ErrDuplicateReference) || !generated || attempt >= maxReferenceAttempts {
			return nil, err
		}

		metrics.ReferenceCollisions.Inc()
		log.FromContext(ctx).WithField("attempt", attempt).Warn("Booking reference collision, retrying")
	}
}

func priceSnapshot(tour *models.Tour, request *models.BookingRequest) models.Pricing {
	pricing := request.Pricing
	if pricing.PricePerPerson == 0 {
		pricing.PricePerPerson = tour.Price
	}
	if pricing.Currency == "" {
		pricing.Currency = tour.Currency
	}
	if pricing.TotalPrice == 0 {
		pricing.TotalPrice = pricing.PricePerPerson * float64(request.Participants.Counted())
	}
	return pricing
}

func (s *bookingService) GetBooking(ctx context.Context, actor models.Principal, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, booking, true); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, models.ErrBookingNotFound
	}
	return s.repo.GetBookingByReference(ctx, reference)
}

func (s *bookingService) AllBookings(ctx context.Context, actor models.Principal, req models.GetBookingsRequest) (*models.AllBookingsResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)

	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}

	bookings, nextCursor, err := s.repo.GetBookingsPaginated(ctx, scope, req.Cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings: %w", err)
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	return &models.AllBookingsResponse{
		Bookings: bookings,
		Limit:    limit,
		Cursor:   nextCursor,
	}, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, actor models.Principal, id uuid.UUID, status models.BookingStatus, notes string) (*models.Booking, error) {
	if !status.Valid() {
		return nil, models.ErrInvalidStatus
	}

	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, booking, false); err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(status) {
		return nil, models.ErrInvalidTransition
	}

	return s.transition(ctx, booking, status, notes)
}

func (s *bookingService) CancelBooking(ctx context.Context, actor models.Principal, id uuid.UUID, reason string) (*models.Booking, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, booking, true); err != nil {
		return nil, err
	}

	if booking.Status == models.StatusCancelled {
		return nil, models.ErrAlreadyCancelled
	}
	// applies to admins too
	if booking.DepartureDate.Sub(s.clock.Now()) < s.cancellationWindow {
		return nil, models.ErrCancellationWindow
	}
	if !booking.IsActive() {
		return nil, models.ErrInvalidTransition
	}

	return s.transition(ctx, booking, models.StatusCancelled, reason)
}

func (s *bookingService) transition(ctx context.Context, booking *models.Booking, status models.BookingStatus, notes string) (*models.Booking, error) {
	now := s.clock.Now()
	from := booking.Status

	booking.Status = status
	booking.UpdatedAt = now
	switch status {
	case models.StatusCancelled:
		booking.CancelledAt = &now
		booking.CancellationReason = notes
	case models.StatusConfirmed:
		booking.ConfirmedAt = &now
		fallthrough
	default:
		if notes != "" {
			booking.Notes = notes
		}
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, from, booking); err != nil {
		return nil, err
	}

	metrics.BookingTransitions.WithLabelValues(string(from), string(status)).Inc()
	log.FromContext(ctx).WithField("booking_reference", booking.Reference).
		Infof("Booking moved from %s to %s", from, status)

	s.publish(ctx, events.BookingStatusChanged{
		Header:    events.NewHeader(),
		BookingID: booking.ID,
		Reference: booking.Reference,
		UserID:    booking.UserID,
		From:      from,
		To:        status,
		Reason:    booking.CancellationReason,
	})

	return booking, nil
}

func (s *bookingService) UpdatePaymentStatus(ctx context.Context, actor models.Principal, id uuid.UUID, request *models.PaymentUpdateRequest) (*models.Booking, error) {
	if !request.PaymentStatus.Valid() {
		return nil, models.ErrInvalidPaymentStatus
	}

	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, booking, false); err != nil {
		return nil, err
	}

	return s.repo.UpdatePayment(ctx, id, request.PaymentStatus, request.PaidAmount, request.TransactionID)
}

func (s *bookingService) Stats(ctx context.Context, actor models.Principal) (*models.BookingStats, error) {
	scope, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.repo.GetStats(ctx, scope)
	if err != nil {
		return nil, err
	}
	if byStatus == nil {
		byStatus = []models.StatusStat{}
	}

	earning := lo.Filter(byStatus, func(st models.StatusStat, _ int) bool {
		return st.Status != models.StatusCancelled
	})
	return &models.BookingStats{
		TotalBookings: lo.SumBy(byStatus, func(st models.StatusStat) int { return st.Count }),
		TotalRevenue:  lo.SumBy(earning, func(st models.StatusStat) float64 { return st.Revenue }),
		ByStatus:      byStatus,
	}, nil
}

func (s *bookingService) CompletePastBookings(ctx context.Context) (int64, error) {
	completed, err := s.repo.CompleteDepartedBookings(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if len(completed) == 0 {
		return 0, nil
	}

	metrics.BookingTransitions.WithLabelValues(string(models.StatusConfirmed), string(models.StatusCompleted)).
		Add(float64(len(completed)))
	for _, booking := range completed {
		s.publish(ctx, events.BookingStatusChanged{
			Header:    events.NewHeader(),
			BookingID: booking.ID,
			Reference: booking.Reference,
			UserID:    booking.UserID,
			From:      models.StatusConfirmed,
			To:        models.StatusCompleted,
		})
	}
	return int64(len(completed)), nil
}

// authorize lets admins and the seller of the tour through. With ownerAllowed the booking's own user
// is accepted as well.
func (s *bookingService) authorize(ctx context.Context, actor models.Principal, booking *models.Booking, ownerAllowed bool) error {
	if actor.IsAnonymous() {
		return models.ErrUnauthorized
	}
	if actor.IsAdmin() {
		return nil
	}
	if ownerAllowed && !booking.IsGuest() && *booking.UserID == actor.UserID {
		return nil
	}
	if actor.IsSeller() {
		tour, err := s.tours.GetTourByID(ctx, booking.TourID)
		if err != nil {
			return err
		}
		if tour.SellerID == actor.UserID {
			return nil
		}
	}
	return models.ErrBookingAccessDenied
}

func scopeFor(actor models.Principal) (models.BookingScope, error) {
	switch {
	case actor.IsAnonymous():
		return models.BookingScope{}, models.ErrUnauthorized
	case actor.IsAdmin():
		return models.BookingScope{}, nil
	case actor.IsSeller():
		sellerID := actor.UserID
		return models.BookingScope{SellerID: &sellerID}, nil
	default:
		userID := actor.UserID
		return models.BookingScope{UserID: &userID}, nil
	}
}

func (s *bookingService) publish(ctx context.Context, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.FromContext(ctx).WithError(err).Warnf("Could not publish %T", event)
	}
}

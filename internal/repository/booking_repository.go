package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/utils"
	"strings"
	"time"
)

const bookingColumns = `
            B.id, B.booking_reference, B.tour_id, B.user_id, B.departure_date,
            B.adults, B.children, B.infants,
            B.price_per_person, B.total_price, B.currency,
            B.contact_full_name, B.contact_email, B.contact_phone, B.contact_country,
            B.status, B.payment_status, B.paid_amount,
            COALESCE(B.transaction_id, ''), COALESCE(B.notes, ''), COALESCE(B.cancellation_reason, ''),
            B.confirmed_at, B.cancelled_at, B.created_at, B.updated_at`

type BookingRepository struct {
	db DBConn
}

func NewBookingRepository(db DBConn) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking, dayStart, dayEnd time.Time) (*models.Booking, error) {
	err := withTx(ctx, r.db, func(txCtx context.Context) error {
		q := conn(txCtx, r.db)

		// the row lock serializes concurrent bookings for the same tour until commit
		var tour models.Tour
		err := q.QueryRow(txCtx, `SELECT id, max_size FROM tours WHERE id = $1 FOR UPDATE`, booking.TourID).
			Scan(&tour.ID, &tour.MaxSize)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrTourNotFound
			}
			return fmt.Errorf("lock tour: %w", err)
		}

		booked, err := r.sumActive(txCtx, q, booking.TourID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if booking.Participants.Counted() > tour.Capacity()-booked {
			return models.ErrCapacityExceeded
		}

		return r.createBookingTx(txCtx, q, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) SumActiveParticipants(ctx context.Context, tourID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	return r.sumActive(ctx, conn(ctx, r.db), tourID, dayStart, dayEnd)
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + `
        FROM bookings B
        WHERE B.id = $1`
	return r.getOne(ctx, query, id)
}

func (r *BookingRepository) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	query := `SELECT` + bookingColumns + `
        FROM bookings B
        WHERE B.booking_reference = $1`
	return r.getOne(ctx, query, strings.ToUpper(reference))
}

func (r *BookingRepository) GetBookingsPaginated(ctx context.Context, scope models.BookingScope, afterCursor string, limit int) ([]models.Booking, string, error) {
	query := `SELECT` + bookingColumns + `
        FROM bookings B`
	var args []interface{}
	conditions, args := scopeConditions(scope, args)

	if afterCursor != "" {
		afterTime, afterUUID, err := utils.DecodeCursor(afterCursor)
		if err != nil {
			return nil, "", models.ErrInvalidCursor
		}
		args = append(args, afterTime, afterUUID)
		conditions = append(conditions, fmt.Sprintf("(B.created_at, B.id) > ($%d, $%d)", len(args)-1, len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY B.created_at, B.id"
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, "", err
		}
		bookings = append(bookings, *booking)
	}
	if err = rows.Err(); err != nil {
		return nil, "", err
	}

	var nextCursor string
	if len(bookings) == limit {
		last := bookings[len(bookings)-1]
		nextCursor = utils.EncodeCursor(last.CreatedAt, last.ID)
	}

	return bookings, nextCursor, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from models.BookingStatus, booking *models.Booking) error {
	query := `
        UPDATE bookings
        SET status = $3, notes = $4, cancellation_reason = $5,
            confirmed_at = $6, cancelled_at = $7, updated_at = $8
        WHERE id = $1 AND status = $2
    `
	tag, err := conn(ctx, r.db).Exec(ctx, query,
		id, from, booking.Status, nullIfEmpty(booking.Notes), nullIfEmpty(booking.CancellationReason),
		booking.ConfirmedAt, booking.CancelledAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrStatusChanged
	}
	return nil
}

func (r *BookingRepository) UpdatePayment(ctx context.Context, id uuid.UUID, status models.PaymentStatus, paidAmount *float64, transactionID *string) (*models.Booking, error) {
	query := `
        UPDATE bookings B
        SET payment_status = $2,
            paid_amount = COALESCE($3, B.paid_amount),
            transaction_id = COALESCE($4, B.transaction_id),
            updated_at = NOW()
        WHERE B.id = $1
        RETURNING` + bookingColumns
	return r.getOne(ctx, query, id, status, paidAmount, transactionID)
}

func (r *BookingRepository) GetStats(ctx context.Context, scope models.BookingScope) ([]models.StatusStat, error) {
	query := `
        SELECT B.status, COUNT(*), COALESCE(SUM(B.total_price), 0)
        FROM bookings B`
	conditions, args := scopeConditions(scope, nil)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " GROUP BY B.status ORDER BY B.status"

	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	defer rows.Close()

	var stats []models.StatusStat
	for rows.Next() {
		var s models.StatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.Revenue); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// CompleteDepartedBookings moves confirmed bookings that departed before the cutoff to completed and
// returns them.
func (r *BookingRepository) CompleteDepartedBookings(ctx context.Context, before time.Time) ([]models.Booking, error) {
	query := `
        UPDATE bookings B
        SET status = 'completed', updated_at = $2
        WHERE B.status = 'confirmed' AND B.departure_date < $1
        RETURNING` + bookingColumns
	rows, err := conn(ctx, r.db).Query(ctx, query, before, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("complete departed bookings: %w", err)
	}
	defer rows.Close()

	var completed []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		completed = append(completed, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("complete departed bookings: %w", err)
	}
	return completed, nil
}

func (r *BookingRepository) sumActive(ctx context.Context, q querier, tourID uuid.UUID, dayStart, dayEnd time.Time) (int, error) {
	query := `
        SELECT COALESCE(SUM(adults + children), 0)
        FROM bookings
        WHERE tour_id = $1
          AND departure_date >= $2 AND departure_date < $3
          AND status IN ('pending', 'confirmed')
    `
	var total int
	if err := q.QueryRow(ctx, query, tourID, dayStart, dayEnd).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum active participants: %w", err)
	}
	return total, nil
}

func (r *BookingRepository) createBookingTx(ctx context.Context, q querier, b *models.Booking) error {
	query := `
        INSERT INTO bookings (
            id, booking_reference, tour_id, user_id, departure_date,
            adults, children, infants,
            price_per_person, total_price, currency,
            contact_full_name, contact_email, contact_phone, contact_country,
            status, payment_status, paid_amount, notes, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
    `
	_, err := q.Exec(ctx, query,
		b.ID, b.Reference, b.TourID, b.UserID, b.DepartureDate,
		b.Participants.Adults, b.Participants.Children, b.Participants.Infants,
		b.Pricing.PricePerPerson, b.Pricing.TotalPrice, b.Pricing.Currency,
		b.Contact.FullName, b.Contact.Email, b.Contact.Phone, b.Contact.Country,
		b.Status, b.PaymentStatus, b.PaidAmount, nullIfEmpty(b.Notes), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "bookings_reference_key") {
			return models.ErrDuplicateReference
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.Booking, error) {
	booking, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		if isInvalidUUID(err) {
			return nil, models.ErrInvalidUUID
		}
		return nil, err
	}
	return booking, nil
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.Reference, &b.TourID, &b.UserID, &b.DepartureDate,
		&b.Participants.Adults, &b.Participants.Children, &b.Participants.Infants,
		&b.Pricing.PricePerPerson, &b.Pricing.TotalPrice, &b.Pricing.Currency,
		&b.Contact.FullName, &b.Contact.Email, &b.Contact.Phone, &b.Contact.Country,
		&b.Status, &b.PaymentStatus, &b.PaidAmount,
		&b.TransactionID, &b.Notes, &b.CancellationReason,
		&b.ConfirmedAt, &b.CancelledAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scopeConditions(scope models.BookingScope, args []interface{}) ([]string, []interface{}) {
	var conditions []string
	if scope.UserID != nil {
		args = append(args, *scope.UserID)
		conditions = append(conditions, fmt.Sprintf("B.user_id = $%d", len(args)))
	}
	if scope.SellerID != nil {
		args = append(args, *scope.SellerID)
		conditions = append(conditions, fmt.Sprintf("B.tour_id IN (SELECT id FROM tours WHERE seller_id = $%d)", len(args)))
	}
	return conditions, args
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

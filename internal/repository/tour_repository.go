package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	models "github.com/sushilldhakal/tourmarket/internal"
	"time"
)

type TourRepository struct {
	db DBConn
}

func NewTourRepository(db DBConn) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) CreateTour(ctx context.Context, tour *models.Tour) (*models.Tour, error) {
	if tour.ID == uuid.Nil {
		tour.ID = uuid.New()
	}
	query := `
        INSERT INTO tours (id, seller_id, title, description, price, currency, max_size, min_size, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := conn(ctx, r.db).Exec(ctx, query,
		tour.ID, tour.SellerID, tour.Title, tour.Description, tour.Price, tour.Currency,
		tour.MaxSize, tour.MinSize, tour.Status, tour.CreatedAt, tour.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert tour: %w", err)
	}
	return tour, nil
}

func (r *TourRepository) GetTourByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	query := `
        SELECT id, seller_id, title, description, price, currency, max_size, min_size, status, created_at, updated_at
        FROM tours
        WHERE id = $1
    `
	var t models.Tour
	err := conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&t.ID, &t.SellerID, &t.Title, &t.Description, &t.Price, &t.Currency,
		&t.MaxSize, &t.MinSize, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTourNotFound
		}
		return nil, fmt.Errorf("get tour: %w", err)
	}
	return &t, nil
}

func (r *TourRepository) UpdateTourStatus(ctx context.Context, id uuid.UUID, status models.TourStatus) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE tours SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update tour status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrTourNotFound
	}
	return nil
}

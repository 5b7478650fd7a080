package service

import (
	"context"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/clock"
	"github.com/sushilldhakal/tourmarket/internal/ports"
	"strings"
)

type tourService struct {
	repo  ports.TourRepository
	clock clock.Clock
}

func NewTourService(repo ports.TourRepository, c clock.Clock) *tourService {
	return &tourService{repo: repo, clock: c}
}

func (s *tourService) CreateTour(ctx context.Context, actor models.Principal, request *models.TourRequest) (*models.Tour, error) {
	if !actor.IsSeller() && !actor.IsAdmin() {
		return nil, models.ErrSellerOnly
	}

	currency := strings.ToUpper(request.Currency)
	if currency == "" {
		currency = "USD"
	}
	now := s.clock.Now()
	return s.repo.CreateTour(ctx, &models.Tour{
		ID:          uuid.New(),
		SellerID:    actor.UserID,
		Title:       strings.TrimSpace(request.Title),
		Description: request.Description,
		Price:       request.Price,
		Currency:    currency,
		MaxSize:     request.MaxSize,
		MinSize:     request.MinSize,
		Status:      models.TourStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *tourService) GetTour(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	return s.repo.GetTourByID(ctx, id)
}

func (s *tourService) PublishTour(ctx context.Context, actor models.Principal, id uuid.UUID) (*models.Tour, error) {
	tour, err := s.repo.GetTourByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && tour.SellerID != actor.UserID {
		return nil, models.ErrTourAccessDenied
	}
	if tour.Status == models.TourStatusPublished {
		return tour, nil
	}

	if err := s.repo.UpdateTourStatus(ctx, id, models.TourStatusPublished); err != nil {
		return nil, err
	}
	tour.Status = models.TourStatusPublished
	tour.UpdatedAt = s.clock.Now()
	return tour, nil
}

package service

import (
	"context"
	"errors"
	"github.com/google/uuid"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/clock"
	"github.com/sushilldhakal/tourmarket/internal/events"
	"github.com/sushilldhakal/tourmarket/internal/log"
	"github.com/sushilldhakal/tourmarket/internal/metrics"
	"github.com/sushilldhakal/tourmarket/internal/ports"
	"reflect"
	"strings"
	"unicode"
)

// approvalService runs the review workflow shared by categories and destinations. Every operation
// takes the entity kind and only touches records of that kind.
type approvalService struct {
	repo      ports.ApprovalRepository
	publisher ports.EventPublisher
	clock     clock.Clock
}

func NewApprovalService(repo ports.ApprovalRepository, publisher ports.EventPublisher, c clock.Clock) *approvalService {
	return &approvalService{repo: repo, publisher: publisher, clock: c}
}

func (s *approvalService) Submit(ctx context.Context, actor models.Principal, kind models.EntityKind, request *models.EntityRequest) (*models.GlobalEntity, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}
	if actor.IsAnonymous() {
		return nil, models.ErrUnauthorized
	}
	if !actor.IsSeller() && !actor.IsAdmin() {
		return nil, models.ErrSellerOnly
	}

	now := s.clock.Now()
	entity := &models.GlobalEntity{
		ID:   uuid.New(),
		Kind: kind,
		EntityContent: models.EntityContent{
			Name:        strings.TrimSpace(request.Name),
			Description: request.Description,
			ImageURL:    request.ImageURL,
			Details:     request.Details,
		},
		CreatedBy:      actor.UserID,
		ApprovalStatus: models.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	entity.Slug = slugify(entity.Name)

	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateEntity(ctx, entity); err != nil {
			return err
		}
		return s.repo.UpsertPreference(ctx, &models.SellerPreference{
			SellerID:       actor.UserID,
			EntityID:       entity.ID,
			Kind:           kind,
			IsActive:       false,
			IsApproved:     false,
			ApprovalStatus: models.ApprovalPending,
			IsVisible:      true,
			AddedAt:        now,
			UpdatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).WithField("kind", kind).WithField("entity_id", entity.ID).Info("Entity submitted for review")
	return entity, nil
}

// Update edits an entity's content. A content change sends it back to pending; toggling
// only the activation flag does not.
func (s *approvalService) Update(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, request *models.EntityUpdateRequest) (*models.GlobalEntity, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}

	var updated *models.GlobalEntity
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetEntity(ctx, kind, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && entity.CreatedBy != actor.UserID {
			return models.ErrEntityAccessDenied
		}

		content := applyContent(entity.EntityContent, request)
		contentChanged := !reflect.DeepEqual(content, entity.EntityContent)

		entity.EntityContent = content
		entity.Slug = slugify(content.Name)
		entity.UpdatedAt = s.clock.Now()

		// seller edits go back to review, admin edits keep the current decision
		resetToPending := contentChanged && !actor.IsAdmin() && entity.ApprovalStatus != models.ApprovalPending
		if resetToPending {
			entity.ApprovalStatus = models.ApprovalPending
			entity.ApprovedBy, entity.ApprovedAt = nil, nil
			entity.RejectedBy, entity.RejectedAt = nil, nil
			entity.RejectionReason = ""
		}

		if request.IsActive != nil {
			if *request.IsActive && !entity.IsActive {
				if err := canActivate(actor, entity); err != nil {
					return err
				}
			}
			entity.IsActive = *request.IsActive
		}

		if err := s.repo.UpdateEntity(ctx, entity); err != nil {
			return err
		}
		if resetToPending {
			if err := s.repo.SyncPreferences(ctx, entity.ID, models.ApprovalPending); err != nil {
				return err
			}
		}
		updated = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyContent(content models.EntityContent, request *models.EntityUpdateRequest) models.EntityContent {
	if request.Name != nil {
		content.Name = strings.TrimSpace(*request.Name)
	}
	if request.Description != nil {
		content.Description = *request.Description
	}
	if request.ImageURL != nil {
		content.ImageURL = *request.ImageURL
	}
	if request.Details != nil {
		content.Details = *request.Details
	}
	return content
}

func (s *approvalService) Approve(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error) {
	return s.review(ctx, actor, kind, id, models.ApprovalApproved, "")
}

func (s *approvalService) Reject(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, reason string) (*models.GlobalEntity, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.ErrRejectionReason
	}
	return s.review(ctx, actor, kind, id, models.ApprovalRejected, reason)
}

func (s *approvalService) review(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, outcome models.ApprovalStatus, reason string) (*models.GlobalEntity, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}
	if !actor.IsAdmin() {
		return nil, models.ErrAdminOnly
	}

	var reviewed *models.GlobalEntity
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetEntity(ctx, kind, id)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		reviewer := actor.UserID
		entity.ApprovalStatus = outcome
		entity.UpdatedAt = now
		if outcome == models.ApprovalApproved {
			entity.ApprovedBy, entity.ApprovedAt = &reviewer, &now
			entity.RejectedBy, entity.RejectedAt = nil, nil
			entity.RejectionReason = ""
			entity.IsActive = true
		} else {
			entity.RejectedBy, entity.RejectedAt = &reviewer, &now
			entity.RejectionReason = reason
			entity.ApprovedBy, entity.ApprovedAt = nil, nil
			entity.IsActive = false
		}

		if err := s.repo.UpdateEntity(ctx, entity); err != nil {
			return err
		}
		if err := s.repo.SyncPreferences(ctx, entity.ID, outcome); err != nil {
			return err
		}
		if outcome == models.ApprovalApproved {
			// the creator's own list entry goes live with the approval
			if err := s.repo.UpsertPreference(ctx, &models.SellerPreference{
				SellerID:       entity.CreatedBy,
				EntityID:       entity.ID,
				Kind:           kind,
				IsActive:       true,
				IsApproved:     true,
				ApprovalStatus: models.ApprovalApproved,
				IsVisible:      true,
				AddedAt:        now,
				UpdatedAt:      now,
			}); err != nil {
				return err
			}
		}
		reviewed = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.EntityReviews.WithLabelValues(string(kind), string(outcome)).Inc()
	log.FromContext(ctx).WithField("kind", kind).WithField("entity_id", id).Infof("Entity %s", outcome)

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, events.EntityReviewed{
			Header:     events.NewHeader(),
			EntityID:   reviewed.ID,
			Kind:       kind,
			Name:       reviewed.Name,
			CreatedBy:  reviewed.CreatedBy,
			ReviewedBy: actor.UserID,
			Outcome:    outcome,
			Reason:     reason,
		})
		if err != nil {
			log.FromContext(ctx).WithError(err).Warn("Could not publish review event")
		}
	}

	return reviewed, nil
}

// ToggleActive flips the seller's activation flag for an entity in their list.
func (s *approvalService) ToggleActive(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}
	if actor.IsAnonymous() {
		return nil, models.ErrUnauthorized
	}

	var pref *models.SellerPreference
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetEntity(ctx, kind, id)
		if err != nil {
			return err
		}
		pref, err = s.repo.GetPreference(ctx, actor.UserID, id)
		if err != nil {
			return err
		}

		activate := !pref.IsActive
		if activate {
			if err := canActivate(actor, entity); err != nil {
				return err
			}
		}

		pref.IsActive = activate
		pref.ApprovalStatus = entity.ApprovalStatus
		pref.IsApproved = entity.ApprovalStatus == models.ApprovalApproved
		pref.UpdatedAt = s.clock.Now()
		return s.repo.UpsertPreference(ctx, pref)
	})
	if err != nil {
		return nil, err
	}
	return pref, nil
}

func canActivate(actor models.Principal, entity *models.GlobalEntity) error {
	switch entity.ApprovalStatus {
	case models.ApprovalApproved:
		return nil
	case models.ApprovalPending:
		if entity.CreatedBy == actor.UserID {
			return nil
		}
		return models.ErrEntityPending
	default:
		return models.ErrEntityRejected
	}
}

func (s *approvalService) AddToSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}
	if !actor.IsSeller() && !actor.IsAdmin() {
		return nil, models.ErrSellerOnly
	}

	var pref *models.SellerPreference
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetEntity(ctx, kind, id)
		if err != nil {
			return err
		}
		if entity.ApprovalStatus != models.ApprovalApproved {
			return models.ErrEntityNotApproved
		}

		now := s.clock.Now()
		existing, err := s.repo.GetPreference(ctx, actor.UserID, id)
		switch {
		case err == nil && existing.IsVisible:
			return models.ErrAlreadyInList
		case err == nil:
			pref = existing
			pref.IsVisible = true
		case errors.Is(err, models.ErrPreferenceNotFound):
			pref = &models.SellerPreference{
				SellerID: actor.UserID,
				EntityID: id,
				Kind:     kind,
				AddedAt:  now,
			}
			pref.IsVisible = true
			pref.IsActive = true
		default:
			return err
		}

		pref.IsApproved = true
		pref.ApprovalStatus = models.ApprovalApproved
		pref.UpdatedAt = now
		return s.repo.UpsertPreference(ctx, pref)
	})
	if err != nil {
		return nil, err
	}
	return pref, nil
}

// RemoveFromSellerList drops an entity from the seller's list. A creator removing their own approved
// entity only hides it. An unapproved one is deleted outright.
func (s *approvalService) RemoveFromSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) error {
	if !kind.Valid() {
		return models.ErrInvalidKind
	}
	if actor.IsAnonymous() {
		return models.ErrUnauthorized
	}

	return s.repo.WithTx(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetEntity(ctx, kind, id)
		if err != nil {
			return err
		}
		pref, err := s.repo.GetPreference(ctx, actor.UserID, id)
		if err != nil {
			return err
		}

		if entity.CreatedBy != actor.UserID {
			return s.repo.DeletePreference(ctx, actor.UserID, id)
		}
		if entity.ApprovalStatus == models.ApprovalApproved {
			pref.IsVisible = false
			pref.IsActive = false
			pref.UpdatedAt = s.clock.Now()
			return s.repo.UpsertPreference(ctx, pref)
		}
		// preferences go with it through the cascade
		return s.repo.DeleteEntity(ctx, kind, id)
	})
}

func (s *approvalService) Get(ctx context.Context, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}
	return s.repo.GetEntity(ctx, kind, id)
}

func (s *approvalService) ListByStatus(ctx context.Context, kind models.EntityKind, status models.ApprovalStatus) ([]models.GlobalEntity, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}
	return s.repo.ListEntities(ctx, kind, status)
}

func (s *approvalService) ListSellerEntities(ctx context.Context, actor models.Principal, kind models.EntityKind) ([]models.SellerEntity, error) {
	if !kind.Valid() {
		return nil, models.ErrInvalidKind
	}
	if actor.IsAnonymous() {
		return nil, models.ErrUnauthorized
	}
	return s.repo.ListSellerEntities(ctx, kind, actor.UserID)
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

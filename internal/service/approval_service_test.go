package service_test

import (
	"context"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	models "github.com/sushilldhakal/tourmarket/internal"
	"github.com/sushilldhakal/tourmarket/internal/clock"
	"github.com/sushilldhakal/tourmarket/internal/events"
	"github.com/sushilldhakal/tourmarket/internal/mocks"
	"github.com/sushilldhakal/tourmarket/internal/service"
	"sort"
	"testing"
)

type prefKey struct {
	seller uuid.UUID
	entity uuid.UUID
}

// memoryApprovalRepository keeps entities and preferences in maps. Transactions run inline.
type memoryApprovalRepository struct {
	entities    map[uuid.UUID]models.GlobalEntity
	preferences map[prefKey]models.SellerPreference
}

func newMemoryApprovalRepository() *memoryApprovalRepository {
	return &memoryApprovalRepository{
		entities:    map[uuid.UUID]models.GlobalEntity{},
		preferences: map[prefKey]models.SellerPreference{},
	}
}

func (r *memoryApprovalRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *memoryApprovalRepository) CreateEntity(_ context.Context, e *models.GlobalEntity) error {
	for _, existing := range r.entities {
		if existing.Kind == e.Kind && existing.Name == e.Name {
			return models.ErrDuplicateEntityName
		}
	}
	r.entities[e.ID] = *e
	return nil
}

func (r *memoryApprovalRepository) GetEntity(_ context.Context, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error) {
	e, ok := r.entities[id]
	if !ok || e.Kind != kind {
		return nil, models.ErrEntityNotFound
	}
	return &e, nil
}

func (r *memoryApprovalRepository) UpdateEntity(_ context.Context, e *models.GlobalEntity) error {
	if _, ok := r.entities[e.ID]; !ok {
		return models.ErrEntityNotFound
	}
	r.entities[e.ID] = *e
	return nil
}

func (r *memoryApprovalRepository) DeleteEntity(_ context.Context, kind models.EntityKind, id uuid.UUID) error {
	if _, err := r.GetEntity(context.Background(), kind, id); err != nil {
		return err
	}
	delete(r.entities, id)
	for k := range r.preferences {
		if k.entity == id {
			delete(r.preferences, k)
		}
	}
	return nil
}

func (r *memoryApprovalRepository) ListEntities(_ context.Context, kind models.EntityKind, status models.ApprovalStatus) ([]models.GlobalEntity, error) {
	list := lo.Filter(lo.Values(r.entities), func(e models.GlobalEntity, _ int) bool {
		return e.Kind == kind && e.ApprovalStatus == status
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *memoryApprovalRepository) GetPreference(_ context.Context, sellerID, entityID uuid.UUID) (*models.SellerPreference, error) {
	p, ok := r.preferences[prefKey{sellerID, entityID}]
	if !ok {
		return nil, models.ErrPreferenceNotFound
	}
	return &p, nil
}

func (r *memoryApprovalRepository) UpsertPreference(_ context.Context, p *models.SellerPreference) error {
	key := prefKey{p.SellerID, p.EntityID}
	if existing, ok := r.preferences[key]; ok {
		p.AddedAt = existing.AddedAt
	}
	r.preferences[key] = *p
	return nil
}

func (r *memoryApprovalRepository) DeletePreference(_ context.Context, sellerID, entityID uuid.UUID) error {
	key := prefKey{sellerID, entityID}
	if _, ok := r.preferences[key]; !ok {
		return models.ErrPreferenceNotFound
	}
	delete(r.preferences, key)
	return nil
}

func (r *memoryApprovalRepository) SyncPreferences(_ context.Context, entityID uuid.UUID, status models.ApprovalStatus) error {
	for k, p := range r.preferences {
		if k.entity != entityID {
			continue
		}
		p.ApprovalStatus = status
		p.IsApproved = status == models.ApprovalApproved
		if !p.IsApproved {
			p.IsActive = false
		}
		r.preferences[k] = p
	}
	return nil
}

func (r *memoryApprovalRepository) ListSellerEntities(_ context.Context, kind models.EntityKind, sellerID uuid.UUID) ([]models.SellerEntity, error) {
	var result []models.SellerEntity
	for k, p := range r.preferences {
		e, ok := r.entities[k.entity]
		if k.seller != sellerID || !p.IsVisible || !ok || e.Kind != kind {
			continue
		}
		result = append(result, models.SellerEntity{GlobalEntity: e, Preference: p})
	}
	return result, nil
}

type approvalFixture struct {
	repo      *memoryApprovalRepository
	publisher *mocks.MockEventPublisher
	svc       interface {
		Submit(ctx context.Context, actor models.Principal, kind models.EntityKind, request *models.EntityRequest) (*models.GlobalEntity, error)
		Update(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, request *models.EntityUpdateRequest) (*models.GlobalEntity, error)
		Approve(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error)
		Reject(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID, reason string) (*models.GlobalEntity, error)
		ToggleActive(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error)
		AddToSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) (*models.SellerPreference, error)
		RemoveFromSellerList(ctx context.Context, actor models.Principal, kind models.EntityKind, id uuid.UUID) error
		Get(ctx context.Context, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error)
		ListByStatus(ctx context.Context, kind models.EntityKind, status models.ApprovalStatus) ([]models.GlobalEntity, error)
		ListSellerEntities(ctx context.Context, actor models.Principal, kind models.EntityKind) ([]models.SellerEntity, error)
	}
}

func newApprovalFixture() approvalFixture {
	repo := newMemoryApprovalRepository()
	publisher := new(mocks.MockEventPublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return approvalFixture{
		repo:      repo,
		publisher: publisher,
		svc:       service.NewApprovalService(repo, publisher, clock.NewFixed(now)),
	}
}

var (
	admin   = models.Principal{UserID: uuid.New(), Role: models.RoleAdmin}
	creator = models.Principal{UserID: uuid.New(), Role: models.RoleSeller}
	other   = models.Principal{UserID: uuid.New(), Role: models.RoleSeller}
)

func (f approvalFixture) submit(t *testing.T, kind models.EntityKind, name string) *models.GlobalEntity {
	t.Helper()
	e, err := f.svc.Submit(context.Background(), creator, kind, &models.EntityRequest{Name: name, Description: "High altitude"})
	require.NoError(t, err)
	return e
}

func (f approvalFixture) approved(t *testing.T, kind models.EntityKind, name string) *models.GlobalEntity {
	t.Helper()
	e := f.submit(t, kind, name)
	e, err := f.svc.Approve(context.Background(), admin, kind, e.ID)
	require.NoError(t, err)
	return e
}

func TestSubmitEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Seller submission starts pending with an inactive list entry", func(t *testing.T) {
		f := newApprovalFixture()

		e, err := f.svc.Submit(ctx, creator, models.KindDestination, &models.EntityRequest{Name: "  Everest Region "})

		require.NoError(t, err)
		assert.Equal(t, "Everest Region", e.Name)
		assert.Equal(t, "everest-region", e.Slug)
		assert.Equal(t, models.ApprovalPending, e.ApprovalStatus)
		assert.False(t, e.IsActive)
		assert.Equal(t, creator.UserID, e.CreatedBy)

		pref := f.repo.preferences[prefKey{creator.UserID, e.ID}]
		assert.True(t, pref.IsVisible)
		assert.False(t, pref.IsActive)
		assert.Equal(t, models.ApprovalPending, pref.ApprovalStatus)
	})

	t.Run("Customers cannot submit", func(t *testing.T) {
		f := newApprovalFixture()

		_, err := f.svc.Submit(ctx, models.Principal{UserID: uuid.New(), Role: models.RoleUser}, models.KindCategory, &models.EntityRequest{Name: "Trekking"})

		assert.ErrorIs(t, err, models.ErrSellerOnly)
	})

	t.Run("Duplicate name within a kind", func(t *testing.T) {
		f := newApprovalFixture()
		f.submit(t, models.KindCategory, "Trekking")

		_, err := f.svc.Submit(ctx, other, models.KindCategory, &models.EntityRequest{Name: "Trekking"})

		assert.ErrorIs(t, err, models.ErrDuplicateEntityName)
	})

	t.Run("Same name in another kind is fine", func(t *testing.T) {
		f := newApprovalFixture()
		f.submit(t, models.KindCategory, "Pokhara")

		_, err := f.svc.Submit(ctx, creator, models.KindDestination, &models.EntityRequest{Name: "Pokhara"})

		assert.NoError(t, err)
	})

	t.Run("Unknown kind", func(t *testing.T) {
		f := newApprovalFixture()

		_, err := f.svc.Submit(ctx, creator, "activity", &models.EntityRequest{Name: "Rafting"})

		assert.ErrorIs(t, err, models.ErrInvalidKind)
	})
}

func TestReviewEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Approval activates the creator's entry and notifies", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")

		approved, err := f.svc.Approve(ctx, admin, models.KindCategory, e.ID)

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalApproved, approved.ApprovalStatus)
		assert.True(t, approved.IsActive)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, admin.UserID, *approved.ApprovedBy)
		assert.Equal(t, now, *approved.ApprovedAt)

		pref := f.repo.preferences[prefKey{creator.UserID, e.ID}]
		assert.True(t, pref.IsActive)
		assert.True(t, pref.IsApproved)
		assert.Equal(t, models.ApprovalApproved, pref.ApprovalStatus)

		f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(ev events.EntityReviewed) bool {
			return ev.EntityID == e.ID && ev.Outcome == models.ApprovalApproved && ev.CreatedBy == creator.UserID
		}))
	})

	t.Run("Rejection requires a reason", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")

		_, err := f.svc.Reject(ctx, admin, models.KindCategory, e.ID, "   ")

		assert.ErrorIs(t, err, models.ErrRejectionReason)
	})

	t.Run("Rejection deactivates every seller entry", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindCategory, "Trekking")
		_, err := f.svc.AddToSellerList(ctx, other, models.KindCategory, e.ID)
		require.NoError(t, err)

		rejected, err := f.svc.Reject(ctx, admin, models.KindCategory, e.ID, "duplicate of Hiking")

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalRejected, rejected.ApprovalStatus)
		assert.Equal(t, "duplicate of Hiking", rejected.RejectionReason)
		assert.Nil(t, rejected.ApprovedBy)
		assert.False(t, rejected.IsActive)
		for _, p := range f.repo.preferences {
			assert.False(t, p.IsActive)
			assert.False(t, p.IsApproved)
			assert.Equal(t, models.ApprovalRejected, p.ApprovalStatus)
		}
	})

	t.Run("Only admins review", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")

		_, err := f.svc.Approve(ctx, creator, models.KindCategory, e.ID)

		assert.ErrorIs(t, err, models.ErrAdminOnly)
	})

	t.Run("Kind mismatch is not found", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")

		_, err := f.svc.Approve(ctx, admin, models.KindDestination, e.ID)

		assert.ErrorIs(t, err, models.ErrEntityNotFound)
	})
}

func TestUpdateEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Content change sends an approved entity back to review", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindDestination, "Everest")
		_, err := f.svc.AddToSellerList(ctx, other, models.KindDestination, e.ID)
		require.NoError(t, err)
		name := "Everest Base Camp"

		updated, err := f.svc.Update(ctx, creator, models.KindDestination, e.ID, &models.EntityUpdateRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalPending, updated.ApprovalStatus)
		assert.Equal(t, "everest-base-camp", updated.Slug)
		assert.Nil(t, updated.ApprovedBy)
		assert.Nil(t, updated.ApprovedAt)
		for _, p := range f.repo.preferences {
			assert.Equal(t, models.ApprovalPending, p.ApprovalStatus)
			assert.False(t, p.IsActive)
		}
	})

	t.Run("Unchanged content keeps the approval", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindDestination, "Everest")
		name := "Everest"
		active := false

		updated, err := f.svc.Update(ctx, creator, models.KindDestination, e.ID, &models.EntityUpdateRequest{Name: &name, IsActive: &active})

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalApproved, updated.ApprovalStatus)
		assert.False(t, updated.IsActive)
	})

	t.Run("Rejected entity edited by creator is resubmitted", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")
		_, err := f.svc.Reject(ctx, admin, models.KindCategory, e.ID, "too vague")
		require.NoError(t, err)
		desc := "Multi-day walking tours"

		updated, err := f.svc.Update(ctx, creator, models.KindCategory, e.ID, &models.EntityUpdateRequest{Description: &desc})

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalPending, updated.ApprovalStatus)
		assert.Empty(t, updated.RejectionReason)
		assert.Nil(t, updated.RejectedBy)
	})

	t.Run("Creator cannot activate a rejected entity", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")
		_, err := f.svc.Reject(ctx, admin, models.KindCategory, e.ID, "too vague")
		require.NoError(t, err)
		active := true

		_, err = f.svc.Update(ctx, creator, models.KindCategory, e.ID, &models.EntityUpdateRequest{IsActive: &active})

		assert.ErrorIs(t, err, models.ErrEntityRejected)
		stored := f.repo.entities[e.ID]
		assert.Equal(t, models.ApprovalRejected, stored.ApprovalStatus)
		assert.False(t, stored.IsActive)
	})

	t.Run("Creator may activate a resubmitted entity", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")
		_, err := f.svc.Reject(ctx, admin, models.KindCategory, e.ID, "too vague")
		require.NoError(t, err)
		desc := "Multi-day walking tours"
		active := true

		updated, err := f.svc.Update(ctx, creator, models.KindCategory, e.ID, &models.EntityUpdateRequest{Description: &desc, IsActive: &active})

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalPending, updated.ApprovalStatus)
		assert.True(t, updated.IsActive)
	})

	t.Run("Admin edit keeps the approval", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindDestination, "Everest")
		name := "Everest Region"

		updated, err := f.svc.Update(ctx, admin, models.KindDestination, e.ID, &models.EntityUpdateRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalApproved, updated.ApprovalStatus)
		assert.NotNil(t, updated.ApprovedBy)
		assert.Equal(t, "everest-region", updated.Slug)
	})

	t.Run("Admin edit keeps a rejection", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")
		_, err := f.svc.Reject(ctx, admin, models.KindCategory, e.ID, "too vague")
		require.NoError(t, err)
		desc := "Multi-day walking tours"

		updated, err := f.svc.Update(ctx, admin, models.KindCategory, e.ID, &models.EntityUpdateRequest{Description: &desc})

		require.NoError(t, err)
		assert.Equal(t, models.ApprovalRejected, updated.ApprovalStatus)
		assert.Equal(t, "too vague", updated.RejectionReason)
	})

	t.Run("Other sellers cannot edit", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")
		name := "Hiking"

		_, err := f.svc.Update(ctx, other, models.KindCategory, e.ID, &models.EntityUpdateRequest{Name: &name})

		assert.ErrorIs(t, err, models.ErrEntityAccessDenied)
	})
}

func TestToggleActive(t *testing.T) {
	ctx := context.Background()

	t.Run("Creator may activate a pending entity", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")

		pref, err := f.svc.ToggleActive(ctx, creator, models.KindCategory, e.ID)

		require.NoError(t, err)
		assert.True(t, pref.IsActive)
		assert.Equal(t, models.ApprovalPending, pref.ApprovalStatus)
	})

	t.Run("Rejected entities cannot be activated", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindCategory, "Trekking")
		_, err := f.svc.Reject(ctx, admin, models.KindCategory, e.ID, "no")
		require.NoError(t, err)

		_, err = f.svc.ToggleActive(ctx, creator, models.KindCategory, e.ID)

		assert.ErrorIs(t, err, models.ErrEntityRejected)
	})

	t.Run("Deactivating is always allowed", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindCategory, "Trekking")

		pref, err := f.svc.ToggleActive(ctx, creator, models.KindCategory, e.ID)

		require.NoError(t, err)
		assert.False(t, pref.IsActive)
	})

	t.Run("Entity not in the seller list", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindCategory, "Trekking")

		_, err := f.svc.ToggleActive(ctx, other, models.KindCategory, e.ID)

		assert.ErrorIs(t, err, models.ErrPreferenceNotFound)
	})
}

func TestSellerList(t *testing.T) {
	ctx := context.Background()

	t.Run("Another seller adds an approved entity", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindDestination, "Pokhara")

		pref, err := f.svc.AddToSellerList(ctx, other, models.KindDestination, e.ID)

		require.NoError(t, err)
		assert.True(t, pref.IsVisible)
		assert.True(t, pref.IsActive)
		assert.True(t, pref.IsApproved)

		list, err := f.svc.ListSellerEntities(ctx, other, models.KindDestination)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, e.ID, list[0].ID)
	})

	t.Run("Pending entities cannot be added", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindDestination, "Pokhara")

		_, err := f.svc.AddToSellerList(ctx, other, models.KindDestination, e.ID)

		assert.ErrorIs(t, err, models.ErrEntityNotApproved)
	})

	t.Run("Adding twice", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindDestination, "Pokhara")
		_, err := f.svc.AddToSellerList(ctx, other, models.KindDestination, e.ID)
		require.NoError(t, err)

		_, err = f.svc.AddToSellerList(ctx, other, models.KindDestination, e.ID)

		assert.ErrorIs(t, err, models.ErrAlreadyInList)
	})

	t.Run("Non-creator removal deletes only their entry", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindDestination, "Pokhara")
		_, err := f.svc.AddToSellerList(ctx, other, models.KindDestination, e.ID)
		require.NoError(t, err)

		err = f.svc.RemoveFromSellerList(ctx, other, models.KindDestination, e.ID)

		require.NoError(t, err)
		assert.NotContains(t, f.repo.preferences, prefKey{other.UserID, e.ID})
		assert.Contains(t, f.repo.entities, e.ID)
	})

	t.Run("Creator removal of an approved entity hides it", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.approved(t, models.KindDestination, "Pokhara")

		err := f.svc.RemoveFromSellerList(ctx, creator, models.KindDestination, e.ID)

		require.NoError(t, err)
		assert.Contains(t, f.repo.entities, e.ID)
		pref := f.repo.preferences[prefKey{creator.UserID, e.ID}]
		assert.False(t, pref.IsVisible)
		assert.False(t, pref.IsActive)

		readded, err := f.svc.AddToSellerList(ctx, creator, models.KindDestination, e.ID)
		require.NoError(t, err)
		assert.True(t, readded.IsVisible)
	})

	t.Run("Creator removal of a pending entity deletes it", func(t *testing.T) {
		f := newApprovalFixture()
		e := f.submit(t, models.KindDestination, "Pokhara")

		err := f.svc.RemoveFromSellerList(ctx, creator, models.KindDestination, e.ID)

		require.NoError(t, err)
		assert.NotContains(t, f.repo.entities, e.ID)
		assert.Empty(t, f.repo.preferences)
	})
}

func TestListByStatus(t *testing.T) {
	ctx := context.Background()
	f := newApprovalFixture()
	f.approved(t, models.KindCategory, "Trekking")
	f.approved(t, models.KindCategory, "Cycling")
	f.submit(t, models.KindCategory, "Rafting")
	f.approved(t, models.KindDestination, "Mustang")

	approved, err := f.svc.ListByStatus(ctx, models.KindCategory, models.ApprovalApproved)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cycling", "Trekking"}, lo.Map(approved, func(e models.GlobalEntity, _ int) string { return e.Name }))

	pending, err := f.svc.ListByStatus(ctx, models.KindCategory, models.ApprovalPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

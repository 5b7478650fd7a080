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

const entityColumns = `
            E.id, E.kind, E.name, E.slug, E.description, E.image_url, E.details, E.is_active,
            E.created_by, E.approval_status, E.approved_by, E.approved_at,
            E.rejected_by, E.rejected_at, E.rejection_reason, E.created_at, E.updated_at`

const preferenceColumns = `
            P.seller_id, P.entity_id, P.kind, P.is_active, P.is_approved, P.approval_status,
            P.is_visible, P.added_at, P.updated_at`

// ApprovalRepository stores categories and destinations in one table keyed by kind, plus the per-seller
// preference rows that sit on top of them.
type ApprovalRepository struct {
	db DBConn
}

func NewApprovalRepository(db DBConn) *ApprovalRepository {
	return &ApprovalRepository{db: db}
}

func (r *ApprovalRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.db, fn)
}

func (r *ApprovalRepository) CreateEntity(ctx context.Context, e *models.GlobalEntity) error {
	query := `
        INSERT INTO global_entities (
            id, kind, name, slug, description, image_url, details, is_active,
            created_by, approval_status, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err := conn(ctx, r.db).Exec(ctx, query,
		e.ID, e.Kind, e.Name, e.Slug, e.Description, e.ImageURL, detailsOrEmpty(e.Details), e.IsActive,
		e.CreatedBy, e.ApprovalStatus, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "global_entities_kind_name_key") {
			return models.ErrDuplicateEntityName
		}
		return fmt.Errorf("insert %s: %w", e.Kind, err)
	}
	return nil
}

func (r *ApprovalRepository) GetEntity(ctx context.Context, kind models.EntityKind, id uuid.UUID) (*models.GlobalEntity, error) {
	query := `SELECT` + entityColumns + `
        FROM global_entities E
        WHERE E.kind = $1 AND E.id = $2`
	e, err := scanEntity(conn(ctx, r.db).QueryRow(ctx, query, kind, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEntityNotFound
		}
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}
	return e, nil
}

func (r *ApprovalRepository) UpdateEntity(ctx context.Context, e *models.GlobalEntity) error {
	query := `
        UPDATE global_entities
        SET name = $3, slug = $4, description = $5, image_url = $6, details = $7, is_active = $8,
            approval_status = $9, approved_by = $10, approved_at = $11,
            rejected_by = $12, rejected_at = $13, rejection_reason = $14, updated_at = $15
        WHERE kind = $1 AND id = $2
    `
	tag, err := conn(ctx, r.db).Exec(ctx, query,
		e.Kind, e.ID, e.Name, e.Slug, e.Description, e.ImageURL, detailsOrEmpty(e.Details), e.IsActive,
		e.ApprovalStatus, e.ApprovedBy, e.ApprovedAt,
		e.RejectedBy, e.RejectedAt, e.RejectionReason, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "global_entities_kind_name_key") {
			return models.ErrDuplicateEntityName
		}
		return fmt.Errorf("update %s: %w", e.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrEntityNotFound
	}
	return nil
}

func (r *ApprovalRepository) DeleteEntity(ctx context.Context, kind models.EntityKind, id uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM global_entities WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrEntityNotFound
	}
	return nil
}

func (r *ApprovalRepository) ListEntities(ctx context.Context, kind models.EntityKind, status models.ApprovalStatus) ([]models.GlobalEntity, error) {
	query := `SELECT` + entityColumns + `
        FROM global_entities E
        WHERE E.kind = $1 AND E.approval_status = $2
        ORDER BY E.name`
	rows, err := conn(ctx, r.db).Query(ctx, query, kind, status)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	entities := []models.GlobalEntity{}
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, *e)
	}
	return entities, rows.Err()
}

func (r *ApprovalRepository) GetPreference(ctx context.Context, sellerID, entityID uuid.UUID) (*models.SellerPreference, error) {
	query := `SELECT` + preferenceColumns + `
        FROM seller_preferences P
        WHERE P.seller_id = $1 AND P.entity_id = $2`
	p, err := scanPreference(conn(ctx, r.db).QueryRow(ctx, query, sellerID, entityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("get preference: %w", err)
	}
	return p, nil
}

func (r *ApprovalRepository) UpsertPreference(ctx context.Context, p *models.SellerPreference) error {
	query := `
        INSERT INTO seller_preferences (
            seller_id, entity_id, kind, is_active, is_approved, approval_status, is_visible, added_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (seller_id, entity_id) DO UPDATE
        SET is_active = EXCLUDED.is_active,
            is_approved = EXCLUDED.is_approved,
            approval_status = EXCLUDED.approval_status,
            is_visible = EXCLUDED.is_visible,
            updated_at = EXCLUDED.updated_at
    `
	_, err := conn(ctx, r.db).Exec(ctx, query,
		p.SellerID, p.EntityID, p.Kind, p.IsActive, p.IsApproved, p.ApprovalStatus, p.IsVisible, p.AddedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (r *ApprovalRepository) DeletePreference(ctx context.Context, sellerID, entityID uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM seller_preferences WHERE seller_id = $1 AND entity_id = $2`, sellerID, entityID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrPreferenceNotFound
	}
	return nil
}

func (r *ApprovalRepository) SyncPreferences(ctx context.Context, entityID uuid.UUID, status models.ApprovalStatus) error {
	query := `
        UPDATE seller_preferences
        SET approval_status = $2,
            is_approved = ($2 = 'approved'),
            is_active = CASE WHEN $2 = 'approved' THEN is_active ELSE FALSE END,
            updated_at = $3
        WHERE entity_id = $1
    `
	_, err := conn(ctx, r.db).Exec(ctx, query, entityID, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sync preferences: %w", err)
	}
	return nil
}

func (r *ApprovalRepository) ListSellerEntities(ctx context.Context, kind models.EntityKind, sellerID uuid.UUID) ([]models.SellerEntity, error) {
	query := `SELECT` + entityColumns + `,` + preferenceColumns + `
        FROM seller_preferences P
        JOIN global_entities E ON E.id = P.entity_id
        WHERE E.kind = $1 AND P.seller_id = $2 AND P.is_visible
        ORDER BY E.name`
	rows, err := conn(ctx, r.db).Query(ctx, query, kind, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller %s: %w", kind, err)
	}
	defer rows.Close()

	result := []models.SellerEntity{}
	for rows.Next() {
		var se models.SellerEntity
		e, p := &se.GlobalEntity, &se.Preference
		err := rows.Scan(
			&e.ID, &e.Kind, &e.Name, &e.Slug, &e.Description, &e.ImageURL, &e.Details, &e.IsActive,
			&e.CreatedBy, &e.ApprovalStatus, &e.ApprovedBy, &e.ApprovedAt,
			&e.RejectedBy, &e.RejectedAt, &e.RejectionReason, &e.CreatedAt, &e.UpdatedAt,
			&p.SellerID, &p.EntityID, &p.Kind, &p.IsActive, &p.IsApproved, &p.ApprovalStatus,
			&p.IsVisible, &p.AddedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, se)
	}
	return result, rows.Err()
}

func scanEntity(row pgx.Row) (*models.GlobalEntity, error) {
	var e models.GlobalEntity
	err := row.Scan(
		&e.ID, &e.Kind, &e.Name, &e.Slug, &e.Description, &e.ImageURL, &e.Details, &e.IsActive,
		&e.CreatedBy, &e.ApprovalStatus, &e.ApprovedBy, &e.ApprovedAt,
		&e.RejectedBy, &e.RejectedAt, &e.RejectionReason, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanPreference(row pgx.Row) (*models.SellerPreference, error) {
	var p models.SellerPreference
	err := row.Scan(
		&p.SellerID, &p.EntityID, &p.Kind, &p.IsActive, &p.IsApproved, &p.ApprovalStatus,
		&p.IsVisible, &p.AddedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func detailsOrEmpty(details map[string]string) map[string]string {
	if details == nil {
		return map[string]string{}
	}
	return details
}

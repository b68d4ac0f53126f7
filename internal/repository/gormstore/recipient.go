package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// ListRecipients returns one page of an agency's recipients, newest first, with the total match count
func (s *Store) ListRecipients(ctx context.Context, agencyID string, filter domain.RecipientFilter) ([]domain.Recipient, int64, error) {
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&domain.Recipient{}).Where("agency_id = ?", agencyID)
		if !filter.IncludeInactive {
			q = q.Where("active = ?", true)
		}
		if filter.Location != "" {
			q = q.Where("LOWER(location) = ?", domain.NormalizeLocation(filter.Location))
		}
		if filter.Search != "" {
			pattern := likePattern(filter.Search)
			q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR phone LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipients: %w", err)
	}

	var recipients []domain.Recipient
	err := paginate(base().Order("created_at DESC").Order("id"), filter.Page).Find(&recipients).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipients: %w", err)
	}

	return recipients, total, nil
}

// InsertRecipient adds a recipient or revives an inactive one with the same phone
func (s *Store) InsertRecipient(ctx context.Context, recipient *domain.Recipient) (*domain.Recipient, error) {
	now := time.Now().UTC()
	db := s.db.WithContext(ctx)

	revived := db.Model(&domain.Recipient{}).
		Where("agency_id = ? AND phone = ? AND active = ?", recipient.AgencyID, recipient.Phone, false).
		Updates(map[string]interface{}{
			"name":       recipient.Name,
			"location":   recipient.Location,
			"priority":   recipient.Priority,
			"active":     true,
			"updated_at": now,
		})
	if revived.Error != nil {
		return nil, fmt.Errorf("failed to reactivate recipient: %w", revived.Error)
	}
	if revived.RowsAffected > 0 {
		var stored domain.Recipient
		if err := db.First(&stored, "agency_id = ? AND phone = ?", recipient.AgencyID, recipient.Phone).Error; err != nil {
			return nil, fmt.Errorf("failed to load reactivated recipient: %w", err)
		}
		s.log.Debug("Recipient reactivated",
			zap.String("agency_id", stored.AgencyID),
			zap.String("recipient_id", stored.ID))
		return &stored, nil
	}

	if recipient.ID == "" {
		recipient.ID = uuid.NewString()
	}
	recipient.Active = true
	recipient.CreatedAt = now
	recipient.UpdatedAt = now

	created := db.Clauses(clause.OnConflict{DoNothing: true}).Create(recipient)
	if created.Error != nil {
		if isDuplicate(created.Error) {
			return nil, domain.ErrDuplicateRecipient.WithMessage("phone %s already registered", recipient.Phone)
		}
		return nil, fmt.Errorf("failed to insert recipient: %w", created.Error)
	}
	if created.RowsAffected == 0 {
		return nil, domain.ErrDuplicateRecipient.WithMessage("phone %s already registered", recipient.Phone)
	}

	return recipient, nil
}

// RemoveRecipient hard-deletes a recipient with no delivery history and deactivates the rest
func (s *Store) RemoveRecipient(ctx context.Context, agencyID, id string) (bool, error) {
	deactivated := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipient domain.Recipient
		err := tx.First(&recipient, "id = ? AND agency_id = ? AND active = ?", id, agencyID, true).Error
		if err != nil {
			if isNotFound(err) {
				return domain.ErrNotFound.WithMessage("recipient %s not found", id)
			}
			return fmt.Errorf("failed to load recipient: %w", err)
		}

		var refs int64
		if err := tx.Model(&domain.AlertLog{}).Where("recipient_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to count recipient logs: %w", err)
		}

		if refs > 0 {
			deactivated = true
			return tx.Model(&recipient).Updates(map[string]interface{}{
				"active":     false,
				"updated_at": time.Now().UTC(),
			}).Error
		}
		return tx.Delete(&recipient).Error
	})
	if err != nil {
		return false, err
	}

	return deactivated, nil
}

// CountRecipients counts the active recipients a selection resolves to right now
func (s *Store) CountRecipients(ctx context.Context, agencyID string, selection domain.RecipientSelection) (int64, error) {
	var count int64
	q := applySelection(s.db.WithContext(ctx).Model(&domain.Recipient{}), agencyID, selection)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipients: %w", err)
	}
	return count, nil
}

// applySelection narrows q to the active recipients matched by selection.
// The priority selector may be combined with a location.
func applySelection(q *gorm.DB, agencyID string, selection domain.RecipientSelection) *gorm.DB {
	q = q.Where("agency_id = ? AND active = ?", agencyID, true)

	switch selection.Selector {
	case domain.SelectorLocation:
		q = q.Where("LOWER(location) = ?", domain.NormalizeLocation(selection.Location))
	case domain.SelectorPriority:
		q = q.Where("priority = ?", true)
		if selection.Location != "" {
			q = q.Where("LOWER(location) = ?", domain.NormalizeLocation(selection.Location))
		}
	}
	return q
}

package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/nakelabs/kasa-alert-connect/internal/domain"
)

// CreateAgency inserts a new agency account
func (s *Store) CreateAgency(ctx context.Context, agency *domain.Agency) error {
	agency.Email = strings.ToLower(strings.TrimSpace(agency.Email))

	if err := s.db.WithContext(ctx).Create(agency).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrDuplicateAgency.WithMessage("agency %s already exists", agency.Email)
		}
		return fmt.Errorf("failed to create agency: %w", err)
	}
	return nil
}

// GetAgency loads an agency by ID
func (s *Store) GetAgency(ctx context.Context, id string) (*domain.Agency, error) {
	var agency domain.Agency
	if err := s.db.WithContext(ctx).First(&agency, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound.WithMessage("agency %s not found", id)
		}
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}
	return &agency, nil
}

// GetAgencyByEmail loads an agency by login email
func (s *Store) GetAgencyByEmail(ctx context.Context, email string) (*domain.Agency, error) {
	var agency domain.Agency
	err := s.db.WithContext(ctx).
		First(&agency, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound.WithMessage("agency not found")
		}
		return nil, fmt.Errorf("failed to get agency by email: %w", err)
	}
	return &agency, nil
}

// ListAgencies returns all agencies ordered by name
func (s *Store) ListAgencies(ctx context.Context) ([]domain.Agency, error) {
	var agencies []domain.Agency
	if err := s.db.WithContext(ctx).Order("name").Find(&agencies).Error; err != nil {
		return nil, fmt.Errorf("failed to list agencies: %w", err)
	}
	return agencies, nil
}

// RevokeToken stores a revoked token ID; revoking twice is a no-op
func (s *Store) RevokeToken(ctx context.Context, token *domain.RevokedToken) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	// Expired revocations no longer matter; prune them opportunistically.
	if err := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&domain.RevokedToken{}).Error; err != nil {
		s.log.Warn("Failed to prune expired revoked tokens")
	}
	return nil
}

// IsTokenRevoked reports whether jti was revoked
func (s *Store) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return count > 0, nil
}

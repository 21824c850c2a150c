package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-authgate/payapproval/internal/models"

	"gorm.io/gorm"
)

// GetActiveXeroToken returns the active Xero credential, or (nil, nil) when
// the integration has never been connected.
func (s *Store) GetActiveXeroToken(ctx context.Context) (*models.XeroToken, error) {
	var token models.XeroToken
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("id DESC").
		First(&token).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil //nolint:nilnil // not connected is not an error here
		}
		return nil, err
	}
	return &token, nil
}

// SaveXeroToken replaces the active credential: every active row is
// deactivated and token is inserted as the only active row, in one transaction.
// Callers in this process are serialized by tokenMu. Across processes the
// single-active index makes the losing writer fail on SQLite and PostgreSQL;
// MySQL has no partial indexes, so there the guarantee is per process only.
func (s *Store) SaveXeroToken(ctx context.Context, token *models.XeroToken) error {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.XeroToken{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}

		token.ID = 0
		token.Active = true
		return tx.Create(token).Error
	})
}

// UpdateActiveXeroToken rewrites the tokens and expiry of the credential id
// in place, provided it is still the active one. TenantID is never touched.
func (s *Store) UpdateActiveXeroToken(
	ctx context.Context,
	id uint,
	update models.XeroTokenUpdate,
) error {
	result := s.db.WithContext(ctx).
		Model(&models.XeroToken{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{
			"access_token":  update.AccessToken,
			"refresh_token": update.RefreshToken,
			"expires_at":    update.ExpiresAt,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrXeroTokenNotFound
	}
	return nil
}

// CountActiveXeroTokens reports how many rows are flagged active. Anything
// other than 0 or 1 means the single-credential invariant was broken.
func (s *Store) CountActiveXeroTokens(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.XeroToken{}).
		Where("active = ?", true).
		Count(&count).
		Error
	return count, err
}

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

// GetRole returns RoleUnassigned when the user has no role row yet.
func (s *GormStore) GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	var rec models.UserRole
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RoleUnassigned, nil
	}
	if err != nil {
		return models.RoleUnassigned, err
	}
	return rec.Role, nil
}

// AssignRole inserts the user's only role row. A second call fails with
// ErrDuplicate from the lifecycle package.
func (s *GormStore) AssignRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	rec := models.UserRole{UserID: userID, Role: role}
	return translate(s.DB.WithContext(ctx).Create(&rec).Error)
}

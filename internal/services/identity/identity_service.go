package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
	"github.com/Windi-Fikriyansyah/gigboard/internal/services/lifecycle"
)

type RoleStore interface {
	GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role models.Role) error
}

// Service resolves the role behind an account. Assigned roles never change,
// so they are cached in Redis; the unassigned state is always read fresh.
type Service struct {
	store  RoleStore
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewService accepts a nil cache, in which case every lookup hits the store.
func NewService(store RoleStore, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: cache, ttl: ttl, logger: logger}
}

func roleKey(userID uuid.UUID) string {
	return "gigboard:role:" + userID.String()
}

func (s *Service) ResolveRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	if s.cache != nil {
		v, err := s.cache.Get(ctx, roleKey(userID)).Result()
		switch {
		case err == nil && models.Role(v).Valid():
			return models.Role(v), nil
		case err != nil && !errors.Is(err, redis.Nil):
			s.logger.Warn("role cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	role, err := s.store.GetRole(ctx, userID)
	if err != nil {
		s.logger.Error("role lookup failed", zap.String("user_id", userID.String()), zap.Error(err))
		return models.RoleUnassigned, lifecycle.StorageUnavailable("storage is unavailable, try again", err)
	}
	if role.Valid() {
		s.remember(ctx, userID, role)
	}
	return role, nil
}

// Session builds the per-request session for an authenticated account.
func (s *Service) Session(ctx context.Context, userID uuid.UUID) (lifecycle.Session, error) {
	role, err := s.ResolveRole(ctx, userID)
	if err != nil {
		return lifecycle.Session{}, err
	}
	return lifecycle.NewSession(userID, role), nil
}

// AssignRole records the account's role. It can succeed at most once.
func (s *Service) AssignRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if userID == uuid.Nil {
		return lifecycle.Unauthenticated("sign in required")
	}
	if !role.Valid() {
		fields := lifecycle.FieldErrors{}
		fields.Add("role", "role must be job_poster or job_seeker")
		return lifecycle.InvalidInput("invalid role", fields)
	}

	err := s.store.AssignRole(ctx, userID, role)
	switch {
	case errors.Is(err, lifecycle.ErrDuplicate):
		return lifecycle.Conflict("role has already been chosen", err)
	case err != nil:
		s.logger.Error("role assignment failed", zap.String("user_id", userID.String()), zap.Error(err))
		return lifecycle.StorageUnavailable("storage is unavailable, try again", err)
	}

	s.logger.Info("role assigned", zap.String("user_id", userID.String()), zap.String("role", string(role)))
	s.remember(ctx, userID, role)
	return nil
}

func (s *Service) remember(ctx context.Context, userID uuid.UUID, role models.Role) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, roleKey(userID), string(role), s.ttl).Err(); err != nil {
		s.logger.Warn("role cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

package lifecycle

import (
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

// Session is the caller's identity for one request. It is built by the
// transport layer and passed into every operation; the core keeps no ambient
// auth state.
type Session struct {
	AccountID uuid.UUID
	Role      models.Role
}

func NewSession(accountID uuid.UUID, role models.Role) Session {
	return Session{AccountID: accountID, Role: role}
}

func (s Session) Authenticated() bool {
	return s.AccountID != uuid.Nil
}

func (s Session) IsPoster() bool { return s.Role == models.RolePoster }

func (s Session) IsSeeker() bool { return s.Role == models.RoleSeeker }

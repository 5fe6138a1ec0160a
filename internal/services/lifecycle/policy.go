package lifecycle

import (
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

// Role gate. Pure predicates over already-fetched state; an unassigned role
// grants nothing.

func CanPostJob(role models.Role) bool {
	return role == models.RolePoster
}

func CanApply(role models.Role, job *models.Job) bool {
	return role == models.RoleSeeker && job != nil && job.Status == models.JobStatusOpen
}

func CanDecideApplication(role models.Role, account uuid.UUID, job *models.Job) bool {
	return role == models.RolePoster && job != nil && account == job.PosterID
}

func CanMarkComplete(role models.Role, account uuid.UUID, job *models.Job) bool {
	return CanDecideApplication(role, account, job) && job.Status == models.JobStatusOpen
}

func CanReview(account, revieweeID uuid.UUID) bool {
	return account != revieweeID
}

package lifecycle

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/gigboard/internal/models"
)

func TestRoleGatePredicates(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	open := &models.Job{PosterID: owner, Status: models.JobStatusOpen}
	done := &models.Job{PosterID: owner, Status: models.JobStatusCompleted}

	cases := []struct {
		name string
		got  bool
		want bool
	}{
		{"poster can post", CanPostJob(models.RolePoster), true},
		{"seeker cannot post", CanPostJob(models.RoleSeeker), false},
		{"unassigned cannot post", CanPostJob(models.RoleUnassigned), false},
		{"seeker can apply to open job", CanApply(models.RoleSeeker, open), true},
		{"seeker cannot apply to completed job", CanApply(models.RoleSeeker, done), false},
		{"poster cannot apply to completed job", CanApply(models.RolePoster, done), false},
		{"poster cannot apply", CanApply(models.RolePoster, open), false},
		{"unassigned cannot apply", CanApply(models.RoleUnassigned, open), false},
		{"nil job", CanApply(models.RoleSeeker, nil), false},
		{"owner decides", CanDecideApplication(models.RolePoster, owner, open), true},
		{"owner decides on completed job", CanDecideApplication(models.RolePoster, owner, done), true},
		{"other poster cannot decide", CanDecideApplication(models.RolePoster, other, open), false},
		{"owner id with seeker role cannot decide", CanDecideApplication(models.RoleSeeker, owner, open), false},
		{"owner completes open job", CanMarkComplete(models.RolePoster, owner, open), true},
		{"owner cannot complete twice", CanMarkComplete(models.RolePoster, owner, done), false},
		{"other poster cannot complete", CanMarkComplete(models.RolePoster, other, open), false},
		{"nil job cannot complete", CanMarkComplete(models.RolePoster, owner, nil), false},
		{"review someone else", CanReview(owner, other), true},
		{"review self", CanReview(owner, owner), false},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, tc.got, tc.want)
		}
	}
}

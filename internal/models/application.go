package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted" // terminal
	ApplicationRejected ApplicationStatus = "rejected" // terminal
)

type Application struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	JobID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_seeker" json:"job_id"`
	SeekerID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_seeker;index" json:"seeker_id"`
	Status   ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`

	AppliedAt time.Time `gorm:"autoCreateTime;index" json:"applied_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Job    *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Seeker *User `gorm:"foreignKey:SeekerID" json:"seeker,omitempty"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

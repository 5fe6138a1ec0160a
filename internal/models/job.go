// internal/models/job.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen      JobStatus = "open"
	JobStatusCompleted JobStatus = "completed" // terminal
)

// Categories offered by the posting form, in display order.
var JobCategories = []string{"Tutoring", "Gardening", "Cleaning", "Delivery", "Handyman", "Other"}

func IsJobCategory(c string) bool {
	for _, known := range JobCategories {
		if known == c {
			return true
		}
	}
	return false
}

type Job struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PosterID uuid.UUID `gorm:"type:uuid;index;not null" json:"poster_id"`

	Title       string  `gorm:"not null" json:"title"`
	Category    string  `gorm:"type:varchar(40);index;not null" json:"category"`
	Location    string  `gorm:"not null" json:"location"`
	Pay         float64 `gorm:"type:numeric(10,2);not null" json:"pay"` // hourly
	Description string  `gorm:"type:text;not null" json:"description"`

	Duration     string         `gorm:"type:varchar(120)" json:"duration,omitempty"` // e.g. "2-3 hours/week"
	Requirements datatypes.JSON `json:"requirements,omitempty"`                      // ["Strong math skills", ...]

	Status JobStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Poster       *User         `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
	Applications []Application `gorm:"foreignKey:JobID" json:"applications,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return
}

// RequirementList decodes the JSON requirements column. Malformed data reads as empty.
func (j *Job) RequirementList() []string {
	if len(j.Requirements) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j.Requirements, &out); err != nil {
		return nil
	}
	return out
}

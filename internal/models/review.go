package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is append-only. The same reviewer may review the same account more than once.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReviewerID uuid.UUID `gorm:"type:uuid;index;not null" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"type:uuid;index;not null" json:"reviewee_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relations
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee *User `gorm:"foreignKey:RevieweeID" json:"-"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

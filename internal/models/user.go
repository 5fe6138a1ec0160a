package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RolePoster Role = "job_poster"
	RoleSeeker Role = "job_seeker"

	// RoleUnassigned is the zero value: an account without a role record.
	RoleUnassigned Role = ""
)

func (r Role) Valid() bool {
	return r == RolePoster || r == RoleSeeker
}

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone *string   `gorm:"type:varchar(30);uniqueIndex" json:"phone,omitempty"`

	Password string `json:"-"` // empty for accounts created through Google sign-in
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HAS ONE user_roles row (user_roles.user_id -> users.id)
	RoleRecord *UserRole `gorm:"foreignKey:UserID;references:ID" json:"role_record,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// UserRole is assigned once at signup. The unique key on user_id is what keeps
// it immutable: a second insert fails instead of overwriting.
type UserRole struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Role   Role      `gorm:"type:varchar(20);not null;index" json:"role"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

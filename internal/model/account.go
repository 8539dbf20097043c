package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is an identity record in one of the three role tables. The same
// struct maps onto all three tables (see Role.TableName); role-specific
// profile fields are simply empty for the roles they do not apply to.
type Account struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         string    `json:"role" gorm:"size:50;not null"`

	FirstName string `json:"first_name" gorm:"size:255;not null"`
	LastName  string `json:"last_name" gorm:"size:255;not null"`
	Phone     string `json:"phone" gorm:"size:50"`
	Address   string `json:"address,omitempty" gorm:"size:255"`
	Bio       string `json:"bio,omitempty" gorm:"type:text"`
	AvatarURL string `json:"profile_image,omitempty" gorm:"size:512"`

	Status string `json:"status" gorm:"size:50;default:'active';index"`

	// Adopter profile
	LivingSituation string   `json:"living_situation,omitempty" gorm:"size:50"`
	PetExperience   []string `json:"pet_experience,omitempty" gorm:"serializer:json"`

	// Volunteer profile
	Availability          []string `json:"availability,omitempty" gorm:"serializer:json"`
	Activities            []string `json:"activities,omitempty" gorm:"serializer:json"`
	BackgroundCheckStatus string   `json:"background_check_status,omitempty" gorm:"size:50"`

	// Staff profile
	Department string `json:"department,omitempty" gorm:"size:255"`

	Consents []Consent `json:"consents" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Redacted returns a copy of the account safe to hand to outward-facing
// callers: the password hash is cleared, not just hidden from JSON.
func (a *Account) Redacted() *Account {
	if a == nil {
		return nil
	}
	clean := *a
	clean.PasswordHash = ""
	return &clean
}

// FullName joins first and last name for display.
func (a *Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

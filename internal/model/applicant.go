package model

import (
	"time"

	"github.com/google/uuid"
)

// Applicant is the gorm model for an applicant account. The applicant's own
// application history is stored inline in AppliedPositions so the whole
// aggregate is saved as a single row.
type Applicant struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name     string    `gorm:"type:text;not null" json:"name"`
	Email    string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"type:text;not null" json:"-"`
	Age      *int      `json:"age,omitempty"`
	Resume   string    `gorm:"type:text" json:"resume,omitempty"`

	// VerificationToken is present until the applicant verifies their email.
	VerificationToken    *string    `gorm:"type:text;index" json:"-"`
	ResetPasswordToken   *string    `gorm:"type:text;index" json:"-"`
	ResetPasswordExpires *time.Time `gorm:"type:timestamp" json:"-"`

	AppliedPositions AppliedPositionList `gorm:"type:jsonb;default:'[]'" json:"applied_positions"`

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// Verified reports whether the applicant has completed email verification.
func (a *Applicant) Verified() bool {
	return a.VerificationToken == nil
}

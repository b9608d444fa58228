package model

import (
	"time"

	"github.com/lib/pq"
)

// EditablePostingInfo is the part of a job posting that employers supply on
// create and replace wholesale on update.
type EditablePostingInfo struct {
	CompanyName           string         `gorm:"type:text;not null" json:"company_name"`
	JobTitle              string         `gorm:"type:text;not null" json:"job_title"`
	SkillsRequired        pq.StringArray `gorm:"type:text[]" json:"skills_required"`
	ExperienceRequired    string         `gorm:"type:text" json:"experience_required"`
	EducationalBackground string         `gorm:"type:text" json:"educational_background"`
	Location              string         `gorm:"type:text" json:"location"`
	Salary                string         `gorm:"type:text" json:"salary"`
	JobDescription        string         `gorm:"type:text" json:"job_description"`
}

// JobPosting is the gorm model for a job posting. Applications live inline in
// Applicants (insertion ordered), so the posting aggregate saves as one unit.
type JobPosting struct {
	ID uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	EditablePostingInfo
	PostedDate time.Time       `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"posted_date"`
	Applicants ApplicationList `gorm:"type:jsonb;default:'[]'" json:"applicants"`
}

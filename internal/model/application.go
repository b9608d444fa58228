package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AcademicRecord holds one level of academic history on an application form.
type AcademicRecord struct {
	Year       string `json:"year"`
	Grade      string `json:"grade"`
	Percentage string `json:"percentage"`
	Board      string `json:"board"`
}

// Course is an additional course or certification listed on an application.
type Course struct {
	Name      string `json:"name"`
	Institute string `json:"institute"`
	Year      string `json:"year"`
}

// Experience is one prior employment entry on an application.
type Experience struct {
	Title    string `json:"title"`
	Employer string `json:"employer"`
	Years    string `json:"years"`
}

// Reference is a personal or professional reference on an application.
type Reference struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Contact  string `json:"contact"`
}

// ApplicationDetail is the full application form. The same payload is stored
// under the job posting (as Application) and under the applicant's own history
// (as AppliedPosition); only the back-references differ between the copies.
type ApplicationDetail struct {
	ApplicationID string    `json:"application_id"`
	ApplicantID   uuid.UUID `json:"applicant_id"`

	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	LastName     string `json:"last_name"`
	GuardianName string `json:"guardian_name"`
	Email        string `json:"email"`
	Contact      string `json:"contact"`
	AltContact   string `json:"alt_contact"`

	Gender        string `json:"gender"`
	DOB           string `json:"dob"`
	MaritalStatus string `json:"marital_status"`
	Address       string `json:"address"`
	City          string `json:"city"`
	District      string `json:"district"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	Disabled      bool   `json:"disabled"`
	Community     string `json:"community"`

	Matriculation AcademicRecord `json:"matriculation"`
	Intermediate  AcademicRecord `json:"intermediate"`
	Bachelor      AcademicRecord `json:"bachelor"`

	Courses     []Course     `json:"courses"`
	Experiences []Experience `json:"experiences"`
	References  []Reference  `json:"references"`

	Achievements string `json:"achievements"`

	PhotoURL         string `json:"photo_url"`
	CertificationURL string `json:"certification_url"`
	SignatureURL     string `json:"signature_url"`

	Submitted bool      `json:"submitted"`
	AppliedAt time.Time `json:"applied_at"`
}

// AttachmentURLs lists the blob URLs referenced by the application, skipping
// empty slots.
func (d *ApplicationDetail) AttachmentURLs() []string {
	urls := make([]string, 0, 3)
	for _, u := range []string{d.PhotoURL, d.CertificationURL, d.SignatureURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// Application is an application record embedded under a JobPosting.
type Application struct {
	JobID uint `json:"job_id"`
	ApplicationDetail
}

// AppliedPosition mirrors an Application under the owning Applicant.
type AppliedPosition struct {
	PostID uint `json:"post_id"`
	ApplicationDetail
}

// ApplicationList stores a job posting's applications as a jsonb column.
type ApplicationList []Application

// Value implements driver.Valuer.
func (l ApplicationList) Value() (driver.Value, error) {
	if l == nil {
		l = ApplicationList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *ApplicationList) Scan(src interface{}) error {
	return scanJSONList(l, src)
}

// AppliedPositionList stores an applicant's application history as a jsonb column.
type AppliedPositionList []AppliedPosition

// Value implements driver.Valuer.
func (l AppliedPositionList) Value() (driver.Value, error) {
	if l == nil {
		l = AppliedPositionList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *AppliedPositionList) Scan(src interface{}) error {
	return scanJSONList(l, src)
}

func scanJSONList(dst interface{}, src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("cannot scan %T into embedded application list", src)
	}
}

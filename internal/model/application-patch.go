package model

// ApplicationPatch is a partial update to an application. Every field is
// optional: present fields replace the stored value, absent fields preserve
// it. Nested lists (courses, experiences, references) are replaced wholesale
// when present, never merged element-wise.
type ApplicationPatch struct {
	FirstName    *string `json:"first_name"`
	MiddleName   *string `json:"middle_name"`
	LastName     *string `json:"last_name"`
	GuardianName *string `json:"guardian_name"`
	Email        *string `json:"email"`
	Contact      *string `json:"contact"`
	AltContact   *string `json:"alt_contact"`

	Gender        *string `json:"gender"`
	DOB           *string `json:"dob"`
	MaritalStatus *string `json:"marital_status"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	District      *string `json:"district"`
	State         *string `json:"state"`
	Pincode       *string `json:"pincode"`
	Disabled      *bool   `json:"disabled"`
	Community     *string `json:"community"`

	Matriculation *AcademicRecord `json:"matriculation"`
	Intermediate  *AcademicRecord `json:"intermediate"`
	Bachelor      *AcademicRecord `json:"bachelor"`

	Courses     *[]Course     `json:"courses"`
	Experiences *[]Experience `json:"experiences"`
	References  *[]Reference  `json:"references"`

	Achievements *string `json:"achievements"`
	Submitted    *bool   `json:"submitted"`
}

// Apply merges the patch over d, replacing only the fields that are present.
func (p *ApplicationPatch) Apply(d *ApplicationDetail) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&d.FirstName, p.FirstName)
	setString(&d.MiddleName, p.MiddleName)
	setString(&d.LastName, p.LastName)
	setString(&d.GuardianName, p.GuardianName)
	setString(&d.Email, p.Email)
	setString(&d.Contact, p.Contact)
	setString(&d.AltContact, p.AltContact)
	setString(&d.Gender, p.Gender)
	setString(&d.DOB, p.DOB)
	setString(&d.MaritalStatus, p.MaritalStatus)
	setString(&d.Address, p.Address)
	setString(&d.City, p.City)
	setString(&d.District, p.District)
	setString(&d.State, p.State)
	setString(&d.Pincode, p.Pincode)
	setString(&d.Community, p.Community)
	setString(&d.Achievements, p.Achievements)

	if p.Disabled != nil {
		d.Disabled = *p.Disabled
	}
	if p.Submitted != nil {
		d.Submitted = *p.Submitted
	}

	if p.Matriculation != nil {
		d.Matriculation = *p.Matriculation
	}
	if p.Intermediate != nil {
		d.Intermediate = *p.Intermediate
	}
	if p.Bachelor != nil {
		d.Bachelor = *p.Bachelor
	}

	if p.Courses != nil {
		d.Courses = *p.Courses
	}
	if p.Experiences != nil {
		d.Experiences = *p.Experiences
	}
	if p.References != nil {
		d.References = *p.References
	}
}

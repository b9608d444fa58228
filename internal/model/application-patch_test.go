package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestApplicationPatch_Apply_preservesAbsentFields(t *testing.T) {
	detail := ApplicationDetail{
		FirstName: "Alice",
		LastName:  "Nguyen",
		Email:     "alice@example.com",
		Contact:   "0812345678",
		City:      "Bangkok",
		Courses: []Course{
			{Name: "Distributed Systems", Institute: "KU", Year: "2023"},
		},
	}

	patch := ApplicationPatch{
		City: strPtr("Chiang Mai"),
	}
	patch.Apply(&detail)

	assert.Equal(t, "Chiang Mai", detail.City)
	assert.Equal(t, "Alice", detail.FirstName)
	assert.Equal(t, "alice@example.com", detail.Email)
	assert.Len(t, detail.Courses, 1)
}

func TestApplicationPatch_Apply_replacesListsWholesale(t *testing.T) {
	detail := ApplicationDetail{
		Courses: []Course{
			{Name: "Distributed Systems", Institute: "KU", Year: "2023"},
			{Name: "Databases", Institute: "KU", Year: "2022"},
		},
		Experiences: []Experience{
			{Title: "Intern", Employer: "TechNova", Years: "1"},
		},
	}

	newCourses := []Course{{Name: "Machine Learning", Institute: "CU", Year: "2024"}}
	patch := ApplicationPatch{Courses: &newCourses}
	patch.Apply(&detail)

	assert.Equal(t, newCourses, detail.Courses)
	// Absent list keeps the stored entries
	assert.Len(t, detail.Experiences, 1)
}

func TestApplicationPatch_Apply_boolFields(t *testing.T) {
	detail := ApplicationDetail{Disabled: false, Submitted: true}

	yes := true
	patch := ApplicationPatch{Disabled: &yes}
	patch.Apply(&detail)

	assert.True(t, detail.Disabled)
	assert.True(t, detail.Submitted)
}

func TestAttachmentURLs_skipsEmptySlots(t *testing.T) {
	detail := ApplicationDetail{
		PhotoURL:     "mem://applications/1-photo.jpg",
		SignatureURL: "mem://applications/1-sign.png",
	}
	assert.Equal(t, []string{
		"mem://applications/1-photo.jpg",
		"mem://applications/1-sign.png",
	}, detail.AttachmentURLs())
}

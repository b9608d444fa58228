package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"gorm.io/gorm"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/model"
	"JobDesk-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func newApplicant(t *testing.T) *model.Applicant {
	t.Helper()
	hashed, err := utilities.HashPassword(database.TestSeedPassword)
	require.NoError(t, err)
	return &model.Applicant{
		Name:     "Repo Test",
		Email:    fmt.Sprintf("repo-%s@example.com", uuid.NewString()[:8]),
		Password: hashed,
	}
}

func TestApplicantCreate_duplicateEmail(t *testing.T) {
	repo := NewApplicantRepository(testDB)

	applicant := newApplicant(t)
	require.NoError(t, repo.Create(context.Background(), nil, applicant))

	dup := newApplicant(t)
	dup.Email = applicant.Email
	err := repo.Create(context.Background(), nil, dup)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestApplicantFindByResetToken_expired(t *testing.T) {
	repo := NewApplicantRepository(testDB)

	applicant := newApplicant(t)
	token := uuid.NewString()
	expired := time.Now().Add(-time.Minute)
	applicant.ResetPasswordToken = &token
	applicant.ResetPasswordExpires = &expired
	require.NoError(t, repo.Create(context.Background(), nil, applicant))

	_, err := repo.FindByResetToken(context.Background(), nil, token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApplicantFindByResetToken_valid(t *testing.T) {
	repo := NewApplicantRepository(testDB)

	applicant := newApplicant(t)
	token := uuid.NewString()
	expires := time.Now().Add(time.Hour)
	applicant.ResetPasswordToken = &token
	applicant.ResetPasswordExpires = &expires
	require.NoError(t, repo.Create(context.Background(), nil, applicant))

	found, err := repo.FindByResetToken(context.Background(), nil, token)
	require.NoError(t, err)
	assert.Equal(t, applicant.ID, found.ID)
}

func TestJobPostingSaveRoundTripsEmbeddedApplications(t *testing.T) {
	repo := NewJobPostingRepository(testDB)

	posting := &model.JobPosting{
		EditablePostingInfo: model.EditablePostingInfo{
			CompanyName: "RoundTrip Co",
			JobTitle:    "Archivist",
		},
	}
	require.NoError(t, repo.Create(context.Background(), nil, posting))

	posting.Applicants = append(posting.Applicants, model.Application{
		JobID: posting.ID,
		ApplicationDetail: model.ApplicationDetail{
			ApplicationID: fmt.Sprintf("JOB%d-0001", posting.ID),
			ApplicantID:   uuid.New(),
			FirstName:     "Alice",
			LastName:      "Nguyen",
			Email:         "alice@example.com",
			Contact:       "0812345678",
			Courses: []model.Course{
				{Name: "Archival Studies", Institute: "CU", Year: "2021"},
			},
		},
	})
	require.NoError(t, repo.Save(context.Background(), nil, posting))

	stored, err := repo.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	require.Len(t, stored.Applicants, 1)
	assert.Equal(t, posting.Applicants[0].ApplicationID, stored.Applicants[0].ApplicationID)
	assert.Equal(t, posting.Applicants[0].Courses, stored.Applicants[0].Courses)
}

package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/model"
	"JobDesk-backend/internal/repository"
	"JobDesk-backend/internal/storage"
	"JobDesk-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
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

// newTestWorkflow wires a workflow against the test database and the given
// blob store.
func newTestWorkflow(blobs storage.BlobStore) (*Workflow, *repository.JobPostingRepository, *repository.ApplicantRepository) {
	postings := repository.NewJobPostingRepository(testDB)
	applicants := repository.NewApplicantRepository(testDB)
	return New(testDB, postings, applicants, blobs, zap.NewNop()), postings, applicants
}

func createTestPosting(t *testing.T) *model.JobPosting {
	t.Helper()
	posting := &model.JobPosting{
		EditablePostingInfo: model.EditablePostingInfo{
			CompanyName: "TechNova",
			JobTitle:    "Backend Engineer",
		},
	}
	require.NoError(t, repository.NewJobPostingRepository(testDB).Create(context.Background(), nil, posting))
	return posting
}

func createTestApplicant(t *testing.T) *model.Applicant {
	t.Helper()
	hashed, err := utilities.HashPassword(database.TestSeedPassword)
	require.NoError(t, err)
	applicant := &model.Applicant{
		Name:     "Test Applicant",
		Email:    fmt.Sprintf("applicant-%s@example.com", uuid.NewString()[:8]),
		Password: hashed,
	}
	require.NoError(t, repository.NewApplicantRepository(testDB).Create(context.Background(), nil, applicant))
	return applicant
}

func validDetail(applicantID uuid.UUID) model.ApplicationDetail {
	return model.ApplicationDetail{
		ApplicantID: applicantID,
		FirstName:   "Alice",
		LastName:    "Nguyen",
		Email:       "alice@example.com",
		Contact:     "0812345678",
		City:        "Bangkok",
	}
}

// stageTempFile writes content to a temp file and returns it as a staged
// upload, the way the HTTP layer stages incoming multipart files.
func stageTempFile(t *testing.T, name, content string) *StagedFile {
	t.Helper()
	tmp, err := os.CreateTemp("", "staged-*")
	require.NoError(t, err)
	_, err = tmp.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	return &StagedFile{
		Path:         tmp.Name(),
		OriginalName: name,
		ContentType:  "application/octet-stream",
	}
}

// failingApplicantStore fails every Save to force a rollback mid-transaction.
type failingApplicantStore struct {
	ApplicantStore
}

func (f failingApplicantStore) Save(context.Context, *gorm.DB, *model.Applicant) error {
	return errors.New("induced applicant save failure")
}

func TestSubmit_success(t *testing.T) {
	blobs := storage.NewMemory()
	wf, postings, applicants := newTestWorkflow(blobs)
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	photo := stageTempFile(t, "photo.jpg", "jpeg-bytes")
	files := StagedFiles{Photo: photo}

	applicationID, err := wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID), files)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("JOB%d-0001", posting.ID), applicationID)

	// Both aggregates carry the same application record.
	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	require.Len(t, storedPosting.Applicants, 1)
	assert.Equal(t, applicationID, storedPosting.Applicants[0].ApplicationID)
	assert.Equal(t, applicant.ID, storedPosting.Applicants[0].ApplicantID)
	assert.Equal(t, posting.ID, storedPosting.Applicants[0].JobID)

	storedApplicant, err := applicants.FindByID(context.Background(), nil, applicant.ID)
	require.NoError(t, err)
	require.Len(t, storedApplicant.AppliedPositions, 1)
	assert.Equal(t, applicationID, storedApplicant.AppliedPositions[0].ApplicationID)
	assert.Equal(t, posting.ID, storedApplicant.AppliedPositions[0].PostID)

	// Attachment was uploaded and referenced from both copies.
	photoURL := storedPosting.Applicants[0].PhotoURL
	assert.True(t, blobs.Has(photoURL))
	assert.Equal(t, photoURL, storedApplicant.AppliedPositions[0].PhotoURL)

	// Staged temp file is gone.
	_, statErr := os.Stat(photo.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSubmit_applicationIDSequence(t *testing.T) {
	wf, _, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)

	first, err := wf.Submit(context.Background(), posting.ID, validDetail(createTestApplicant(t).ID), StagedFiles{})
	require.NoError(t, err)
	second, err := wf.Submit(context.Background(), posting.ID, validDetail(createTestApplicant(t).ID), StagedFiles{})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("JOB%d-0001", posting.ID), first)
	assert.Equal(t, fmt.Sprintf("JOB%d-0002", posting.ID), second)
}

func TestSubmit_concurrentToSamePosting(t *testing.T) {
	wf, postings, applicants := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	first := createTestApplicant(t)
	second := createTestApplicant(t)

	ids := make([]string, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, applicant := range []*model.Applicant{first, second} {
		wg.Add(1)
		go func(i int, applicantID uuid.UUID) {
			defer wg.Done()
			ids[i], errs[i] = wf.Submit(context.Background(), posting.ID, validDetail(applicantID), StagedFiles{})
		}(i, applicant.ID)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, ids[0], ids[1])

	// Neither append overwrote the other and each mirror survived.
	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	require.Len(t, storedPosting.Applicants, 2)
	for _, applicant := range []*model.Applicant{first, second} {
		stored, err := applicants.FindByID(context.Background(), nil, applicant.ID)
		require.NoError(t, err)
		require.Len(t, stored.AppliedPositions, 1)
		idx := -1
		for i, app := range storedPosting.Applicants {
			if app.ApplicantID == applicant.ID {
				idx = i
				break
			}
		}
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, storedPosting.Applicants[idx].ApplicationID, stored.AppliedPositions[0].ApplicationID)
	}
}

func TestSubmit_missingRequiredFields(t *testing.T) {
	wf, postings, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	detail := validDetail(applicant.ID)
	detail.Contact = ""
	photo := stageTempFile(t, "photo.jpg", "jpeg-bytes")

	_, err := wf.Submit(context.Background(), posting.ID, detail, StagedFiles{Photo: photo})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "contact")

	// Nothing written, temp file still cleaned up.
	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	assert.Empty(t, storedPosting.Applicants)
	_, statErr := os.Stat(photo.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSubmit_unknownPosting(t *testing.T) {
	wf, _, _ := newTestWorkflow(storage.NewMemory())
	applicant := createTestApplicant(t)

	_, err := wf.Submit(context.Background(), 999999, validDetail(applicant.ID), StagedFiles{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_unknownApplicant(t *testing.T) {
	wf, _, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)

	_, err := wf.Submit(context.Background(), posting.ID, validDetail(uuid.New()), StagedFiles{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmit_duplicateApplication(t *testing.T) {
	wf, _, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	_, err := wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID), StagedFiles{})
	require.NoError(t, err)

	_, err = wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID), StagedFiles{})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSubmit_rollbackLeavesBothAggregatesUntouched(t *testing.T) {
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	postings := repository.NewJobPostingRepository(testDB)
	applicants := repository.NewApplicantRepository(testDB)
	wf := New(testDB, postings, failingApplicantStore{applicants}, storage.NewMemory(), zap.NewNop())

	photo := stageTempFile(t, "photo.jpg", "jpeg-bytes")
	_, err := wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID), StagedFiles{Photo: photo})
	require.Error(t, err)
	assert.ErrorContains(t, err, "induced applicant save failure")

	// The posting save committed inside the transaction must have rolled back.
	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	assert.Empty(t, storedPosting.Applicants)

	storedApplicant, err := applicants.FindByID(context.Background(), nil, applicant.ID)
	require.NoError(t, err)
	assert.Empty(t, storedApplicant.AppliedPositions)

	_, statErr := os.Stat(photo.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEdit_mergesPatchAndMirrorsIt(t *testing.T) {
	wf, postings, applicants := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	detail := validDetail(applicant.ID)
	detail.Courses = []model.Course{{Name: "Databases", Institute: "KU", Year: "2022"}}
	_, err := wf.Submit(context.Background(), posting.ID, detail, StagedFiles{})
	require.NoError(t, err)

	newCity := "Chiang Mai"
	err = wf.Edit(context.Background(), posting.ID, applicant.ID, model.ApplicationPatch{City: &newCity}, StagedFiles{})
	require.NoError(t, err)

	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	require.Len(t, storedPosting.Applicants, 1)
	got := storedPosting.Applicants[0]
	assert.Equal(t, "Chiang Mai", got.City)
	// Untouched fields and lists survive the patch.
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, detail.Courses, got.Courses)

	storedApplicant, err := applicants.FindByID(context.Background(), nil, applicant.ID)
	require.NoError(t, err)
	require.Len(t, storedApplicant.AppliedPositions, 1)
	assert.Equal(t, got.ApplicationDetail, storedApplicant.AppliedPositions[0].ApplicationDetail)
}

func TestEdit_replacesAttachmentBlob(t *testing.T) {
	blobs := storage.NewMemory()
	wf, postings, _ := newTestWorkflow(blobs)
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	_, err := wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID),
		StagedFiles{Photo: stageTempFile(t, "old.jpg", "old-bytes")})
	require.NoError(t, err)

	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	oldURL := storedPosting.Applicants[0].PhotoURL
	require.True(t, blobs.Has(oldURL))

	err = wf.Edit(context.Background(), posting.ID, applicant.ID, model.ApplicationPatch{},
		StagedFiles{Photo: stageTempFile(t, "new.jpg", "new-bytes")})
	require.NoError(t, err)

	storedPosting, err = postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	newURL := storedPosting.Applicants[0].PhotoURL
	assert.NotEqual(t, oldURL, newURL)
	assert.True(t, blobs.Has(newURL))
	assert.False(t, blobs.Has(oldURL))
	assert.Contains(t, blobs.Deleted(), oldURL)
}

func TestEdit_rejectsBlankRequiredField(t *testing.T) {
	wf, postings, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	_, err := wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID), StagedFiles{})
	require.NoError(t, err)

	blank := ""
	err = wf.Edit(context.Background(), posting.ID, applicant.ID, model.ApplicationPatch{Contact: &blank}, StagedFiles{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "contact")

	// The stored record keeps its contact.
	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	require.Len(t, storedPosting.Applicants, 1)
	assert.Equal(t, "0812345678", storedPosting.Applicants[0].Contact)
}

func TestEdit_abortedEditKeepsOldBlob(t *testing.T) {
	blobs := storage.NewMemory()
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	postings := repository.NewJobPostingRepository(testDB)
	applicants := repository.NewApplicantRepository(testDB)
	wf := New(testDB, postings, applicants, blobs, zap.NewNop())

	_, err := wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID),
		StagedFiles{Photo: stageTempFile(t, "old.jpg", "old-bytes")})
	require.NoError(t, err)

	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	oldURL := storedPosting.Applicants[0].PhotoURL
	require.True(t, blobs.Has(oldURL))

	failing := New(testDB, postings, failingApplicantStore{applicants}, blobs, zap.NewNop())
	err = failing.Edit(context.Background(), posting.ID, applicant.ID, model.ApplicationPatch{},
		StagedFiles{Photo: stageTempFile(t, "new.jpg", "new-bytes")})
	require.Error(t, err)

	// The rolled-back record still points at the old blob, which must survive.
	storedPosting, err = postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	assert.Equal(t, oldURL, storedPosting.Applicants[0].PhotoURL)
	assert.True(t, blobs.Has(oldURL))
	assert.NotContains(t, blobs.Deleted(), oldURL)
}

func TestEdit_unknownApplication(t *testing.T) {
	wf, _, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	err := wf.Edit(context.Background(), posting.ID, applicant.ID, model.ApplicationPatch{}, StagedFiles{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithdraw_removesBothCopiesAndBlobs(t *testing.T) {
	blobs := storage.NewMemory()
	wf, postings, applicants := newTestWorkflow(blobs)
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	applicationID, err := wf.Submit(context.Background(), posting.ID, validDetail(applicant.ID),
		StagedFiles{
			Photo:     stageTempFile(t, "photo.jpg", "jpeg-bytes"),
			Signature: stageTempFile(t, "sign.png", "png-bytes"),
		})
	require.NoError(t, err)
	require.Equal(t, 2, blobs.Len())

	err = wf.Withdraw(context.Background(), posting.ID, applicationID, applicant.ID)
	require.NoError(t, err)

	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	assert.Empty(t, storedPosting.Applicants)

	storedApplicant, err := applicants.FindByID(context.Background(), nil, applicant.ID)
	require.NoError(t, err)
	assert.Empty(t, storedApplicant.AppliedPositions)

	assert.Equal(t, 0, blobs.Len())
	assert.Len(t, blobs.Deleted(), 2)
}

func TestWithdraw_wrongOwner(t *testing.T) {
	wf, postings, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	owner := createTestApplicant(t)
	other := createTestApplicant(t)

	applicationID, err := wf.Submit(context.Background(), posting.ID, validDetail(owner.ID), StagedFiles{})
	require.NoError(t, err)

	err = wf.Withdraw(context.Background(), posting.ID, applicationID, other.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	// Application survives the rejected withdrawal.
	storedPosting, err := postings.FindByID(context.Background(), nil, posting.ID)
	require.NoError(t, err)
	assert.Len(t, storedPosting.Applicants, 1)
}

func TestWithdraw_unknownApplication(t *testing.T) {
	wf, _, _ := newTestWorkflow(storage.NewMemory())
	posting := createTestPosting(t)
	applicant := createTestApplicant(t)

	err := wf.Withdraw(context.Background(), posting.ID, "JOB999-0001", applicant.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Package workflow orchestrates the application lifecycle: submission, edit,
// and withdrawal. Each operation mutates the JobPosting aggregate and the
// mirrored copy under the Applicant aggregate in a single database
// transaction; blob uploads and deletes sit outside the transaction and are
// reconciled best-effort.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/model"
	"JobDesk-backend/internal/storage"
)

// PostingStore is the posting persistence surface the workflows need. The tx
// argument scopes a call to a surrounding transaction. Loads go through the
// locking variant because every workflow read is followed by a full-aggregate
// save inside the same transaction.
type PostingStore interface {
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.JobPosting, error)
	Save(ctx context.Context, tx *gorm.DB, posting *model.JobPosting) error
}

// ApplicantStore is the applicant persistence surface the workflows need.
type ApplicantStore interface {
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Applicant, error)
	Save(ctx context.Context, tx *gorm.DB, applicant *model.Applicant) error
}

// Workflow runs the application submission, edit, and withdraw operations.
type Workflow struct {
	db         *database.DBinstanceStruct
	postings   PostingStore
	applicants ApplicantStore
	blobs      storage.BlobStore
	log        *zap.Logger
}

// New creates a Workflow with its collaborators injected.
func New(db *database.DBinstanceStruct, postings PostingStore, applicants ApplicantStore, blobs storage.BlobStore, log *zap.Logger) *Workflow {
	return &Workflow{
		db:         db,
		postings:   postings,
		applicants: applicants,
		blobs:      blobs,
		log:        log,
	}
}

// Submit validates and records a new application under both aggregates and
// returns the generated application id.
func (w *Workflow) Submit(ctx context.Context, postingID uint, detail model.ApplicationDetail, files StagedFiles) (string, error) {
	defer files.Cleanup(w.log)

	if err := validateRequired(&detail); err != nil {
		return "", err
	}

	var applicationID string
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posting, err := w.loadPosting(ctx, tx, postingID)
		if err != nil {
			return err
		}

		applicant, err := w.loadApplicant(ctx, tx, detail.ApplicantID)
		if err != nil {
			return err
		}

		if indexOfApplication(posting.Applicants, detail.ApplicantID) >= 0 {
			return fmt.Errorf("%w: applicant %s already applied to posting %d", ErrConflict, detail.ApplicantID, posting.ID)
		}

		applicationID = ApplicationID(PostingPrefix(posting.ID), len(posting.Applicants))
		detail.ApplicationID = applicationID
		detail.AppliedAt = time.Now()

		// Uploads run inside the closure but cannot be rolled back with
		// it; an abort after this point leaves orphan blobs (storage
		// cost, not a correctness issue).
		if err := w.uploadAttachments(ctx, &detail, files); err != nil {
			return err
		}

		posting.Applicants = append(posting.Applicants, model.Application{
			JobID:             posting.ID,
			ApplicationDetail: detail,
		})
		applicant.AppliedPositions = append(applicant.AppliedPositions, model.AppliedPosition{
			PostID:            posting.ID,
			ApplicationDetail: detail,
		})

		if err := w.postings.Save(ctx, tx, posting); err != nil {
			return fmt.Errorf("%w: save job posting: %v", ErrUpstream, err)
		}
		if err := w.applicants.Save(ctx, tx, applicant); err != nil {
			return fmt.Errorf("%w: save applicant: %v", ErrUpstream, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	w.log.Info("application submitted",
		zap.Uint("posting_id", postingID),
		zap.String("application_id", applicationID),
		zap.String("applicant_id", detail.ApplicantID.String()))
	return applicationID, nil
}

// validateRequired gates submission on the identity fields the rest of the
// pipeline depends on.
func validateRequired(detail *model.ApplicationDetail) error {
	var missing []string
	if detail.ApplicantID == uuid.Nil {
		missing = append(missing, "applicant_id")
	}
	if strings.TrimSpace(detail.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(detail.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(detail.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(detail.Contact) == "" {
		missing = append(missing, "contact")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// loadPosting reads the posting aggregate under a FOR UPDATE lock so that
// concurrent workflows on the same posting serialize before reading the
// embedded application list. Both workflow loaders lock posting first, then
// applicant, so two workflows never wait on each other in opposite order.
func (w *Workflow) loadPosting(ctx context.Context, tx *gorm.DB, id uint) (*model.JobPosting, error) {
	posting, err := w.postings.FindByIDForUpdate(ctx, tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: job posting %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load job posting: %v", ErrUpstream, err)
	}
	return posting, nil
}

func (w *Workflow) loadApplicant(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Applicant, error) {
	applicant, err := w.applicants.FindByIDForUpdate(ctx, tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: applicant %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load applicant: %v", ErrUpstream, err)
	}
	return applicant, nil
}

// uploadAttachments uploads every present slot and fills the matching URL
// field. Absent slots keep an empty URL; there is no placeholder asset.
func (w *Workflow) uploadAttachments(ctx context.Context, detail *model.ApplicationDetail, files StagedFiles) error {
	slots := []struct {
		file *StagedFile
		dst  *string
	}{
		{files.Photo, &detail.PhotoURL},
		{files.Certification, &detail.CertificationURL},
		{files.Signature, &detail.SignatureURL},
	}

	for _, slot := range slots {
		if slot.file == nil {
			continue
		}
		url, err := w.uploadStaged(ctx, slot.file)
		if err != nil {
			return err
		}
		*slot.dst = url
	}
	return nil
}

func (w *Workflow) uploadStaged(ctx context.Context, file *StagedFile) (string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return "", fmt.Errorf("%w: open staged upload: %v", ErrUpstream, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			w.log.Warn("failed to close staged upload", zap.Error(err))
		}
	}()

	url, err := w.blobs.Upload(ctx, f, file.OriginalName, file.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: upload attachment: %v", ErrUpstream, err)
	}
	return url, nil
}

// deleteBlob removes a blob best-effort: failures are logged and swallowed
// because the record mutation is the correctness-critical part.
func (w *Workflow) deleteBlob(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := w.blobs.Delete(ctx, url); err != nil {
		w.log.Warn("failed to delete attachment blob",
			zap.String("url", url),
			zap.Error(err))
	}
}

package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"JobDesk-backend/internal/model"
)

// Edit merges a partial update over the applicant's existing application on
// the posting and applies the identical outcome to the mirrored copy under
// the applicant aggregate. Replacement files displace the old blobs; stale
// blobs are deleted best-effort after the transaction commits, so an aborted
// edit never destroys attachments the stored record still references.
func (w *Workflow) Edit(ctx context.Context, postingID uint, applicantID uuid.UUID, patch model.ApplicationPatch, files StagedFiles) error {
	defer files.Cleanup(w.log)

	var stale []string
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posting, err := w.loadPosting(ctx, tx, postingID)
		if err != nil {
			return err
		}

		idx := indexOfApplication(posting.Applicants, applicantID)
		if idx < 0 {
			return fmt.Errorf("%w: application of applicant %s on posting %d", ErrNotFound, applicantID, postingID)
		}

		detail := posting.Applicants[idx].ApplicationDetail
		patch.Apply(&detail)
		if err := validateRequired(&detail); err != nil {
			return err
		}

		stale, err = w.replaceAttachments(ctx, &detail, files)
		if err != nil {
			return err
		}
		detail.AppliedAt = time.Now()

		posting.Applicants[idx].ApplicationDetail = detail

		applicant, err := w.loadApplicant(ctx, tx, applicantID)
		if err != nil {
			return err
		}
		midx := indexOfAppliedPosition(applicant.AppliedPositions, postingID, posting.Applicants[idx].ApplicationID)
		if midx < 0 {
			return fmt.Errorf("%w: applied position for posting %d on applicant %s", ErrNotFound, postingID, applicantID)
		}
		applicant.AppliedPositions[midx].ApplicationDetail = detail

		if err := w.postings.Save(ctx, tx, posting); err != nil {
			return fmt.Errorf("%w: save job posting: %v", ErrUpstream, err)
		}
		if err := w.applicants.Save(ctx, tx, applicant); err != nil {
			return fmt.Errorf("%w: save applicant: %v", ErrUpstream, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, url := range stale {
		w.deleteBlob(ctx, url)
	}

	w.log.Info("application edited",
		zap.Uint("posting_id", postingID),
		zap.String("applicant_id", applicantID.String()))
	return nil
}

// replaceAttachments handles the per-slot replacement rule: a supplied file
// displaces the stored blob (new one uploaded, old URL returned for deletion
// after commit); an absent slot keeps the stored URL untouched.
func (w *Workflow) replaceAttachments(ctx context.Context, detail *model.ApplicationDetail, files StagedFiles) ([]string, error) {
	slots := []struct {
		file *StagedFile
		dst  *string
	}{
		{files.Photo, &detail.PhotoURL},
		{files.Certification, &detail.CertificationURL},
		{files.Signature, &detail.SignatureURL},
	}

	var displaced []string
	for _, slot := range slots {
		if slot.file == nil {
			continue
		}
		if *slot.dst != "" {
			displaced = append(displaced, *slot.dst)
		}
		url, err := w.uploadStaged(ctx, slot.file)
		if err != nil {
			return nil, err
		}
		*slot.dst = url
	}
	return displaced, nil
}

func indexOfApplication(apps model.ApplicationList, applicantID uuid.UUID) int {
	for i, app := range apps {
		if app.ApplicantID == applicantID {
			return i
		}
	}
	return -1
}

func indexOfAppliedPosition(positions model.AppliedPositionList, postID uint, applicationID string) int {
	for i, pos := range positions {
		if pos.PostID == postID && pos.ApplicationID == applicationID {
			return i
		}
	}
	return -1
}

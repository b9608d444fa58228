package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"JobDesk-backend/internal/model"
)

// Withdraw removes the application from the posting and the mirrored copy
// from the owning applicant in one transaction, then requests deletion of its
// attachment blobs. Blob deletion runs after commit so an aborted withdrawal
// never destroys attachments that are still referenced.
func (w *Workflow) Withdraw(ctx context.Context, postingID uint, applicationID string, requester uuid.UUID) error {
	var removed model.Application

	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posting, err := w.loadPosting(ctx, tx, postingID)
		if err != nil {
			return err
		}

		idx := -1
		for i, app := range posting.Applicants {
			if app.ApplicationID == applicationID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: application %s on posting %d", ErrNotFound, applicationID, postingID)
		}

		removed = posting.Applicants[idx]
		if removed.ApplicantID != requester {
			return fmt.Errorf("%w: application %s belongs to another applicant", ErrNotOwner, applicationID)
		}
		posting.Applicants = append(posting.Applicants[:idx], posting.Applicants[idx+1:]...)

		applicant, err := w.loadApplicant(ctx, tx, removed.ApplicantID)
		if err != nil {
			return err
		}
		midx := indexOfAppliedPosition(applicant.AppliedPositions, postingID, applicationID)
		if midx < 0 {
			return fmt.Errorf("%w: applied position %s on applicant %s", ErrNotFound, applicationID, removed.ApplicantID)
		}
		applicant.AppliedPositions = append(applicant.AppliedPositions[:midx], applicant.AppliedPositions[midx+1:]...)

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

	for _, url := range removed.AttachmentURLs() {
		w.deleteBlob(ctx, url)
	}

	w.log.Info("application withdrawn",
		zap.Uint("posting_id", postingID),
		zap.String("application_id", applicationID))
	return nil
}

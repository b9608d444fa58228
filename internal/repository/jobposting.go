package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/model"
)

// JobPostingRepository owns the JobPosting aggregate, including the embedded
// application records.
type JobPostingRepository struct {
	db *gorm.DB
}

// NewJobPostingRepository creates a repository bound to the given database.
func NewJobPostingRepository(db *database.DBinstanceStruct) *JobPostingRepository {
	return &JobPostingRepository{db: db.DB}
}

func (r *JobPostingRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a new job posting.
func (r *JobPostingRepository) Create(ctx context.Context, tx *gorm.DB, posting *model.JobPosting) error {
	return r.conn(tx).WithContext(ctx).Create(posting).Error
}

// FindByID loads one posting aggregate by primary key.
func (r *JobPostingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*model.JobPosting, error) {
	var posting model.JobPosting
	if err := r.conn(tx).WithContext(ctx).First(&posting, id).Error; err != nil {
		return nil, err
	}
	return &posting, nil
}

// FindByIDForUpdate loads one posting aggregate by primary key and takes a
// FOR UPDATE row lock held until the surrounding transaction ends. Mutations
// of the embedded application list must use this load: a plain SELECT under
// READ COMMITTED lets two transactions read the same list and the later
// full-column save would silently drop the earlier append.
func (r *JobPostingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.JobPosting, error) {
	var posting model.JobPosting
	err := r.conn(tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&posting, id).Error
	if err != nil {
		return nil, err
	}
	return &posting, nil
}

// Save writes the whole aggregate, embedded applications included.
func (r *JobPostingRepository) Save(ctx context.Context, tx *gorm.DB, posting *model.JobPosting) error {
	return r.conn(tx).WithContext(ctx).Save(posting).Error
}

// Delete removes a posting aggregate. Attachment blobs referenced by its
// applications are not cleaned up here; orphan reconciliation is an external
// concern.
func (r *JobPostingRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	result := r.conn(tx).WithContext(ctx).Delete(&model.JobPosting{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

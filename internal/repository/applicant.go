// Package repository implements aggregate-oriented persistence for the
// Applicant and JobPosting aggregates. Every method accepts an optional tx so
// callers can scope a group of calls to one transaction.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/model"
)

// ErrEmailTaken is returned when creating an applicant whose email already
// exists.
var ErrEmailTaken = errors.New("email already registered")

// pgUniqueViolation is the postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// ApplicantRepository owns the Applicant aggregate, including the embedded
// applied-positions history.
type ApplicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository creates a repository bound to the given database.
func NewApplicantRepository(db *database.DBinstanceStruct) *ApplicantRepository {
	return &ApplicantRepository{db: db.DB}
}

func (r *ApplicantRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a new applicant. Email uniqueness is enforced at write time:
// the insert and the duplicate check run in one transaction, so concurrent
// signups for the same email cannot both succeed. The unique index backs this
// up; a 23505 from the index also maps to ErrEmailTaken.
func (r *ApplicantRepository) Create(ctx context.Context, tx *gorm.DB, applicant *model.Applicant) error {
	return r.conn(tx).WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var count int64
		if err := inner.Model(&model.Applicant{}).Where("email = ?", applicant.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if err := inner.Create(applicant).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
}

// FindByID loads one applicant aggregate by primary key.
func (r *ApplicantRepository) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := r.conn(tx).WithContext(ctx).First(&applicant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

// FindByIDForUpdate loads one applicant aggregate by primary key and takes a
// FOR UPDATE row lock held until the surrounding transaction ends. Required
// when mutating the embedded applied-positions list, for the same reason as
// JobPostingRepository.FindByIDForUpdate.
func (r *ApplicantRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.conn(tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&applicant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// FindByEmail loads one applicant aggregate by its unique email.
func (r *ApplicantRepository) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := r.conn(tx).WithContext(ctx).First(&applicant, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

// FindByVerificationToken loads the applicant holding the given email
// verification token.
func (r *ApplicantRepository) FindByVerificationToken(ctx context.Context, tx *gorm.DB, token string) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := r.conn(tx).WithContext(ctx).First(&applicant, "verification_token = ?", token).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

// FindByResetToken loads the applicant holding an unexpired password reset
// token. An expired token behaves like a missing record.
func (r *ApplicantRepository) FindByResetToken(ctx context.Context, tx *gorm.DB, token string) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.conn(tx).WithContext(ctx).
		Where("reset_password_token = ? AND reset_password_expires > ?", token, time.Now()).
		First(&applicant).Error
	if err != nil {
		return nil, err
	}
	return &applicant, nil
}

// Save writes the whole aggregate, embedded applied positions included.
func (r *ApplicantRepository) Save(ctx context.Context, tx *gorm.DB, applicant *model.Applicant) error {
	return r.conn(tx).WithContext(ctx).Save(applicant).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"referrals/internal/model"
)

// CandidateRepository defines candidate persistence operations.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *model.Candidate) error
	List(ctx context.Context, filter model.CandidateFilter) ([]model.Candidate, error)
	UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) (*model.Candidate, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.CandidateStatus) (int64, error)
}

type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new candidate repository.
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Create inserts a new candidate.
func (r *candidateRepository) Create(ctx context.Context, candidate *model.Candidate) error {
	return mapGormErr(r.db.WithContext(ctx).Create(candidate).Error)
}

// List returns candidates matching filter, newest first.
func (r *candidateRepository) List(ctx context.Context, filter model.CandidateFilter) ([]model.Candidate, error) {
	query := r.db.WithContext(ctx).Model(&model.Candidate{})
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(`(LOWER(name) LIKE ? OR LOWER(job_title) LIKE ?)`, pattern, pattern)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	candidates := make([]model.Candidate, 0)
	if err := query.Order("created_at DESC").Find(&candidates).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return candidates, nil
}

// UpdateStatus overwrites the status of a candidate while holding its row lock.
func (r *candidateRepository) UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) (*model.Candidate, error) {
	var candidate model.Candidate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&candidate).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Candidate{}).Where("id = ?", id).
			Update("status", status).Error; err != nil {
			return err
		}
		candidate.Status = status
		return nil
	})
	if err != nil {
		return nil, mapGormErr(err)
	}
	return &candidate, nil
}

// Delete removes a candidate permanently.
func (r *candidateRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Candidate{})
	if res.Error != nil {
		return mapGormErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Count returns the number of candidates.
func (r *candidateRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Candidate{}).Count(&n).Error; err != nil {
		return 0, mapGormErr(err)
	}
	return n, nil
}

// CountByStatus returns the number of candidates with the given status.
func (r *candidateRepository) CountByStatus(ctx context.Context, status model.CandidateStatus) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Candidate{}).
		Where("status = ?", status).Count(&n).Error; err != nil {
		return 0, mapGormErr(err)
	}
	return n, nil
}

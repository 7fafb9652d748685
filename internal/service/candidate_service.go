package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "referrals/internal/errors"
	"referrals/internal/model"
	"referrals/internal/repository"
	"referrals/internal/storage"
	"referrals/internal/validation"
)

const pdfContentType = "application/pdf"

// CreateCandidateInput holds the fields of a new referral.
type CreateCandidateInput struct {
	Name       string
	Email      string
	Phone      string
	JobTitle   string
	ReferredBy string
	// Resume is the raw resume file. Empty means no resume.
	Resume []byte
}

// CandidateStats holds candidate counts by status.
type CandidateStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Reviewed int64 `json:"reviewed"`
	Hired    int64 `json:"hired"`
}

// CandidateService manages referred candidates.
type CandidateService interface {
	CreateCandidate(ctx context.Context, in CreateCandidateInput) (*model.Candidate, error)
	ListCandidates(ctx context.Context, filter model.CandidateFilter) ([]model.Candidate, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Candidate, error)
	DeleteCandidate(ctx context.Context, id string) error
	GetStats(ctx context.Context) (*CandidateStats, error)
}

type candidateService struct {
	repo  repository.CandidateRepository
	blobs storage.BlobStore
	log   *zap.Logger
	now   func() time.Time
}

// NewCandidateService creates a new candidate service.
func NewCandidateService(repo repository.CandidateRepository, blobs storage.BlobStore, log *zap.Logger) CandidateService {
	return &candidateService{
		repo:  repo,
		blobs: blobs,
		log:   log.Named("candidates"),
		now:   time.Now,
	}
}

// CreateCandidate validates the input, uploads the resume if one is given and
// stores the candidate as Pending. Nothing is stored when the upload fails.
func (s *candidateService) CreateCandidate(ctx context.Context, in CreateCandidateInput) (*model.Candidate, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.ErrInvalidEmail
	}
	if !validation.IsValidPhone(in.Phone) {
		return nil, apperrors.ErrInvalidPhone
	}

	candidate := &model.Candidate{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Phone:      strings.TrimSpace(in.Phone),
		JobTitle:   strings.TrimSpace(in.JobTitle),
		Status:     model.CandidateStatusPending,
		ReferredBy: in.ReferredBy,
		CreatedAt:  s.now().UTC(),
	}

	if len(in.Resume) > 0 {
		url, err := s.uploadResume(ctx, in.Resume)
		if err != nil {
			return nil, err
		}
		candidate.ResumeURL = &url
	}

	if err := s.repo.Create(ctx, candidate); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}

	s.log.Info("candidate created",
		zap.String("candidate_id", candidate.ID),
		zap.String("referred_by", candidate.ReferredBy),
		zap.Bool("has_resume", candidate.ResumeURL != nil),
	)
	return candidate, nil
}

func (s *candidateService) uploadResume(ctx context.Context, data []byte) (string, error) {
	if !mimetype.Detect(data).Is(pdfContentType) {
		return "", apperrors.ErrInvalidResume
	}

	key := "resumes/" + uuid.NewString() + ".pdf"
	url, err := s.blobs.Upload(ctx, key, data, pdfContentType)
	if err != nil {
		s.log.Error("resume upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("%w: %w", apperrors.ErrUploadFailed, err)
	}
	return url, nil
}

// ListCandidates returns matching candidates, newest first.
func (s *candidateService) ListCandidates(ctx context.Context, filter model.CandidateFilter) ([]model.Candidate, error) {
	candidates, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if candidates == nil {
		candidates = []model.Candidate{}
	}
	return candidates, nil
}

// UpdateStatus sets the status of a candidate. Any transition is allowed.
func (s *candidateService) UpdateStatus(ctx context.Context, id string, status string) (*model.Candidate, error) {
	newStatus := model.CandidateStatus(status)
	if !newStatus.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	candidate, err := s.repo.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, apperrors.ErrCandidateNotFound
		}
		return nil, fmt.Errorf("update candidate status: %w", err)
	}

	s.log.Info("candidate status updated", zap.String("candidate_id", id), zap.String("status", status))
	return candidate, nil
}

// DeleteCandidate removes a candidate permanently.
func (s *candidateService) DeleteCandidate(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return apperrors.ErrCandidateNotFound
		}
		return fmt.Errorf("delete candidate: %w", err)
	}
	s.log.Info("candidate deleted", zap.String("candidate_id", id))
	return nil
}

// GetStats counts candidates in total and per status at call time.
func (s *candidateService) GetStats(ctx context.Context) (*CandidateStats, error) {
	var stats CandidateStats
	var err error

	if stats.Total, err = s.repo.Count(ctx); err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}
	counts := map[model.CandidateStatus]*int64{
		model.CandidateStatusPending:  &stats.Pending,
		model.CandidateStatusReviewed: &stats.Reviewed,
		model.CandidateStatusHired:    &stats.Hired,
	}
	for _, status := range model.CandidateStatuses {
		n, err := s.repo.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("count %s candidates: %w", status, err)
		}
		*counts[status] = n
	}
	return &stats, nil
}

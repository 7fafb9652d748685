package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "referrals/internal/errors"
	"referrals/internal/model"
	"referrals/internal/service"
)

func TestLoadCandidates_Embedded(t *testing.T) {
	got, err := loadCandidates(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, got)
	for _, c := range got {
		assert.NotEmpty(t, c.Email)
	}
}

func TestLoadCandidates_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Ann","email":"ann@x.com","phone":"5551234567","job_title":"QA"}]`), 0o600))

	got, err := loadCandidates(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []SeedCandidate{{Name: "Ann", Email: "ann@x.com", Phone: "5551234567", JobTitle: "QA"}}, got)
}

func TestLoadCandidates_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/candidates.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"Ann","email":"ann@x.com"}]`))
	}))
	defer srv.Close()

	got, err := loadCandidates(context.Background(), srv.URL+"/candidates.json")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ann", got[0].Name)

	_, err = loadCandidates(context.Background(), srv.URL+"/missing.json")
	assert.ErrorContains(t, err, "unexpected status code: 404")
}

// recordingCandidates is a CandidateService that keeps created candidates in memory.
type recordingCandidates struct {
	service.CandidateService
	created  []service.CreateCandidateInput
	updates  map[string]string
	existing []model.Candidate
}

func (r *recordingCandidates) ListCandidates(_ context.Context, _ model.CandidateFilter) ([]model.Candidate, error) {
	return r.existing, nil
}

func (r *recordingCandidates) CreateCandidate(_ context.Context, in service.CreateCandidateInput) (*model.Candidate, error) {
	if in.Email == "bad" {
		return nil, apperrors.ErrInvalidEmail
	}
	r.created = append(r.created, in)
	c := model.Candidate{ID: in.Email, Email: in.Email, ReferredBy: in.ReferredBy, Status: model.CandidateStatusPending}
	r.existing = append(r.existing, c)
	return &c, nil
}

func (r *recordingCandidates) UpdateStatus(_ context.Context, id string, status string) (*model.Candidate, error) {
	r.updates[id] = status
	return &model.Candidate{ID: id, Status: model.CandidateStatus(status)}, nil
}

func TestSeedCandidates(t *testing.T) {
	svc := &recordingCandidates{updates: map[string]string{}}
	items := []SeedCandidate{
		{Name: "A", Email: "a@x.com", Status: "Hired"},
		{Name: "B", Email: "bad"},
		{Name: "C", Email: "c@x.com", Status: "Pending"},
	}

	created, skipped, err := seedCandidates(context.Background(), svc, "u-1", items, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, created)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "u-1", svc.created[0].ReferredBy)
	assert.Equal(t, map[string]string{"a@x.com": "Hired"}, svc.updates)
}

func TestSeedCandidates_Rerun(t *testing.T) {
	svc := &recordingCandidates{
		updates: map[string]string{},
		existing: []model.Candidate{
			{ID: "other", Email: "b@x.com", ReferredBy: "u-2"},
		},
	}
	items := []SeedCandidate{
		{Name: "A", Email: "a@x.com"},
		{Name: "B", Email: "b@x.com"},
		{Name: "A again", Email: "A@X.com"},
	}

	created, skipped, err := seedCandidates(context.Background(), svc, "u-1", items, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, skipped)

	created, skipped, err = seedCandidates(context.Background(), svc, "u-1", items, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 3, skipped)
	assert.Len(t, svc.created, 2)
}

package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"referrals/internal/model"
	"referrals/internal/repository"
)

// memoryUserRepository is a stateful UserRepository with a unique email index.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]model.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.ID == user.ID {
			return repository.ErrDuplicateKey
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

// memoryCandidateRepository is a stateful CandidateRepository applying the
// same filter and ordering rules as the database backends.
type memoryCandidateRepository struct {
	mu         sync.Mutex
	candidates map[string]model.Candidate
}

func newMemoryCandidateRepository() *memoryCandidateRepository {
	return &memoryCandidateRepository{candidates: make(map[string]model.Candidate)}
}

func (r *memoryCandidateRepository) Create(_ context.Context, candidate *model.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.candidates[candidate.ID]; ok {
		return repository.ErrDuplicateKey
	}
	r.candidates[candidate.ID] = *candidate
	return nil
}

func (r *memoryCandidateRepository) List(_ context.Context, filter model.CandidateFilter) ([]model.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	search := strings.ToLower(filter.Search)
	out := make([]model.Candidate, 0)
	for _, c := range r.candidates {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.JobTitle), search) {
			continue
		}
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryCandidateRepository) UpdateStatus(_ context.Context, id string, status model.CandidateStatus) (*model.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.candidates[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	c.Status = status
	r.candidates[id] = c
	return &c, nil
}

func (r *memoryCandidateRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.candidates[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(r.candidates, id)
	return nil
}

func (r *memoryCandidateRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.candidates)), nil
}

func (r *memoryCandidateRepository) CountByStatus(_ context.Context, status model.CandidateStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.candidates {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

// steppingClock returns start, then start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}

package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"referrals/internal/model"
)

// newMongoDatabase returns a throwaway database on the server at MONGO_URI.
// Tests using it are skipped when MONGO_URI is not set.
func newMongoDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx, nil))

	database := client.Database("referrals_test_" + strings.ReplaceAll(uuid.NewString(), "-", ""))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return database
}

func TestMongoUserRepository(t *testing.T) {
	database := newMongoDatabase(t)
	ctx := context.Background()

	repo, err := NewMongoUserRepository(ctx, database)
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        "ann@example.com",
		PasswordHash: "hash",
		FullName:     "Ann",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Create(ctx, user))

	byEmail, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.CreatedAt, byID.CreatedAt.UTC())

	dup := *user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicateKey)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMongoCandidateRepository(t *testing.T) {
	database := newMongoDatabase(t)
	ctx := context.Background()

	repo, err := NewMongoCandidateRepository(ctx, database)
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seed := []model.Candidate{
		{Name: "Alice Smith", JobTitle: "Senior Engineer", Status: model.CandidateStatusPending},
		{Name: "Senator Bob", JobTitle: "Advisor", Status: model.CandidateStatusReviewed},
		{Name: "Carol Diaz", JobTitle: "Data Analyst (C++)", Status: model.CandidateStatusPending},
	}
	for i := range seed {
		seed[i].ID = uuid.NewString()
		seed[i].Email = "c" + string(rune('a'+i)) + "@example.com"
		seed[i].Phone = "5551234567"
		seed[i].ReferredBy = "u-1"
		seed[i].CreatedAt = start.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}
	alice, senator, carol := seed[0], seed[1], seed[2]

	listIDs := func(filter model.CandidateFilter) []string {
		t.Helper()
		got, err := repo.List(ctx, filter)
		require.NoError(t, err)
		out := make([]string, 0, len(got))
		for _, c := range got {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{carol.ID, senator.ID, alice.ID}, listIDs(model.CandidateFilter{}))
	assert.Equal(t, []string{senator.ID, alice.ID}, listIDs(model.CandidateFilter{Search: "SEN"}))
	assert.Equal(t, []string{carol.ID}, listIDs(model.CandidateFilter{Search: "(c++)"}))
	assert.Equal(t, []string{senator.ID}, listIDs(model.CandidateFilter{Search: "sen", Status: "Reviewed"}))
	assert.Empty(t, listIDs(model.CandidateFilter{Status: "Archived"}))

	updated, err := repo.UpdateStatus(ctx, alice.ID, model.CandidateStatusHired)
	require.NoError(t, err)
	assert.Equal(t, model.CandidateStatusHired, updated.Status)
	assert.Equal(t, alice.Name, updated.Name)

	_, err = repo.UpdateStatus(ctx, "missing", model.CandidateStatusHired)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	hired, err := repo.CountByStatus(ctx, model.CandidateStatusHired)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hired)

	require.NoError(t, repo.Delete(ctx, carol.ID))
	assert.ErrorIs(t, repo.Delete(ctx, carol.ID), ErrRecordNotFound)
	assert.NotContains(t, listIDs(model.CandidateFilter{}), carol.ID)

	dup := alice
	assert.ErrorIs(t, repo.Create(ctx, &dup), ErrDuplicateKey)
}

package repository

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"referrals/internal/model"
)

const candidatesCollection = "candidates"

type mongoCandidateRepository struct {
	coll *mongo.Collection
}

// NewMongoCandidateRepository creates a candidate repository backed by MongoDB.
func NewMongoCandidateRepository(ctx context.Context, db *mongo.Database) (CandidateRepository, error) {
	coll := db.Collection(candidatesCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("create candidate indexes: %w", err)
	}
	return &mongoCandidateRepository{coll: coll}, nil
}

func (r *mongoCandidateRepository) Create(ctx context.Context, candidate *model.Candidate) error {
	if _, err := r.coll.InsertOne(ctx, candidate); err != nil {
		return mapMongoErr(err)
	}
	return nil
}

func (r *mongoCandidateRepository) List(ctx context.Context, filter model.CandidateFilter) ([]model.Candidate, error) {
	cur, err := r.coll.Find(ctx, candidateQuery(filter),
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, mapMongoErr(err)
	}

	candidates := make([]model.Candidate, 0)
	if err := cur.All(ctx, &candidates); err != nil {
		return nil, mapMongoErr(err)
	}
	return candidates, nil
}

// candidateQuery translates a filter into a MongoDB query document.
func candidateQuery(filter model.CandidateFilter) bson.D {
	query := bson.D{}
	if filter.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: pattern}},
			bson.D{{Key: "job_title", Value: pattern}},
		}})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}
	return query
}

func (r *mongoCandidateRepository) UpdateStatus(ctx context.Context, id string, status model.CandidateStatus) (*model.Candidate, error) {
	var candidate model.Candidate
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&candidate)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &candidate, nil
}

func (r *mongoCandidateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *mongoCandidateRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	return n, mapMongoErr(err)
}

func (r *mongoCandidateRepository) CountByStatus(ctx context.Context, status model.CandidateStatus) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "status", Value: status}})
	return n, mapMongoErr(err)
}

package repository

import (
	"context"

	"interviewio/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunRepo stores the execution history of rooms
type RunRepo interface {
	Create(ctx context.Context, run *model.RunRecord) error
	ListByRoom(ctx context.Context, roomCode string, limit int64) ([]*model.RunRecord, error)
}

type runRepo struct {
	collection *mongo.Collection
}

func NewRunRepo(db *mongo.Database) RunRepo {
	return &runRepo{
		collection: db.Collection("runs"),
	}
}

func (r *runRepo) Create(ctx context.Context, run *model.RunRecord) error {
	_, err := r.collection.InsertOne(ctx, run)
	return err
}

func (r *runRepo) ListByRoom(ctx context.Context, roomCode string, limit int64) ([]*model.RunRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"roomCode": roomCode}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	runs := make([]*model.RunRecord, 0)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// EnsureIndexes creates the indexes the repositories rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("rooms").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("runs").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "roomCode", Value: 1}, {Key: "startedAt", Value: -1}},
	})
	return err
}

package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindscreen/internal/model"
)

// DefaultListLimit caps list queries when the caller passes no limit
const DefaultListLimit = 50

// AssessmentRepo handles MongoDB operations for stored assessments
type AssessmentRepo interface {
	Create(ctx context.Context, record *model.AssessmentRecord) error
	GetByID(ctx context.Context, id string) (*model.AssessmentRecord, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]*model.AssessmentRecord, error)
	List(ctx context.Context, limit int64) ([]*model.AssessmentRecord, error)
	CountByTier(ctx context.Context) (*model.TierStats, error)
}

type assessmentRepo struct {
	collection *mongo.Collection
}

// NewAssessmentRepo creates a new assessment repository
func NewAssessmentRepo(db *mongo.Database) AssessmentRepo {
	return &assessmentRepo{
		collection: db.Collection("assessments"),
	}
}

// EnsureIndexes creates the indexes history queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("assessments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *assessmentRepo) Create(ctx context.Context, record *model.AssessmentRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *assessmentRepo) GetByID(ctx context.Context, id string) (*model.AssessmentRecord, error) {
	var record model.AssessmentRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *assessmentRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]*model.AssessmentRecord, error) {
	return r.find(ctx, bson.M{"userId": userID}, limit)
}

func (r *assessmentRepo) List(ctx context.Context, limit int64) ([]*model.AssessmentRecord, error) {
	return r.find(ctx, bson.M{}, limit)
}

// find returns matching records newest first.
func (r *assessmentRepo) find(ctx context.Context, filter bson.M, limit int64) ([]*model.AssessmentRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []*model.AssessmentRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountByTier aggregates stored assessments by risk level.
func (r *assessmentRepo) CountByTier(ctx context.Context) (*model.TierStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$analysis.riskLevel"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "overrides", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$safetyOverride", 1, 0}},
			}}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Tier      model.RiskTier `bson:"_id"`
		Count     int64          `bson:"count"`
		Overrides int64          `bson:"overrides"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	stats := model.NewTierStats()
	for _, row := range rows {
		stats.ByTier[row.Tier] += row.Count
		stats.Total += row.Count
		stats.Overrides += row.Overrides
	}
	return stats, nil
}

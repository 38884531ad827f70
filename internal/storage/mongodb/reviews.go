package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"popcorn/proj/internal/domain/fields"
	"popcorn/proj/internal/domain/filters"
	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

const ReviewsCollection = "reviews"

type ReviewModel struct {
	collection *mongo.Collection
}

func NewReviewModel(db *Storage) *ReviewModel {
	return &ReviewModel{collection: db.DB.Collection(ReviewsCollection)}
}

func (m *ReviewModel) Insert(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.CreatedAt = time.Now()
	res, err := m.collection.InsertOne(ctx, review)
	if err != nil {
		// the unique (movieId, userId) index catches a concurrent duplicate
		// at commit time
		if mongo.IsDuplicateKeyError(err) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	review.ID = res.InsertedID.(primitive.ObjectID)
	return review, nil
}

func (m *ReviewModel) GetByID(ctx context.Context, id string) (*models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	var review models.Review
	if err := m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// Update merges the provided fields into the review; nil fields stay as-is.
func (m *ReviewModel) Update(ctx context.Context, id string, rating *fields.Rating, text *string) (*models.Review, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	set := bson.M{}
	if rating != nil {
		set["rating"] = *rating
	}
	if text != nil {
		set["reviewText"] = *text
	}
	if len(set) == 0 {
		return m.GetByID(ctx, id)
	}
	var review models.Review
	err = m.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (m *ReviewModel) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}
	res, err := m.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListForMovie returns the reviews for a title newest first, each with its
// author populated via a lookup against the users collection.
func (m *ReviewModel) ListForMovie(ctx context.Context, movieID int64, f filters.Filters) ([]models.Review, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"movieId": movieID}}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
		{{Key: "$skip", Value: f.Offset()}},
		{{Key: "$limit", Value: f.Limit()}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "author",
			"pipeline": []bson.M{
				{"$project": bson.M{"username": 1, "profilePicture": 1}},
			},
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$author",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// AverageForMovie recomputes the mean rating on every read; a title with no
// reviews averages to 0.
func (m *ReviewModel) AverageForMovie(ctx context.Context, movieID int64) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"movieId": movieID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := m.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)
	var results []struct {
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Average, nil
}

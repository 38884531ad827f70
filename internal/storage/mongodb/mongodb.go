package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Storage struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func New(ctx context.Context, uri string, dbName string) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &Storage{
		Client: client,
		DB:     client.Database(dbName),
	}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes every collection relies on:
// unique email/username on users, the verification-token lookup index,
// the (movieId, userId) uniqueness constraint on reviews and the movieId
// index used for listing reviews by title.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	_, err := s.DB.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "emailVerificationToken", Value: 1},
				{Key: "emailVerificationTokenExpiry", Value: 1},
			},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return err
	}
	_, err = s.DB.Collection(ReviewsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "movieId", Value: 1},
				{Key: "userId", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "movieId", Value: 1}},
		},
	})
	return err
}

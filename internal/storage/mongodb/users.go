package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

const UsersCollection = "users"

type UserModel struct {
	collection *mongo.Collection
}

func NewUserModel(db *Storage) *UserModel {
	return &UserModel{collection: db.DB.Collection(UsersCollection)}
}

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := m.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (m *UserModel) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"email": email})
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"username": username})
}

func (m *UserModel) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return m.findOne(ctx, bson.M{"emailVerificationToken": token})
}

func (m *UserModel) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := m.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// MarkVerified flips the verification flag for an unverified user holding a
// still-valid token and stores the one-time login token in the same update.
// The verification token itself is kept so a consumed token is recognizable
// later; only its expiry is cleared.
func (m *UserModel) MarkVerified(ctx context.Context, token, oneTimeToken string, oneTimeExpiry time.Time) (*models.User, error) {
	filter := bson.M{
		"emailVerificationToken":       token,
		"emailVerificationTokenExpiry": bson.M{"$gt": time.Now()},
		"isEmailVerified":              false,
	}
	update := bson.M{
		"$set": bson.M{
			"isEmailVerified":         true,
			"oneTimeLoginToken":       oneTimeToken,
			"oneTimeLoginTokenExpiry": oneTimeExpiry,
			"updatedAt":               time.Now(),
		},
		"$unset": bson.M{"emailVerificationTokenExpiry": ""},
	}
	return m.findOneAndUpdate(ctx, filter, update)
}

// SetVerificationToken replaces the verification token for an unverified
// account, used by the resend flow.
func (m *UserModel) SetVerificationToken(ctx context.Context, email, token string, expiry time.Time) (*models.User, error) {
	filter := bson.M{"email": email, "isEmailVerified": false}
	update := bson.M{
		"$set": bson.M{
			"emailVerificationToken":       token,
			"emailVerificationTokenExpiry": expiry,
			"updatedAt":                    time.Now(),
		},
	}
	return m.findOneAndUpdate(ctx, filter, update)
}

// ConsumeOneTimeToken atomically looks up an unexpired one-time login token
// and clears it, so a token can be exchanged for a session at most once.
func (m *UserModel) ConsumeOneTimeToken(ctx context.Context, token string) (*models.User, error) {
	filter := bson.M{
		"oneTimeLoginToken":       token,
		"oneTimeLoginTokenExpiry": bson.M{"$gt": time.Now()},
	}
	update := bson.M{
		"$unset": bson.M{"oneTimeLoginToken": "", "oneTimeLoginTokenExpiry": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}
	return m.findOneAndUpdate(ctx, filter, update)
}

func (m *UserModel) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*models.User, error) {
	var user models.User
	err := m.collection.FindOneAndUpdate(
		ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// PushListEntry appends an entry to the named list iff the movie is not
// already there, in a single conditional update. Moving a movie into the
// watched list evicts it from the watchlist as part of the same write.
// Returns storage.ErrConflict when the movie is already present and
// storage.ErrNotFound when the user does not exist.
func (m *UserModel) PushListEntry(ctx context.Context, userID string, list models.ListName, entry models.ListEntry) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	filter := bson.M{
		"_id": oid,
		string(list) + ".movieId": bson.M{"$ne": entry.MovieID},
	}
	update := bson.M{
		"$push": bson.M{string(list): entry},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if list == models.ListWatched {
		update["$pull"] = bson.M{string(models.ListWatchlist): bson.M{"movieId": entry.MovieID}}
	}
	user, err := m.findOneAndUpdate(ctx, filter, update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// no match: either the user is absent or the movie is already
			// in the list; a second lookup disambiguates
			count, countErr := m.collection.CountDocuments(ctx, bson.M{"_id": oid})
			if countErr != nil {
				return nil, countErr
			}
			if count == 0 {
				return nil, storage.ErrNotFound
			}
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// PullListEntry removes a movie from the named list. Removing an absent
// movie is a no-op success.
func (m *UserModel) PullListEntry(ctx context.Context, userID string, list models.ListName, movieID int64) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	update := bson.M{
		"$pull": bson.M{string(list): bson.M{"movieId": movieID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	return m.findOneAndUpdate(ctx, bson.M{"_id": oid}, update)
}

package reviews

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"popcorn/proj/internal/domain/fields"
	"popcorn/proj/internal/domain/filters"
	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

type ReviewStorage interface {
	Insert(ctx context.Context, review *models.Review) (*models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Update(ctx context.Context, id string, rating *fields.Rating, text *string) (*models.Review, error)
	Delete(ctx context.Context, id string) error
	ListForMovie(ctx context.Context, movieID int64, f filters.Filters) ([]models.Review, error)
	AverageForMovie(ctx context.Context, movieID int64) (float64, error)
}

type ReviewService struct {
	log     *slog.Logger
	storage ReviewStorage
}

func New(log *slog.Logger, storage ReviewStorage) *ReviewService {
	return &ReviewService{
		log:     log,
		storage: storage,
	}
}

// Create inserts one review per (user, movie); the unique index makes a
// concurrent duplicate lose at commit time.
func (s *ReviewService) Create(ctx context.Context, userID string, movieID int64, rating fields.Rating, text string) (*models.Review, error) {
	const op = "reviews.ReviewService.Create"
	log := s.log.With("op", op, "user_id", userID, "movie_id", movieID)

	if !rating.Valid() {
		return nil, ErrInvalidRating
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrReviewNotFound
	}
	review := &models.Review{
		MovieID:    movieID,
		UserID:     uid,
		Rating:     rating,
		ReviewText: text,
	}
	created, err := s.storage.Insert(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("duplicate review")
			return nil, ErrAlreadyReviewed
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

// Update merges the provided fields into the caller's own review.
func (s *ReviewService) Update(ctx context.Context, reviewID, callerID string, rating *fields.Rating, text *string) (*models.Review, error) {
	const op = "reviews.ReviewService.Update"
	log := s.log.With("op", op, "review_id", reviewID, "caller_id", callerID)

	if rating != nil && !rating.Valid() {
		return nil, ErrInvalidRating
	}
	review, err := s.getOwned(ctx, reviewID, callerID)
	if err != nil {
		return nil, err
	}
	updated, err := s.storage.Update(ctx, review.ID.Hex(), rating, text)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, reviewID, callerID string) error {
	const op = "reviews.ReviewService.Delete"
	log := s.log.With("op", op, "review_id", reviewID, "caller_id", callerID)

	review, err := s.getOwned(ctx, reviewID, callerID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, review.ID.Hex()); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

// getOwned is the ownership gate shared by Update and Delete.
func (s *ReviewService) getOwned(ctx context.Context, reviewID, callerID string) (*models.Review, error) {
	review, err := s.storage.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		s.log.Error(err.Error())
		return nil, err
	}
	if review.UserID.Hex() != callerID {
		return nil, ErrNotOwner
	}
	return review, nil
}

// ListForMovie returns a title's reviews newest first together with the
// average rating, recomputed on every read. Zero reviews average to 0.
func (s *ReviewService) ListForMovie(ctx context.Context, movieID int64, f filters.Filters) ([]models.Review, float64, error) {
	const op = "reviews.ReviewService.ListForMovie"
	log := s.log.With("op", op, "movie_id", movieID)

	f.Normalize()
	reviews, err := s.storage.ListForMovie(ctx, movieID, f)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	average, err := s.storage.AverageForMovie(ctx, movieID)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return reviews, average, nil
}

package reviews

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"popcorn/proj/internal/domain/fields"
	"popcorn/proj/internal/domain/filters"
	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

type fakeReviewStore struct {
	reviews []*models.Review
}

func (f *fakeReviewStore) Insert(ctx context.Context, review *models.Review) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.MovieID == review.MovieID && r.UserID == review.UserID {
			return nil, storage.ErrConflict
		}
	}
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now()
	f.reviews = append(f.reviews, review)
	copied := *review
	return &copied, nil
}

func (f *fakeReviewStore) GetByID(ctx context.Context, id string) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.ID.Hex() == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeReviewStore) Update(ctx context.Context, id string, rating *fields.Rating, text *string) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.ID.Hex() == id {
			if rating != nil {
				r.Rating = *rating
			}
			if text != nil {
				r.ReviewText = *text
			}
			copied := *r
			return &copied, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeReviewStore) Delete(ctx context.Context, id string) error {
	for i, r := range f.reviews {
		if r.ID.Hex() == id {
			f.reviews = append(f.reviews[:i], f.reviews[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeReviewStore) ListForMovie(ctx context.Context, movieID int64, fl filters.Filters) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.MovieID == movieID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReviewStore) AverageForMovie(ctx context.Context, movieID int64) (float64, error) {
	var sum float64
	var n int
	for _, r := range f.reviews {
		if r.MovieID == movieID {
			sum += float64(r.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func newTestService(t *testing.T) (*ReviewService, *fakeReviewStore) {
	t.Helper()
	store := &fakeReviewStore{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, store), store
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID().Hex()

	t.Run("rating acceptance", func(t *testing.T) {
		accepted := []float64{0, 0.5, 2.5, 5}
		rejected := []float64{-1, -0.5, 3.3, 5.5, 100}
		for _, v := range accepted {
			svc, _ := newTestService(t)
			_, err := svc.Create(ctx, userID, 603, fields.Rating(v), "good")
			assert.NoError(t, err, "rating %v should be accepted", v)
		}
		for _, v := range rejected {
			svc, _ := newTestService(t)
			_, err := svc.Create(ctx, userID, 603, fields.Rating(v), "good")
			assert.ErrorIs(t, err, ErrInvalidRating, "rating %v should be rejected", v)
		}
	})
	t.Run("one review per user per movie", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, userID, 603, 4, "great")
		require.NoError(t, err)
		_, err = svc.Create(ctx, userID, 603, 2, "changed my mind")
		assert.ErrorIs(t, err, ErrAlreadyReviewed)

		// a different user may still review the same movie
		_, err = svc.Create(ctx, primitive.NewObjectID().Hex(), 603, 5, "")
		assert.NoError(t, err)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID().Hex()
	svc, _ := newTestService(t)
	created, err := svc.Create(ctx, owner, 603, 4, "great")
	require.NoError(t, err)

	t.Run("owner can update", func(t *testing.T) {
		rating := fields.Rating(2.5)
		text := "rewatched, less great"
		updated, err := svc.Update(ctx, created.ID.Hex(), owner, &rating, &text)
		require.NoError(t, err)
		assert.Equal(t, rating, updated.Rating)
		assert.Equal(t, text, updated.ReviewText)
	})
	t.Run("partial update keeps the other field", func(t *testing.T) {
		rating := fields.Rating(3)
		updated, err := svc.Update(ctx, created.ID.Hex(), owner, &rating, nil)
		require.NoError(t, err)
		assert.Equal(t, rating, updated.Rating)
		assert.Equal(t, "rewatched, less great", updated.ReviewText)
	})
	t.Run("non-owner is rejected", func(t *testing.T) {
		rating := fields.Rating(1)
		_, err := svc.Update(ctx, created.ID.Hex(), primitive.NewObjectID().Hex(), &rating, nil)
		assert.ErrorIs(t, err, ErrNotOwner)
	})
	t.Run("invalid rating", func(t *testing.T) {
		rating := fields.Rating(4.3)
		_, err := svc.Update(ctx, created.ID.Hex(), owner, &rating, nil)
		assert.ErrorIs(t, err, ErrInvalidRating)
	})
	t.Run("unknown review", func(t *testing.T) {
		rating := fields.Rating(1)
		_, err := svc.Update(ctx, primitive.NewObjectID().Hex(), owner, &rating, nil)
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID().Hex()
	svc, store := newTestService(t)
	created, err := svc.Create(ctx, owner, 603, 4, "great")
	require.NoError(t, err)

	t.Run("non-owner is rejected", func(t *testing.T) {
		err := svc.Delete(ctx, created.ID.Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrNotOwner)
		assert.Len(t, store.reviews, 1)
	})
	t.Run("owner can delete", func(t *testing.T) {
		err := svc.Delete(ctx, created.ID.Hex(), owner)
		require.NoError(t, err)
		assert.Empty(t, store.reviews)
	})
	t.Run("unknown review", func(t *testing.T) {
		err := svc.Delete(ctx, created.ID.Hex(), owner)
		assert.ErrorIs(t, err, ErrReviewNotFound)
	})
}

func TestListForMovie(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	t.Run("zero reviews average to zero", func(t *testing.T) {
		reviews, average, err := svc.ListForMovie(ctx, 603, filters.Filters{})
		require.NoError(t, err)
		assert.Empty(t, reviews)
		assert.Zero(t, average)
	})
	t.Run("average over the movie's reviews only", func(t *testing.T) {
		_, err := svc.Create(ctx, primitive.NewObjectID().Hex(), 603, 4, "")
		require.NoError(t, err)
		_, err = svc.Create(ctx, primitive.NewObjectID().Hex(), 603, 5, "")
		require.NoError(t, err)
		_, err = svc.Create(ctx, primitive.NewObjectID().Hex(), 550, 1, "")
		require.NoError(t, err)

		reviews, average, err := svc.ListForMovie(ctx, 603, filters.Filters{})
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
		assert.InDelta(t, 4.5, average, 1e-9)
	})
}

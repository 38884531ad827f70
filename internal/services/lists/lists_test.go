package lists

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

// fakeListsStore mirrors the conditional-update contract of the mongo
// layer: a push into a list already holding the movie is a conflict, and a
// push into watched evicts the movie from the watchlist.
type fakeListsStore struct {
	users map[string]*models.User
}

func (f *fakeListsStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeListsStore) PushListEntry(ctx context.Context, userID string, list models.ListName, entry models.ListEntry) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	target := &u.WatchList
	if list == models.ListWatched {
		target = &u.Watched
	}
	for _, e := range *target {
		if e.MovieID == entry.MovieID {
			return nil, storage.ErrConflict
		}
	}
	*target = append(*target, entry)
	if list == models.ListWatched {
		kept := u.WatchList[:0]
		for _, e := range u.WatchList {
			if e.MovieID != entry.MovieID {
				kept = append(kept, e)
			}
		}
		u.WatchList = kept
	}
	copied := *u
	return &copied, nil
}

func (f *fakeListsStore) PullListEntry(ctx context.Context, userID string, list models.ListName, movieID int64) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	target := &u.WatchList
	if list == models.ListWatched {
		target = &u.Watched
	}
	kept := (*target)[:0]
	for _, e := range *target {
		if e.MovieID != movieID {
			kept = append(kept, e)
		}
	}
	*target = kept
	copied := *u
	return &copied, nil
}

func newTestService(t *testing.T) (*ListService, string) {
	t.Helper()
	userID := primitive.NewObjectID().Hex()
	store := &fakeListsStore{users: map[string]*models.User{
		userID: {WatchList: []models.ListEntry{}, Watched: []models.ListEntry{}},
	}}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(log, store), userID
}

func movieIDs(entries []models.ListEntry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MovieID)
	}
	return ids
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	t.Run("adds to watchlist", func(t *testing.T) {
		svc, userID := newTestService(t)
		lists, err := svc.Add(ctx, userID, models.ListWatchlist, 603, "The Matrix", "/poster.jpg")
		require.NoError(t, err)
		assert.Equal(t, []int64{603}, movieIDs(lists.WatchList))
		assert.Empty(t, lists.Watched)
		assert.False(t, lists.WatchList[0].AddedAt.IsZero())
	})
	t.Run("duplicate add conflicts", func(t *testing.T) {
		svc, userID := newTestService(t)
		_, err := svc.Add(ctx, userID, models.ListWatchlist, 603, "The Matrix", "")
		require.NoError(t, err)
		_, err = svc.Add(ctx, userID, models.ListWatchlist, 603, "The Matrix", "")
		assert.ErrorIs(t, err, ErrAlreadyInList)
	})
	t.Run("watched add evicts from watchlist", func(t *testing.T) {
		svc, userID := newTestService(t)
		_, err := svc.Add(ctx, userID, models.ListWatchlist, 603, "The Matrix", "")
		require.NoError(t, err)
		lists, err := svc.Add(ctx, userID, models.ListWatched, 603, "The Matrix", "")
		require.NoError(t, err)
		assert.Empty(t, lists.WatchList)
		assert.Equal(t, []int64{603}, movieIDs(lists.Watched))
	})
	t.Run("same movie may sit in watchlist after being watched", func(t *testing.T) {
		svc, userID := newTestService(t)
		_, err := svc.Add(ctx, userID, models.ListWatched, 603, "The Matrix", "")
		require.NoError(t, err)
		lists, err := svc.Add(ctx, userID, models.ListWatchlist, 603, "The Matrix", "")
		require.NoError(t, err)
		assert.Equal(t, []int64{603}, movieIDs(lists.WatchList))
		assert.Equal(t, []int64{603}, movieIDs(lists.Watched))
	})
	t.Run("unknown list", func(t *testing.T) {
		svc, userID := newTestService(t)
		_, err := svc.Add(ctx, userID, models.ListName("favorites"), 603, "The Matrix", "")
		assert.ErrorIs(t, err, ErrUnknownList)
	})
	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Add(ctx, primitive.NewObjectID().Hex(), models.ListWatchlist, 603, "The Matrix", "")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	t.Run("removes an entry", func(t *testing.T) {
		svc, userID := newTestService(t)
		_, err := svc.Add(ctx, userID, models.ListWatchlist, 603, "The Matrix", "")
		require.NoError(t, err)
		lists, err := svc.Remove(ctx, userID, models.ListWatchlist, 603)
		require.NoError(t, err)
		assert.Empty(t, lists.WatchList)
	})
	t.Run("removing an absent movie is a no-op", func(t *testing.T) {
		svc, userID := newTestService(t)
		lists, err := svc.Remove(ctx, userID, models.ListWatchlist, 42)
		require.NoError(t, err)
		assert.Empty(t, lists.WatchList)
	})
	t.Run("only touches the named list", func(t *testing.T) {
		svc, userID := newTestService(t)
		_, err := svc.Add(ctx, userID, models.ListWatched, 603, "The Matrix", "")
		require.NoError(t, err)
		lists, err := svc.Remove(ctx, userID, models.ListWatchlist, 603)
		require.NoError(t, err)
		assert.Equal(t, []int64{603}, movieIDs(lists.Watched))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, userID := newTestService(t)
	_, err := svc.Add(ctx, userID, models.ListWatchlist, 603, "The Matrix", "")
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, models.ListWatched, 550, "Fight Club", "")
	require.NoError(t, err)

	watchlist, err := svc.Get(ctx, userID, models.ListWatchlist)
	require.NoError(t, err)
	assert.Equal(t, []int64{603}, movieIDs(watchlist))

	watched, err := svc.Get(ctx, userID, models.ListWatched)
	require.NoError(t, err)
	assert.Equal(t, []int64{550}, movieIDs(watched))

	_, err = svc.Get(ctx, userID, models.ListName("favorites"))
	assert.ErrorIs(t, err, ErrUnknownList)
}

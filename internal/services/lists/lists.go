package lists

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"popcorn/proj/internal/domain/models"
	"popcorn/proj/internal/storage"
)

type ListsStorage interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	PushListEntry(ctx context.Context, userID string, list models.ListName, entry models.ListEntry) (*models.User, error)
	PullListEntry(ctx context.Context, userID string, list models.ListName, movieID int64) (*models.User, error)
}

// ListService owns the two per-user movie lists. Uniqueness within a list
// and the watchlist eviction on "watched" adds are enforced by the storage
// layer's conditional updates, not by read-then-write checks here.
type ListService struct {
	log     *slog.Logger
	storage ListsStorage
}

func New(log *slog.Logger, storage ListsStorage) *ListService {
	return &ListService{
		log:     log,
		storage: storage,
	}
}

// Lists is the pair returned by every mutation so callers can re-render
// both lists without another read.
type Lists struct {
	WatchList []models.ListEntry `json:"watchList"`
	Watched   []models.ListEntry `json:"watched"`
}

func listsOf(user *models.User) *Lists {
	return &Lists{WatchList: user.WatchList, Watched: user.Watched}
}

func (s *ListService) Add(ctx context.Context, userID string, list models.ListName, movieID int64, title, coverImage string) (*Lists, error) {
	const op = "lists.ListService.Add"
	log := s.log.With("op", op, "user_id", userID, "list", list, "movie_id", movieID)

	if !list.IsValid() {
		return nil, ErrUnknownList
	}
	entry := models.ListEntry{
		MovieID:    movieID,
		Title:      title,
		CoverImage: coverImage,
		AddedAt:    time.Now(),
	}
	user, err := s.storage.PushListEntry(ctx, userID, list, entry)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			log.Info("user not found")
			return nil, ErrUserNotFound
		case errors.Is(err, storage.ErrConflict):
			log.Info("movie already in list")
			return nil, ErrAlreadyInList
		}
		log.Error(err.Error())
		return nil, err
	}
	return listsOf(user), nil
}

// Remove filters a movie out of the named list. Removing an absent movie
// is a no-op success.
func (s *ListService) Remove(ctx context.Context, userID string, list models.ListName, movieID int64) (*Lists, error) {
	const op = "lists.ListService.Remove"
	log := s.log.With("op", op, "user_id", userID, "list", list, "movie_id", movieID)

	if !list.IsValid() {
		return nil, ErrUnknownList
	}
	user, err := s.storage.PullListEntry(ctx, userID, list, movieID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return listsOf(user), nil
}

func (s *ListService) Get(ctx context.Context, userID string, list models.ListName) ([]models.ListEntry, error) {
	const op = "lists.ListService.Get"
	log := s.log.With("op", op, "user_id", userID, "list", list)

	if !list.IsValid() {
		return nil, ErrUnknownList
	}
	user, err := s.storage.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	if list == models.ListWatched {
		return user.Watched, nil
	}
	return user.WatchList, nil
}

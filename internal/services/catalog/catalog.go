package catalog

import (
	"context"
	"log/slog"

	"popcorn/proj/internal/clients/tmdb"
)

// MetadataProvider is the read-only boundary to the third-party catalog.
type MetadataProvider interface {
	TrendingMovies(ctx context.Context, page int) (*tmdb.MoviePage, error)
	MoviesByCategory(ctx context.Context, category string, page int) (*tmdb.MoviePage, error)
	SearchMovies(ctx context.Context, query string, page int) (*tmdb.MoviePage, error)
	MovieByID(ctx context.Context, movieID int64) (*tmdb.MovieDetails, error)
	MovieCredits(ctx context.Context, movieID int64) (*tmdb.Credits, error)
	SimilarMovies(ctx context.Context, movieID int64) (*tmdb.MoviePage, error)
	MovieVideos(ctx context.Context, movieID int64) (*tmdb.VideoPage, error)
	TrendingTV(ctx context.Context, page int) (*tmdb.TVPage, error)
	TVByCategory(ctx context.Context, category string, page int) (*tmdb.TVPage, error)
	TVByID(ctx context.Context, seriesID int64) (*tmdb.TVDetails, error)
	SimilarTV(ctx context.Context, seriesID int64) (*tmdb.TVPage, error)
	TVCredits(ctx context.Context, seriesID int64) (*tmdb.Credits, error)
	TVSeason(ctx context.Context, seriesID int64, seasonNumber int) (*tmdb.Season, error)
	TVEpisode(ctx context.Context, seriesID int64, seasonNumber, episodeNumber int) (*tmdb.Episode, error)
}

// CatalogService is a stateless pass-through to the metadata provider;
// nothing here is persisted or cached, and failed calls are not retried.
type CatalogService struct {
	log      *slog.Logger
	provider MetadataProvider
}

func New(log *slog.Logger, provider MetadataProvider) *CatalogService {
	return &CatalogService{
		log:      log,
		provider: provider,
	}
}

func logged[T any](s *CatalogService, op string, result *T, err error) (*T, error) {
	if err != nil {
		s.log.Error(err.Error(), "op", op)
		return nil, err
	}
	return result, nil
}

func (s *CatalogService) TrendingMovies(ctx context.Context, page int) (*tmdb.MoviePage, error) {
	res, err := s.provider.TrendingMovies(ctx, page)
	return logged(s, "catalog.TrendingMovies", res, err)
}

func (s *CatalogService) MoviesByCategory(ctx context.Context, category string, page int) (*tmdb.MoviePage, error) {
	res, err := s.provider.MoviesByCategory(ctx, category, page)
	return logged(s, "catalog.MoviesByCategory", res, err)
}

func (s *CatalogService) SearchMovies(ctx context.Context, query string, page int) (*tmdb.MoviePage, error) {
	res, err := s.provider.SearchMovies(ctx, query, page)
	return logged(s, "catalog.SearchMovies", res, err)
}

func (s *CatalogService) MovieByID(ctx context.Context, movieID int64) (*tmdb.MovieDetails, error) {
	res, err := s.provider.MovieByID(ctx, movieID)
	return logged(s, "catalog.MovieByID", res, err)
}

func (s *CatalogService) MovieCredits(ctx context.Context, movieID int64) (*tmdb.Credits, error) {
	res, err := s.provider.MovieCredits(ctx, movieID)
	return logged(s, "catalog.MovieCredits", res, err)
}

func (s *CatalogService) SimilarMovies(ctx context.Context, movieID int64) (*tmdb.MoviePage, error) {
	res, err := s.provider.SimilarMovies(ctx, movieID)
	return logged(s, "catalog.SimilarMovies", res, err)
}

func (s *CatalogService) MovieVideos(ctx context.Context, movieID int64) (*tmdb.VideoPage, error) {
	res, err := s.provider.MovieVideos(ctx, movieID)
	return logged(s, "catalog.MovieVideos", res, err)
}

func (s *CatalogService) TrendingTV(ctx context.Context, page int) (*tmdb.TVPage, error) {
	res, err := s.provider.TrendingTV(ctx, page)
	return logged(s, "catalog.TrendingTV", res, err)
}

func (s *CatalogService) TVByCategory(ctx context.Context, category string, page int) (*tmdb.TVPage, error) {
	res, err := s.provider.TVByCategory(ctx, category, page)
	return logged(s, "catalog.TVByCategory", res, err)
}

func (s *CatalogService) TVByID(ctx context.Context, seriesID int64) (*tmdb.TVDetails, error) {
	res, err := s.provider.TVByID(ctx, seriesID)
	return logged(s, "catalog.TVByID", res, err)
}

func (s *CatalogService) SimilarTV(ctx context.Context, seriesID int64) (*tmdb.TVPage, error) {
	res, err := s.provider.SimilarTV(ctx, seriesID)
	return logged(s, "catalog.SimilarTV", res, err)
}

func (s *CatalogService) TVCredits(ctx context.Context, seriesID int64) (*tmdb.Credits, error) {
	res, err := s.provider.TVCredits(ctx, seriesID)
	return logged(s, "catalog.TVCredits", res, err)
}

func (s *CatalogService) TVSeason(ctx context.Context, seriesID int64, seasonNumber int) (*tmdb.Season, error) {
	res, err := s.provider.TVSeason(ctx, seriesID, seasonNumber)
	return logged(s, "catalog.TVSeason", res, err)
}

func (s *CatalogService) TVEpisode(ctx context.Context, seriesID int64, seasonNumber, episodeNumber int) (*tmdb.Episode, error) {
	res, err := s.provider.TVEpisode(ctx, seriesID, seasonNumber, episodeNumber)
	return logged(s, "catalog.TVEpisode", res, err)
}

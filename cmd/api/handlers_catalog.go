package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"popcorn/proj/internal/clients/tmdb"
)

type catalogQuery struct {
	Page  int    `schema:"page"`
	Query string `schema:"query"`
}

func (app *Application) readCatalogQuery(w http.ResponseWriter, r *http.Request) (catalogQuery, bool) {
	var q catalogQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, "Invalid query parameters")
		return q, false
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q, true
}

func (app *Application) respondCatalog(w http.ResponseWriter, r *http.Request, key string, result any, err error) {
	if err != nil {
		if errors.Is(err, tmdb.ErrUpstream) {
			app.Http.ServerError(w, r, err, "Failed to fetch data from the movie catalog")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{key: result}, "")
}

func (app *Application) trendingMovies(w http.ResponseWriter, r *http.Request) {
	q, ok := app.readCatalogQuery(w, r)
	if !ok {
		return
	}
	page, err := app.Services.Catalog.TrendingMovies(r.Context(), q.Page)
	app.respondCatalog(w, r, "movies", page, err)
}

func (app *Application) moviesByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(chi.URLParam(r, "category"))
	if !tmdb.IsMovieCategory(category) {
		app.Http.NotFound(w, r, "Unknown movie category")
		return
	}
	q, ok := app.readCatalogQuery(w, r)
	if !ok {
		return
	}
	page, err := app.Services.Catalog.MoviesByCategory(r.Context(), category, q.Page)
	app.respondCatalog(w, r, "movies", page, err)
}

func (app *Application) searchMovies(w http.ResponseWriter, r *http.Request) {
	q, ok := app.readCatalogQuery(w, r)
	if !ok {
		return
	}
	if q.Query == "" {
		app.Http.BadRequest(w, r, "Missing search query")
		return
	}
	page, err := app.Services.Catalog.SearchMovies(r.Context(), q.Query, q.Page)
	app.respondCatalog(w, r, "movies", page, err)
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractInt64Param(w, r, "movieId")
	if !ok {
		return
	}
	details, err := app.Services.Catalog.MovieByID(r.Context(), movieID)
	app.respondCatalog(w, r, "movie", details, err)
}

func (app *Application) getMovieCredits(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractInt64Param(w, r, "movieId")
	if !ok {
		return
	}
	credits, err := app.Services.Catalog.MovieCredits(r.Context(), movieID)
	app.respondCatalog(w, r, "credits", credits, err)
}

func (app *Application) getSimilarMovies(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractInt64Param(w, r, "movieId")
	if !ok {
		return
	}
	page, err := app.Services.Catalog.SimilarMovies(r.Context(), movieID)
	app.respondCatalog(w, r, "movies", page, err)
}

func (app *Application) getMovieVideos(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractInt64Param(w, r, "movieId")
	if !ok {
		return
	}
	videos, err := app.Services.Catalog.MovieVideos(r.Context(), movieID)
	app.respondCatalog(w, r, "videos", videos, err)
}

func (app *Application) trendingTV(w http.ResponseWriter, r *http.Request) {
	q, ok := app.readCatalogQuery(w, r)
	if !ok {
		return
	}
	page, err := app.Services.Catalog.TrendingTV(r.Context(), q.Page)
	app.respondCatalog(w, r, "shows", page, err)
}

func (app *Application) tvByCategory(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(chi.URLParam(r, "category"))
	if !tmdb.IsTVCategory(category) {
		app.Http.NotFound(w, r, "Unknown tv category")
		return
	}
	q, ok := app.readCatalogQuery(w, r)
	if !ok {
		return
	}
	page, err := app.Services.Catalog.TVByCategory(r.Context(), category, q.Page)
	app.respondCatalog(w, r, "shows", page, err)
}

func (app *Application) getTV(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := app.extractInt64Param(w, r, "seriesId")
	if !ok {
		return
	}
	details, err := app.Services.Catalog.TVByID(r.Context(), seriesID)
	app.respondCatalog(w, r, "show", details, err)
}

func (app *Application) getSimilarTV(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := app.extractInt64Param(w, r, "seriesId")
	if !ok {
		return
	}
	page, err := app.Services.Catalog.SimilarTV(r.Context(), seriesID)
	app.respondCatalog(w, r, "shows", page, err)
}

func (app *Application) getTVCredits(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := app.extractInt64Param(w, r, "seriesId")
	if !ok {
		return
	}
	credits, err := app.Services.Catalog.TVCredits(r.Context(), seriesID)
	app.respondCatalog(w, r, "credits", credits, err)
}

func (app *Application) getTVSeason(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := app.extractInt64Param(w, r, "seriesId")
	if !ok {
		return
	}
	seasonNumber, ok := app.extractIntParam(w, r, "seasonNumber")
	if !ok {
		return
	}
	season, err := app.Services.Catalog.TVSeason(r.Context(), seriesID, seasonNumber)
	app.respondCatalog(w, r, "season", season, err)
}

func (app *Application) getTVEpisode(w http.ResponseWriter, r *http.Request) {
	seriesID, ok := app.extractInt64Param(w, r, "seriesId")
	if !ok {
		return
	}
	seasonNumber, ok := app.extractIntParam(w, r, "seasonNumber")
	if !ok {
		return
	}
	episodeNumber, ok := app.extractIntParam(w, r, "episodeNumber")
	if !ok {
		return
	}
	episode, err := app.Services.Catalog.TVEpisode(r.Context(), seriesID, seasonNumber, episodeNumber)
	app.respondCatalog(w, r, "episode", episode, err)
}

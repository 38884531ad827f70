package main

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Get("/verify-email", app.verifyEmail)
			r.Post("/verify-email/new-token", app.newVerificationToken)
			r.Post("/login", app.login)
			r.Post("/login/one-time", app.oneTimeLogin)
		})
		r.Route("/lists", func(r chi.Router) {
			r.Use(app.requireAuthenticatedUser)
			r.Get("/{list}", app.getList)
			r.Post("/{list}", app.addToList)
			r.Delete("/{list}/{movieId}", app.removeFromList)
		})
		r.Route("/reviews", func(r chi.Router) {
			r.Get("/movie/{movieId}", app.listMovieReviews)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Post("/", app.createReview)
				r.Patch("/{id}", app.updateReview)
				r.Delete("/{id}", app.deleteReview)
			})
		})
		r.Route("/movies", func(r chi.Router) {
			r.Get("/trending", app.trendingMovies)
			r.Get("/search", app.searchMovies)
			r.Get("/category/{category}", app.moviesByCategory)
			r.Route("/{movieId:[0-9]+}", func(r chi.Router) {
				r.Get("/", app.getMovie)
				r.Get("/credits", app.getMovieCredits)
				r.Get("/similar", app.getSimilarMovies)
				r.Get("/videos", app.getMovieVideos)
			})
		})
		r.Route("/tv", func(r chi.Router) {
			r.Get("/trending", app.trendingTV)
			r.Get("/category/{category}", app.tvByCategory)
			r.Route("/{seriesId:[0-9]+}", func(r chi.Router) {
				r.Get("/", app.getTV)
				r.Get("/credits", app.getTVCredits)
				r.Get("/similar", app.getSimilarTV)
				r.Get("/seasons/{seasonNumber:[0-9]+}", app.getTVSeason)
				r.Get("/seasons/{seasonNumber:[0-9]+}/episodes/{episodeNumber:[0-9]+}", app.getTVEpisode)
			})
		})
	})
	return router
}

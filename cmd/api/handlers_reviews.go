package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"popcorn/proj/internal/domain/fields"
	"popcorn/proj/internal/domain/filters"
	validatorlib "popcorn/proj/internal/lib/validator"
	"popcorn/proj/internal/services/reviews"
)

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MovieID    int64    `json:"movieId" validate:"required,gt=0"`
		Rating     *float64 `json:"rating" validate:"required,halfstep"`
		ReviewText string   `json:"reviewText" validate:"omitempty,max=2000"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validatorlib.ValidateStruct(app.validator, req); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	user := app.sessionUser(r)
	review, err := app.Services.Reviews.Create(r.Context(), user.ID, req.MovieID, fields.Rating(*req.Rating), req.ReviewText)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrAlreadyReviewed):
			app.Http.Conflict(w, r, "You have already reviewed this title")
		case errors.Is(err, reviews.ErrInvalidRating):
			app.Http.BadRequest(w, r, "Rating must be between 0 and 5 in half-star steps")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "Review posted")
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	var req struct {
		Rating     *float64 `json:"rating" validate:"omitempty,halfstep"`
		ReviewText *string  `json:"reviewText" validate:"omitempty,max=2000"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validatorlib.ValidateStruct(app.validator, req); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	var rating *fields.Rating
	if req.Rating != nil {
		v := fields.Rating(*req.Rating)
		rating = &v
	}
	user := app.sessionUser(r)
	review, err := app.Services.Reviews.Update(r.Context(), reviewID, user.ID, rating, req.ReviewText)
	if err != nil {
		app.handleReviewErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "Review updated")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	user := app.sessionUser(r)
	if err := app.Services.Reviews.Delete(r.Context(), reviewID, user.ID); err != nil {
		app.handleReviewErr(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Review deleted")
}

func (app *Application) handleReviewErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrReviewNotFound):
		app.Http.NotFound(w, r, "Review not found")
	case errors.Is(err, reviews.ErrNotOwner):
		app.Http.Forbidden(w, r, "You can only modify your own reviews")
	case errors.Is(err, reviews.ErrInvalidRating):
		app.Http.BadRequest(w, r, "Rating must be between 0 and 5 in half-star steps")
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) listMovieReviews(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractInt64Param(w, r, "movieId")
	if !ok {
		return
	}
	var f filters.Filters
	if err := queryDecoder.Decode(&f, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, "Invalid query parameters")
		return
	}
	list, average, err := app.Services.Reviews.ListForMovie(r.Context(), movieID, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"reviews":       list,
		"averageRating": average,
	}, "")
}

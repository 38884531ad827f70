package main

import (
	"errors"
	"net/http"

	validatorlib "popcorn/proj/internal/lib/validator"
	"popcorn/proj/internal/services/lists"
)

func (app *Application) getList(w http.ResponseWriter, r *http.Request) {
	list, ok := app.extractListName(w, r)
	if !ok {
		return
	}
	user := app.sessionUser(r)
	entries, err := app.Services.Lists.Get(r.Context(), user.ID, list)
	if err != nil {
		switch {
		case errors.Is(err, lists.ErrUserNotFound):
			app.Http.NotFound(w, r, "User not found")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"entries": entries}, "")
}

func (app *Application) addToList(w http.ResponseWriter, r *http.Request) {
	list, ok := app.extractListName(w, r)
	if !ok {
		return
	}
	var req struct {
		MovieID    int64  `json:"movieId" validate:"required,gt=0"`
		Title      string `json:"title" validate:"required,max=200"`
		CoverImage string `json:"coverImage" validate:"omitempty,max=500"`
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
	updated, err := app.Services.Lists.Add(r.Context(), user.ID, list, req.MovieID, req.Title, req.CoverImage)
	if err != nil {
		switch {
		case errors.Is(err, lists.ErrAlreadyInList):
			app.Http.Conflict(w, r, "This title is already in the list")
		case errors.Is(err, lists.ErrUserNotFound):
			app.Http.NotFound(w, r, "User not found")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{
		"watchList": updated.WatchList,
		"watched":   updated.Watched,
	}, "Added to list")
}

func (app *Application) removeFromList(w http.ResponseWriter, r *http.Request) {
	list, ok := app.extractListName(w, r)
	if !ok {
		return
	}
	movieID, ok := app.extractInt64Param(w, r, "movieId")
	if !ok {
		return
	}
	user := app.sessionUser(r)
	updated, err := app.Services.Lists.Remove(r.Context(), user.ID, list, movieID)
	if err != nil {
		switch {
		case errors.Is(err, lists.ErrUserNotFound):
			app.Http.NotFound(w, r, "User not found")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{
		"watchList": updated.WatchList,
		"watched":   updated.Watched,
	}, "Removed from list")
}

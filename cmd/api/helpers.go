package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"

	"popcorn/proj/internal/domain/models"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func (app *Application) extractInt64Param(w http.ResponseWriter, r *http.Request, name string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, fmt.Sprintf("%s must be greater than zero", name))
		return 0, false
	}
	return id, true
}

func (app *Application) extractIntParam(w http.ResponseWriter, r *http.Request, name string) (n int, extracted bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n < 0 {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return n, true
}

// extractListName maps the url segment to a stored list name. The url uses
// the lowercase spelling, the document field keeps the original camelCase.
func (app *Application) extractListName(w http.ResponseWriter, r *http.Request) (models.ListName, bool) {
	switch chi.URLParam(r, "list") {
	case "watchlist":
		return models.ListWatchlist, true
	case "watched":
		return models.ListWatched, true
	default:
		app.Http.NotFound(w, r, "Unknown list, expected 'watchlist' or 'watched'")
		return "", false
	}
}

func (app *Application) sessionUser(r *http.Request) *models.SessionUser {
	user, ok := r.Context().Value(CtxKeyUser).(*models.SessionUser)
	if !ok || user == nil {
		return models.AnonymousUser
	}
	return user
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}

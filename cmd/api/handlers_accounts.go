package main

import (
	"errors"
	"fmt"
	"net/http"

	"popcorn/proj/internal/domain/models"
	validatorlib "popcorn/proj/internal/lib/validator"
	"popcorn/proj/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName" validate:"required,max=50"`
		LastName  string `json:"lastName" validate:"required,max=50"`
		Username  string `json:"username" validate:"required,alphanum,min=3,max=30"`
		Email     string `json:"email" validate:"required,email"`
		Password  string `json:"password" validate:"required,password"`
		Gender    string `json:"gender" validate:"required,oneof=male female other"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validatorlib.ValidateStruct(app.validator, req); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	user, err := app.Services.Auth.Signup(r.Context(), auth.SignupParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Gender:    models.Gender(req.Gender),
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			app.Http.Conflict(w, r, "An account with this email already exists")
		case errors.Is(err, auth.ErrUsernameTaken):
			app.Http.Conflict(w, r, "This username is already taken")
		case errors.Is(err, auth.ErrUserExists):
			app.Http.Conflict(w, r, "An account with these credentials already exists")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(
		w, r,
		envelop{"user": user.Public()},
		"Account created. Check your email for a verification link.",
	)
}

func (app *Application) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		app.Http.BadRequest(w, r, "Missing verification token")
		return
	}
	user, loginToken, err := app.Services.Auth.VerifyEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyVerified):
			app.Http.Ok(w, r, nil, "Email is already verified, you can log in")
		case errors.Is(err, auth.ErrInvalidToken):
			app.Http.BadRequest(w, r, "Invalid or expired verification token")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{
		"user":       user.Public(),
		"loginToken": loginToken,
	}, "Email verified successfully")
}

func (app *Application) newVerificationToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validatorlib.ValidateStruct(app.validator, req); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	if err := app.Services.Auth.ResendVerification(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, "No account found for this email")
		case errors.Is(err, auth.ErrAlreadyVerified):
			app.Http.Conflict(w, r, "Email is already verified")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, nil, fmt.Sprintf("A new verification link was sent to %s", req.Email))
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validatorlib.ValidateStruct(app.validator, req); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	token, user, err := app.Services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			app.Http.Unauthorized(w, r, "Invalid email or password")
		case errors.Is(err, auth.ErrEmailNotVerified):
			app.Http.Unauthorized(w, r, "Please verify your email before logging in")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{
		"token": token,
		"user":  user.Public(),
	}, "Logged in successfully")
}

func (app *Application) oneTimeLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token" validate:"required"`
	}
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if validationErrs := validatorlib.ValidateStruct(app.validator, req); validationErrs != nil {
		app.Http.UnprocessableEntity(w, r, validationErrs)
		return
	}
	token, user, err := app.Services.Auth.OneTimeLogin(r.Context(), req.Token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			app.Http.Unauthorized(w, r, "Invalid or expired login token")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{
		"token": token,
		"user":  user.Public(),
	}, "Logged in successfully")
}

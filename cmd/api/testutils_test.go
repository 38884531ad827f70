package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	govalidator "github.com/go-playground/validator/v10"

	"popcorn/proj/internal/config"
	validatorlib "popcorn/proj/internal/lib/validator"
	"popcorn/proj/internal/services"
	"popcorn/proj/internal/services/auth"
)

// NewTestApplication builds an application without a database or smtp
// connection. Only the pieces middleware and handler tests touch are wired.
func NewTestApplication(cfg *config.Config, t *testing.T) *Application {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{
			Debug: false,
			Auth: config.Auth{
				Secret:     "test-secret",
				SessionTTL: time.Hour,
			},
		}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := validator.RegisterValidation("password", validatorlib.ValidatePassword(cfg.Auth.PasswordRequireSpecial)); err != nil {
		t.Fatal(err)
	}
	if err := validator.RegisterValidation("halfstep", validatorlib.ValidateHalfStep); err != nil {
		t.Fatal(err)
	}
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: validator,
		Services: &services.Services{
			Auth: auth.New(log, nil, nil, nil, auth.Config{
				Secret:     cfg.Auth.Secret,
				SessionTTL: cfg.Auth.SessionTTL,
			}),
		},
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}

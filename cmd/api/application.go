package main

import (
	"log/slog"

	govalidator "github.com/go-playground/validator/v10"

	"popcorn/proj/internal/api/tasks"
	"popcorn/proj/internal/config"
	validatorlib "popcorn/proj/internal/lib/validator"
	"popcorn/proj/internal/services"
	"popcorn/proj/internal/storage/mongodb"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	Services  *services.Services
	validator *govalidator.Validate
	bgTasks   *tasks.BackgroundTasks
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *mongodb.Storage, bgTasks *tasks.BackgroundTasks) *Application {
	validator := govalidator.New(govalidator.WithRequiredStructEnabled())
	if err := validator.RegisterValidation("password", validatorlib.ValidatePassword(cfg.Auth.PasswordRequireSpecial)); err != nil {
		panic(err)
	}
	if err := validator.RegisterValidation("halfstep", validatorlib.ValidateHalfStep); err != nil {
		panic(err)
	}
	return &Application{
		cfg:       cfg,
		log:       log,
		validator: validator,
		Services:  services.New(log, cfg, storage, bgTasks),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
		bgTasks: bgTasks,
	}
}

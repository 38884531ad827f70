package services

import (
	"log/slog"

	"popcorn/proj/internal/clients/tmdb"
	"popcorn/proj/internal/config"
	"popcorn/proj/internal/mails"
	"popcorn/proj/internal/services/auth"
	"popcorn/proj/internal/services/catalog"
	"popcorn/proj/internal/services/lists"
	"popcorn/proj/internal/services/reviews"
	"popcorn/proj/internal/storage/mongodb"
)

type Services struct {
	Auth    *auth.AuthService
	Lists   *lists.ListService
	Reviews *reviews.ReviewService
	Catalog *catalog.CatalogService
}

func New(log *slog.Logger, cfg *config.Config, storage *mongodb.Storage, taskExecutor auth.TaskExecutor) *Services {
	models := mongodb.NewModels(storage)
	mailer := mails.New(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Timeout,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
		cfg.SMTP.Sender,
		cfg.SMTP.RetriesCount,
	)
	tmdbClient := tmdb.New(cfg.TMDB.ApiKey, cfg.TMDB.BaseURL, cfg.TMDB.Timeout)
	return &Services{
		Auth: auth.New(log, models.Users, mailer, taskExecutor, auth.Config{
			Secret:          cfg.Auth.Secret,
			SessionTTL:      cfg.Auth.SessionTTL,
			VerificationTTL: cfg.Auth.VerificationTTL,
			OneTimeTTL:      cfg.Auth.OneTimeTTL,
			BcryptCost:      cfg.Auth.BcryptCost,
			SiteURL:         cfg.SiteURL,
		}),
		Lists:   lists.New(log, models.Users),
		Reviews: reviews.New(log, models.Reviews),
		Catalog: catalog.New(log, tmdbClient),
	}
}

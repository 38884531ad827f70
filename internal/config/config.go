package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Debug   bool    `yaml:"debug"`
	SiteURL string  `yaml:"site_url" env:"SITE_URL" env-default:"http://localhost:8000"`
	Limiter Limiter `yaml:"limiter"`
	Server  Server  `yaml:"server"`
	DB      DB      `yaml:"db"`
	Auth    Auth    `yaml:"auth"`
	SMTP    SMTP    `yaml:"smtp"`
	TMDB    TMDB    `yaml:"tmdb"`
	Tasks   Tasks   `yaml:"tasks"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Server struct {
	Port string `yaml:"port" env-default:"8000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	URI            string        `yaml:"uri" env:"MONGO_URI" env-required:"true"`
	Name           string        `yaml:"name" env-default:"popcorn"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env-default:"10s"`
}

type Auth struct {
	Secret          string        `yaml:"secret" env:"APP_SECRET" env-required:"true"`
	SessionTTL      time.Duration `yaml:"session_ttl" env-default:"168h"`
	VerificationTTL time.Duration `yaml:"verification_ttl" env-default:"24h"`
	OneTimeTTL      time.Duration `yaml:"one_time_ttl" env-default:"5m"`
	BcryptCost      int           `yaml:"bcrypt_cost" env-default:"12"`
	// PasswordRequireSpecial switches the signup password policy between the
	// letters+digits baseline and the stricter variant that also wants a
	// special character.
	PasswordRequireSpecial bool `yaml:"password_require_special" env-default:"false"`
}

type SMTP struct {
	Host         string        `yaml:"host" env:"SMTP_HOST"`
	Port         int           `yaml:"port" env-default:"25"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env-default:"Popcorn <no-reply@popcorn.example>"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type TMDB struct {
	ApiKey  string        `yaml:"api_key" env:"TMDB_API_KEY"`
	BaseURL string        `yaml:"base_url" env-default:"https://api.themoviedb.org/3"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Tasks struct {
	MaxWorkers   int `yaml:"max_workers" env-default:"4"`
	MaxQueueSize int `yaml:"max_queue_size" env-default:"100"`
}

func MustLoad(configPath string) *Config {
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Errorf("config file %s not found", configPath))
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(err)
	}

	return &cfg
}

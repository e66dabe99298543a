package config

import "github.com/kelseyhightower/envconfig"

type Server struct {
	Port          string `envconfig:"SERVER_PORT" default:"4000"`
	ReadTimeout   int    `envconfig:"SERVER_TIMEOUT" default:"10"`
	AllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"*"`
}

type Db struct {
	Dialect        string `envconfig:"DB_DIALECT" default:"sqlite"`
	Source         string `envconfig:"DB_NAME" default:"weather.db"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_DIR" default:"./migrations"`
}

type Email struct {
	Host     string `envconfig:"EMAIL_HOST"`
	Port     int    `envconfig:"EMAIL_PORT" default:"587"`
	User     string `envconfig:"EMAIL_USER"`
	Password string `envconfig:"EMAIL_PASSWORD"`
	From     string `envconfig:"EMAIL_FROM"`
}

type Notifier struct {
	// CronSpec fires at hour-of-day boundaries divisible by 3, matching the
	// original every-3-hours schedule rather than a rolling interval.
	CronSpec string `envconfig:"NOTIFIER_CRON" default:"0 */3 * * *"`
	// MaxConcurrent bounds in-flight per-user runs within one tick.
	// 0 means unbounded.
	MaxConcurrent int `envconfig:"NOTIFIER_MAX_CONCURRENT" default:"0"`
}

type Cache struct {
	// RedisAddr empty disables the weather response cache.
	RedisAddr string `envconfig:"REDIS_ADDR"`
	TTL       string `envconfig:"WEATHER_CACHE_TTL" default:"10m"`
}

type Config struct {
	OpenWeatherMapAPIKey string `envconfig:"OPENWEATHERMAP_API_KEY"`
	OpenWeatherMapURL    string `envconfig:"OPENWEATHERMAP_URL" default:"https://api.openweathermap.org/data/2.5/weather"`

	LogsPath string `envconfig:"LOGS_PATH" default:"./logs/http.log"`

	Server   Server
	DB       Db
	Email    Email
	Notifier Notifier
	Cache    Cache
}

func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return ":" + c.Server.Port
}

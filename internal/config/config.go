package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database
	Auth        Auth
	Billing     Billing

	// Public web app, used to build password reset links.
	WebURL         string   `env:"WEB_URL" envDefault:"http://localhost:5173"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	SeedDemo       bool     `env:"SEED_DEMO" envDefault:"false"`

	SMTP      SMTP      `envPrefix:"SMTP_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
	RabbitMQ  RabbitMQ  `envPrefix:"RABBITMQ_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"postgres"` // postgres, mysql, sqlite
	URL    string `env:"DATABASE_URL"`
}

type Auth struct {
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"dev_secret"`
	TokenTTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`
	AdminSecret string        `env:"ADMIN_SECRET"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
	ResetTTL    time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
}

type Billing struct {
	TrialDays     int    `env:"TRIAL_DAYS" envDefault:"7"`
	WhatsAppPhone string `env:"WHATSAPP_PHONE" envDefault:"5595991143280"`
}

type SMTP struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
	From string `env:"FROM"`
}

func (s SMTP) Configured() bool {
	return s.Host != "" && s.User != "" && s.Pass != "" && s.From != ""
}

type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type RateLimit struct {
	Enabled        bool          `env:"ENABLED" envDefault:"true"`
	Capacity       int           `env:"CAPACITY" envDefault:"20"`
	RefillTokens   int           `env:"REFILL_TOKENS" envDefault:"1"`
	RefillInterval time.Duration `env:"REFILL_INTERVAL" envDefault:"3s"`
	TTL            time.Duration `env:"TTL" envDefault:"10m"`
	Prefix         string        `env:"PREFIX" envDefault:"rl"`
}

type RabbitMQ struct {
	URL            string        `env:"URL"`
	Exchange       string        `env:"EXCHANGE" envDefault:"orders_topic"`
	QueueSize      int           `env:"QUEUE_SIZE" envDefault:"256"`
	DialTimeout    time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
	PublishTimeout time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"5s"`
	RetryBackoff   time.Duration `env:"RETRY_BACKOFF" envDefault:"15s"`
}

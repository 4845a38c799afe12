package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	Admin    AdminConfig    `env:",prefix=ADMIN_"`
	Intake   IntakeConfig   `env:",prefix=INTAKE_"`
	SMTP     SMTPConfig     `env:",prefix=SMTP_"`
	Captcha  CaptchaConfig  `env:",prefix=CAPTCHA_"`
	Security SecurityConfig `env:",prefix="`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host          string `env:"HOST,default=localhost"`
	Port          string `env:"PORT,default=5432"`
	User          string `env:"USER,default=tax_intake"`
	Password      string `env:"PASSWORD,default=tax_intake_password"`
	DBName        string `env:"DB,default=tax_intake_db"`
	SSLMode       string `env:"SSLMODE,default=disable"`
	MigrationsDir string `env:"MIGRATIONS_DIR,default=migrations"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// AdminConfig configures the single operator account allowed to issue and
// revoke invitations. The password is supplied as a bcrypt hash, never in
// the clear.
type AdminConfig struct {
	Email        string   `env:"EMAIL,required"`
	PasswordHash string   `env:"PASSWORD_HASH,required"`
	JWTSecret    string   `env:"JWT_SECRET,required"`
	SessionTTL   Duration `env:"SESSION_TTL,default=8h"`
}

type IntakeConfig struct {
	// OriginURL is the public base URL embedded in intake links,
	// e.g. https://taxes.example.com.
	OriginURL          string   `env:"ORIGIN_URL,default=http://localhost:8080"`
	DefaultTokenExpiry Duration `env:"TOKEN_EXPIRY,default=72h"`
	DefaultOneTime     bool     `env:"TOKEN_ONE_TIME,default=true"`
}

type SMTPConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=587"`
	Username string `env:"USERNAME,default="`
	Password string `env:"PASSWORD,default="`
	From     string `env:"FROM,default=no-reply@localhost"`
	// ContactTo receives messages relayed from the public contact form.
	ContactTo string `env:"CONTACT_TO,default="`
}

type CaptchaConfig struct {
	VerifyURL string `env:"VERIFY_URL,default=https://challenges.cloudflare.com/turnstile/v0/siteverify"`
	Secret    string `env:"SECRET,default="`
}

type SecurityConfig struct {
	// TokenPepper is mixed into every intake token before hashing so a
	// database dump alone cannot be used to forge usable tokens.
	TokenPepper       string   `env:"TOKEN_PEPPER,required"`
	BCryptCost        int      `env:"BCRYPT_COST,default=12"`
	RateLimitRequests int      `env:"RATE_LIMIT_REQUESTS,default=10"`
	RateLimitWindow   Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
	HoneypotBanTTL    Duration `env:"HONEYPOT_BAN_TTL,default=24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.Admin.JWTSecret) < 32 {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET must be at least 32 characters long")
	}

	if len(config.Security.TokenPepper) < 16 {
		return nil, fmt.Errorf("TOKEN_PEPPER must be at least 16 characters long")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}

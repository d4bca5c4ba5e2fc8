package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Generation  GenerationConfig  `yaml:"generation"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
// UploadTimeout replaces the read and write deadlines for the upload exchange:
// receiving the body, forwarding it and writing the reply.
type ServerConfig struct {
	Host              string        `yaml:"host"                env:"SERVER_HOST"                env-default:"0.0.0.0"`
	Port              int           `yaml:"port"                env:"SERVER_PORT"                env-default:"8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"SERVER_READ_HEADER_TIMEOUT" env-default:"10s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"SERVER_WRITE_TIMEOUT"       env-default:"60s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"SERVER_IDLE_TIMEOUT"        env-default:"60s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"SERVER_SHUTDOWN_TIMEOUT"    env-default:"10s"`
	MaxUploadBytes    int64         `yaml:"max_upload_bytes"    env:"SERVER_MAX_UPLOAD_BYTES"    env-default:"104857600"`
	UploadTimeout     time.Duration `yaml:"upload_timeout"      env:"SERVER_UPLOAD_TIMEOUT"      env-default:"15m"`
}

// DatabaseConfig holds account-store connection settings.
// Driver is "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"sqlite"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-default:"file:dashboard.db?_pragma=busy_timeout(5000)"`
	MaxOpenConns    int           `yaml:"max_open_conns"     env:"DATABASE_MAX_OPEN_CONNS"     env-default:"10"`
	MaxIdleConns    int           `yaml:"max_idle_conns"     env:"DATABASE_MAX_IDLE_CONNS"     env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
}

// AuthConfig holds session and credential settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"         env:"AUTH_JWT_SECRET"         env-required:"true"`
	JWTIssuer        string        `yaml:"jwt_issuer"         env:"AUTH_JWT_ISSUER"         env-default:"transcribe-dashboard"`
	SessionTTL       time.Duration `yaml:"session_ttl"        env:"AUTH_SESSION_TTL"        env-default:"12h"`
	CookieName       string        `yaml:"cookie_name"        env:"AUTH_COOKIE_NAME"        env-default:"session"`
	CookieSecure     bool          `yaml:"cookie_secure"      env:"AUTH_COOKIE_SECURE"      env-default:"false"`
	PasswordHashCost int           `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"12"`
	LoginRatePerMin  int           `yaml:"login_rate_per_min" env:"AUTH_LOGIN_RATE_PER_MIN" env-default:"10"`
}

// TranscriberConfig holds settings for the remote transcription service.
// A zero RequestTimeout leaves JSON calls bounded by the request context only.
type TranscriberConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"TRANSCRIBER_BASE_URL"        env-default:"http://18.189.195.46"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"TRANSCRIBER_REQUEST_TIMEOUT" env-default:"0s"`
	UploadTimeout  time.Duration `yaml:"upload_timeout"  env:"TRANSCRIBER_UPLOAD_TIMEOUT"  env-default:"30s"`
}

// GenerationConfig holds the simulated outline/article generation delays.
type GenerationConfig struct {
	OutlineDelay time.Duration `yaml:"outline_delay" env:"GENERATION_OUTLINE_DELAY" env-default:"1500ms"`
	ArticleDelay time.Duration `yaml:"article_delay" env:"GENERATION_ARTICLE_DELAY" env-default:"2s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// Every field can be overridden through the environment variable in its env tag.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	Log struct {
		// Level is the minimum zap level: debug, info, warn or error
		Level string `env:"LOG_LEVEL" env-default:"info" yaml:"level"`
	} `yaml:"log"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// MaxBodyBytes limits JSON request bodies
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576" yaml:"maxBodyBytes"`
		// RateLimit is the sustained requests per second allowed per client IP. Zero disables it.
		RateLimit float64 `env:"HTTP_RATE_LIMIT" env-default:"20" yaml:"rateLimit"`
		// RateBurst is the burst size for RateLimit
		RateBurst int `env:"HTTP_RATE_BURST" env-default:"40" yaml:"rateBurst"`
		// CORSOrigins lists the browser origins allowed to call the API. "*" allows any.
		CORSOrigins []string `env:"HTTP_CORS_ORIGINS" env-default:"*" env-separator:"," yaml:"corsOrigins"`
		// TrustedProxies lists proxy addresses or CIDRs whose forwarding headers identify the client.
		TrustedProxies []string `env:"HTTP_TRUSTED_PROXIES" env-separator:"," yaml:"trustedProxies"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"portal" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	JWT struct {
		// PublicKey is the PEM encoded RSA key used to verify bearer tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM encoded RSA key used by the jwt command to sign tokens
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Storage is the S3 compatible bucket holding documents
	Storage struct {
		Endpoint  string `env:"STORAGE_ENDPOINT" env-default:"https://nyc3.digitaloceanspaces.com" yaml:"endpoint"`
		Region    string `env:"STORAGE_REGION" env-default:"us-east-1" yaml:"region"`
		Bucket    string `env:"STORAGE_BUCKET" env-default:"sitimm-files" yaml:"bucket"`
		AccessKey string `env:"STORAGE_ACCESS_KEY" yaml:"accessKey"`
		SecretKey string `env:"STORAGE_SECRET_KEY" yaml:"secretKey"`
		// Timeout bounds a single availability check
		Timeout time.Duration `env:"STORAGE_TIMEOUT" env-default:"10s" yaml:"timeout"`
	} `yaml:"storage"`

	Documents struct {
		// MaxAttempts is how many failed checks move a document to FAILED
		MaxAttempts int `env:"DOCUMENTS_MAX_ATTEMPTS" env-default:"5" yaml:"maxAttempts"`
		// ResultCacheTTL is how long a check result is reused for newly registered documents with the same URL
		ResultCacheTTL time.Duration `env:"DOCUMENTS_RESULT_CACHE_TTL" env-default:"24h" yaml:"resultCacheTTL"`
		// ChecksPerSecond throttles requests to object storage
		ChecksPerSecond float64 `env:"DOCUMENTS_CHECKS_PER_SECOND" env-default:"10" yaml:"checksPerSecond"`
		// ChecksBurst is the burst size for ChecksPerSecond
		ChecksBurst int `env:"DOCUMENTS_CHECKS_BURST" env-default:"5" yaml:"checksBurst"`
		// Workers is the number of concurrent check jobs
		Workers int `env:"DOCUMENTS_WORKERS" env-default:"20" yaml:"workers"`
	} `yaml:"documents"`

	Links struct {
		// FallbackDelay is how long the opener waits before showing the web search fallback
		FallbackDelay time.Duration `env:"LINKS_FALLBACK_DELAY" env-default:"2s" yaml:"fallbackDelay"`
	} `yaml:"links"`

	Translation struct {
		// Backend is either postgres or memory
		Backend string `env:"TRANSLATION_BACKEND" env-default:"postgres" yaml:"backend"`
		// MemoryCapacity bounds the memory backend
		MemoryCapacity int `env:"TRANSLATION_MEMORY_CAPACITY" env-default:"1024" yaml:"memoryCapacity"`
	} `yaml:"translation"`

	Theme struct {
		DayStart   time.Duration `env:"THEME_DAY_START" env-default:"7h" yaml:"dayStart"`
		NightStart time.Duration `env:"THEME_NIGHT_START" env-default:"19h" yaml:"nightStart"`
		// Location is the IANA zone the offsets are expressed in
		Location string `env:"THEME_LOCATION" env-default:"America/Mexico_City" yaml:"location"`
	} `yaml:"theme"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error; defaults and the environment are used instead.
func Load(configPath string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(configPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not stat config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// ThemeLocation resolves Theme.Location.
func (c *Config) ThemeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Theme.Location)
	if err != nil {
		return nil, fmt.Errorf("could not load theme location: %w", err)
	}

	return loc, nil
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "POGEN_APP_ENV"
	EnvPort       = "POGEN_APP_PORT"
	EnvDBDSN      = "POGEN_DB_DSN"
	EnvDBHost     = "POGEN_DB_HOST"
	EnvDBUser     = "POGEN_DB_USER"
	EnvDBName     = "POGEN_DB_NAME"
	EnvRedisURL   = "POGEN_REDIS_URL"
	EnvJWTSecret  = "POGEN_JWT_SECRET"
	EnvJWTIssuer  = "POGEN_JWT_ISSUER"
	EnvJWTExpMins = "POGEN_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Documents     DocumentsConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POGEN_APP_ENV" required:"true"`
	Port         string `envconfig:"POGEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"POGEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POGEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POGEN_DB_DSN"`
	Driver string `envconfig:"POGEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POGEN_DB_HOST"`
	LegacyPort     int    `envconfig:"POGEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POGEN_DB_USER"`
	LegacyPassword string `envconfig:"POGEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"POGEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"POGEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POGEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POGEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POGEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POGEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"POGEN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POGEN_REDIS_ADDR"`
	Password     string        `envconfig:"POGEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"POGEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POGEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POGEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POGEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POGEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POGEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"POGEN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"POGEN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"POGEN_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"POGEN_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"POGEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"POGEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"POGEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"POGEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"POGEN_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"POGEN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"POGEN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"POGEN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

// DocumentsConfig covers PDF assembly assets and the ephemeral download store.
type DocumentsConfig struct {
	AssetsDir     string        `envconfig:"POGEN_DOCUMENTS_ASSETS_DIR" default:"assets/images"`
	OutputDir     string        `envconfig:"POGEN_DOCUMENTS_OUTPUT_DIR" default:"temp"`
	EvictionDelay time.Duration `envconfig:"POGEN_DOCUMENTS_EVICTION_DELAY" default:"1m"`
	StaleAfter    time.Duration `envconfig:"POGEN_DOCUMENTS_STALE_AFTER" default:"24h"`
	MaxUploadMB   int           `envconfig:"POGEN_DOCUMENTS_MAX_UPLOAD_MB" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"POGEN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

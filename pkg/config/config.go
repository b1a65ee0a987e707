package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Chat          ChatConfig
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
	Env          string `envconfig:"CAMPUSMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSMARKET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAMPUSMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSMARKET_DB_DSN"`
	Driver string `envconfig:"CAMPUSMARKET_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CAMPUSMARKET_DB_HOST"`
	Port     int    `envconfig:"CAMPUSMARKET_DB_PORT" default:"5432"`
	User     string `envconfig:"CAMPUSMARKET_DB_USER"`
	Password string `envconfig:"CAMPUSMARKET_DB_PASSWORD"`
	Name     string `envconfig:"CAMPUSMARKET_DB_NAME"`
	SSLMode  string `envconfig:"CAMPUSMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("db config requires either DSN or host/user/name")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAMPUSMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CAMPUSMARKET_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CAMPUSMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CAMPUSMARKET_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CAMPUSMARKET_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAMPUSMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAMPUSMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAMPUSMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAMPUSMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAMPUSMARKET_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CAMPUSMARKET_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CAMPUSMARKET_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CAMPUSMARKET_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CAMPUSMARKET_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CAMPUSMARKET_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CAMPUSMARKET_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool `envconfig:"CAMPUSMARKET_USE_SQLITE" default:"false"`
	AutoMigrate   bool `envconfig:"CAMPUSMARKET_AUTO_MIGRATE" default:"false"`
	SeedOnMigrate bool `envconfig:"CAMPUSMARKET_SEED_ON_MIGRATE" default:"true"`
}

type ChatConfig struct {
	WriteWait       time.Duration `envconfig:"CAMPUSMARKET_CHAT_WRITE_WAIT" default:"10s"`
	PongWait        time.Duration `envconfig:"CAMPUSMARKET_CHAT_PONG_WAIT" default:"60s"`
	PingInterval    time.Duration `envconfig:"CAMPUSMARKET_CHAT_PING_INTERVAL" default:"54s"`
	MaxMessageBytes int64         `envconfig:"CAMPUSMARKET_CHAT_MAX_MESSAGE_BYTES" default:"8192"`
	SendBuffer      int           `envconfig:"CAMPUSMARKET_CHAT_SEND_BUFFER" default:"32"`
}

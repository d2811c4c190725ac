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
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ARTICLES_APP_ENV" required:"true"`
	Port         string `envconfig:"ARTICLES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"ARTICLES_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ARTICLES_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ARTICLES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsTest() bool {
	return strings.EqualFold(a.Env, AppEnvTest)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"ARTICLES_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"ARTICLES_HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `envconfig:"ARTICLES_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"ARTICLES_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	AllowedOrigins  []string      `envconfig:"ARTICLES_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type DBConfig struct {
	DSN    string `envconfig:"ARTICLES_DB_DSN"`
	Driver string `envconfig:"ARTICLES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARTICLES_DB_HOST"`
	LegacyPort     int    `envconfig:"ARTICLES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARTICLES_DB_USER"`
	LegacyPassword string `envconfig:"ARTICLES_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARTICLES_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARTICLES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARTICLES_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARTICLES_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARTICLES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARTICLES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// DefaultSQLiteDSN is used when sqlite is enabled without an explicit DSN.
const DefaultSQLiteDSN = "file:articles.db?_foreign_keys=on"

type RedisConfig struct {
	URL          string        `envconfig:"ARTICLES_REDIS_URL"`
	Address      string        `envconfig:"ARTICLES_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"ARTICLES_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARTICLES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARTICLES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARTICLES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARTICLES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARTICLES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARTICLES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ARTICLES_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ARTICLES_JWT_ISSUER" default:"articles-api"`
	ExpirationMinutes      int    `envconfig:"ARTICLES_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"ARTICLES_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARTICLES_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARTICLES_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARTICLES_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARTICLES_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARTICLES_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ARTICLES_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"ARTICLES_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ARTICLES_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	JoinWindow         time.Duration `envconfig:"ARTICLES_AUTH_RATE_LIMIT_JOIN_WINDOW" default:"5m"`
	JoinUsernameLimit  int           `envconfig:"ARTICLES_AUTH_RATE_LIMIT_JOIN_USERNAME_LIMIT" default:"3"`
	JoinIPLimit        int           `envconfig:"ARTICLES_AUTH_RATE_LIMIT_JOIN_IP_LIMIT" default:"20"`
	TrustedProxyHops   int           `envconfig:"ARTICLES_AUTH_RATE_LIMIT_TRUSTED_PROXY_HOPS" default:"0"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ARTICLES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ARTICLES_AUTO_MIGRATE" default:"false"`
	SeedData    bool `envconfig:"ARTICLES_SEED_DATA" default:"false"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"ARTICLES_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"ARTICLES_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	ArticleTopic   string        `envconfig:"ARTICLES_PUBSUB_ARTICLE_TOPIC"`
	PublishTimeout time.Duration `envconfig:"ARTICLES_PUBSUB_PUBLISH_TIMEOUT" default:"15s"`
}

// Enabled reports whether article events should be published.
func (p PubSubConfig) Enabled(gcp GCPConfig) bool {
	return strings.TrimSpace(p.ArticleTopic) != "" && strings.TrimSpace(gcp.ProjectID) != ""
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite || db.IsSQLite() {
		db.Driver = DriverSQLite
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	}
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

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// IsSQLite reports whether the configured driver is sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

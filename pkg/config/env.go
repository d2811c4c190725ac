package config

// EnvPrefix namespaces every variable read by envconfig.
const EnvPrefix = "ARTICLES"

const (
	AppEnvDev  = "dev"
	AppEnvTest = "test"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "ARTICLES_APP_ENV"
	EnvPort                   = "ARTICLES_APP_PORT"
	EnvLogLevel               = "ARTICLES_LOG_LEVEL"
	EnvLogFormat              = "ARTICLES_LOG_FORMAT"
	EnvDBDSN                  = "ARTICLES_DB_DSN"
	EnvDBDriver               = "ARTICLES_DB_DRIVER"
	EnvDBHost                 = "ARTICLES_DB_HOST"
	EnvDBPort                 = "ARTICLES_DB_PORT"
	EnvDBUser                 = "ARTICLES_DB_USER"
	EnvDBPassword             = "ARTICLES_DB_PASSWORD"
	EnvDBName                 = "ARTICLES_DB_NAME"
	EnvRedisURL               = "ARTICLES_REDIS_URL"
	EnvJWTSecret              = "ARTICLES_JWT_SECRET"
	EnvJWTIssuer              = "ARTICLES_JWT_ISSUER"
	EnvJWTExpMins             = "ARTICLES_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ARTICLES_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "ARTICLES_USE_SQLITE"
	EnvAutoMigrate            = "ARTICLES_AUTO_MIGRATE"
	EnvSeedData               = "ARTICLES_SEED_DATA"
	EnvGCPProjectID           = "ARTICLES_GCP_PROJECT_ID"
	EnvPubSubArticleTopic     = "ARTICLES_PUBSUB_ARTICLE_TOPIC"
	EnvCORSAllowedOrigins     = "ARTICLES_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

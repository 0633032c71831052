package config

// EnvPrefix is the envconfig namespace for all CityCart settings.
const EnvPrefix = "CITYCART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "CITYCART_APP_ENV"
	EnvPort     = "CITYCART_APP_PORT"
	EnvDBDSN    = "CITYCART_DB_DSN"
	EnvDBHost   = "CITYCART_DB_HOST"
	EnvDBUser   = "CITYCART_DB_USER"
	EnvDBName   = "CITYCART_DB_NAME"
	EnvRedisURL = "CITYCART_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

// EnvPrefix is empty because every field carries its fully qualified env name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DefaultSQLiteDSN = "file:bookstore.db?cache=shared"
)

const (
	EnvAppEnv   = "BOOKSTORE_APP_ENV"
	EnvPort     = "BOOKSTORE_APP_PORT"
	EnvLogLevel = "BOOKSTORE_LOG_LEVEL"

	EnvDBDSN  = "BOOKSTORE_DB_DSN"
	EnvDBHost = "BOOKSTORE_DB_HOST"
	EnvDBUser = "BOOKSTORE_DB_USER"
	EnvDBName = "BOOKSTORE_DB_NAME"

	EnvRedisURL = "BOOKSTORE_REDIS_URL"

	EnvJWTSecret  = "BOOKSTORE_JWT_SECRET"
	EnvJWTIssuer  = "BOOKSTORE_JWT_ISSUER"
	EnvJWTExpMins = "BOOKSTORE_JWT_EXPIRATION_MINUTES"

	EnvCartTaxRate      = "BOOKSTORE_CART_TAX_RATE"
	EnvCartFlatShipping = "BOOKSTORE_CART_FLAT_SHIPPING"
	EnvCartFreeShipping = "BOOKSTORE_CART_FREE_SHIPPING_THRESHOLD"
	EnvCartBuyNowTTL    = "BOOKSTORE_CART_BUY_NOW_TTL"

	EnvUseSQLite = "BOOKSTORE_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

import "github.com/angelmondragon/storefront-cart/pkg/enums"

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageBackendRedis  = string(enums.StorageBackendRedis)
	StorageBackendSQL    = string(enums.StorageBackendSQL)
	StorageBackendMemory = string(enums.StorageBackendMemory)

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvPort           = "STOREFRONT_APP_PORT"
	EnvWhatsAppNumber = "STOREFRONT_WHATSAPP_NUMBER"
	EnvToastDuration  = "STOREFRONT_TOAST_DURATION"
	EnvStorageBackend = "STOREFRONT_STORAGE_BACKEND"
	EnvDBDSN          = "STOREFRONT_DB_DSN"
	EnvDBDriver       = "STOREFRONT_DB_DRIVER"
	EnvDBHost         = "STOREFRONT_DB_HOST"
	EnvDBUser         = "STOREFRONT_DB_USER"
	EnvDBName         = "STOREFRONT_DB_NAME"
	EnvDBPassword     = "STOREFRONT_DB_PASSWORD"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisAddr      = "STOREFRONT_REDIS_ADDR"
	EnvVisitorSecret  = "STOREFRONT_VISITOR_SECRET"
	EnvCORSOrigins    = "STOREFRONT_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Store     StoreConfig
	Storage   StorageConfig
	DB        DBConfig
	Redis     RedisConfig
	Visitor   VisitorConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	if cfg.Storage.UsesSQL() {
		if err := cfg.DB.EnsureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Storage.UsesRedis() && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("either %s or %s is required for the redis backend", EnvRedisURL, EnvRedisAddr)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig describes the storefront the cart belongs to.
type StoreConfig struct {
	Name            string        `envconfig:"STOREFRONT_STORE_NAME" default:"Loja"`
	Locale          string        `envconfig:"STOREFRONT_STORE_LOCALE" default:"pt-BR"`
	Currency        string        `envconfig:"STOREFRONT_STORE_CURRENCY" default:"BRL"`
	CurrencySymbol  string        `envconfig:"STOREFRONT_STORE_CURRENCY_SYMBOL" default:"R$"`
	WhatsAppNumber  string        `envconfig:"STOREFRONT_WHATSAPP_NUMBER" required:"true"`
	CheckoutBaseURL string        `envconfig:"STOREFRONT_CHECKOUT_BASE_URL" default:"https://wa.me"`
	ToastDuration   time.Duration `envconfig:"STOREFRONT_TOAST_DURATION" default:"3500ms"`
	CatalogPath     string        `envconfig:"STOREFRONT_CATALOG_PATH"`
}

type StorageConfig struct {
	Backend  string        `envconfig:"STOREFRONT_STORAGE_BACKEND" default:"redis"`
	SlotName string        `envconfig:"STOREFRONT_STORAGE_SLOT" default:"cart"`
	SlotTTL  time.Duration `envconfig:"STOREFRONT_STORAGE_SLOT_TTL" default:"720h"`
}

func (s StorageConfig) UsesRedis() bool {
	return strings.EqualFold(s.Backend, StorageBackendRedis)
}

func (s StorageConfig) UsesSQL() bool {
	return strings.EqualFold(s.Backend, StorageBackendSQL)
}

func (s StorageConfig) UsesMemory() bool {
	return strings.EqualFold(s.Backend, StorageBackendMemory)
}

func (s StorageConfig) validate() error {
	if _, err := enums.ParseStorageBackend(s.Backend); err != nil {
		return fmt.Errorf("%s must be one of %s, %s, %s: %w",
			EnvStorageBackend, StorageBackendRedis, StorageBackendSQL, StorageBackendMemory, err)
	}
	return nil
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STOREFRONT_DB_HOST"`
	LegacyPort     int    `envconfig:"STOREFRONT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STOREFRONT_DB_USER"`
	LegacyPassword string `envconfig:"STOREFRONT_DB_PASSWORD"`
	LegacyName     string `envconfig:"STOREFRONT_DB_NAME"`
	LegacySSLMode  string `envconfig:"STOREFRONT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	AutoMigrate     bool          `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"false"`
}

func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// VisitorConfig controls the signed cookie that identifies a browser.
type VisitorConfig struct {
	Secret     string        `envconfig:"STOREFRONT_VISITOR_SECRET" required:"true"`
	Issuer     string        `envconfig:"STOREFRONT_VISITOR_ISSUER" default:"storefront"`
	CookieName string        `envconfig:"STOREFRONT_VISITOR_COOKIE" default:"sf_visitor"`
	TTL        time.Duration `envconfig:"STOREFRONT_VISITOR_TTL" default:"8760h"`
	Secure     bool          `envconfig:"STOREFRONT_VISITOR_COOKIE_SECURE" default:"false"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"STOREFRONT_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"STOREFRONT_RATE_LIMIT_MUTATIONS" default:"120"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// EnsureDSN builds the DSN from the discrete STOREFRONT_DB_* variables when
// no DSN is given.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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

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
	ImageKit      ImageKitConfig
	Ingest        IngestConfig
	Reconcile     ReconcileConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Ingest.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CATALOG_APP_ENV" required:"true"`
	Port         string `envconfig:"CATALOG_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CATALOG_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATALOG_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CATALOG_DB_DSN"`
	Driver string `envconfig:"CATALOG_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CATALOG_DB_HOST"`
	LegacyPort     int    `envconfig:"CATALOG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CATALOG_DB_USER"`
	LegacyPassword string `envconfig:"CATALOG_DB_PASSWORD"`
	LegacyName     string `envconfig:"CATALOG_DB_NAME"`
	LegacySSLMode  string `envconfig:"CATALOG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CATALOG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CATALOG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CATALOG_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CATALOG_REDIS_ADDR"`
	Password     string        `envconfig:"CATALOG_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATALOG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATALOG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATALOG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATALOG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATALOG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATALOG_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CATALOG_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CATALOG_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CATALOG_JWT_EXPIRATION_MINUTES" default:"43200"`
}

// SessionTTL returns how long an issued session stays resolvable.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CATALOG_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CATALOG_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CATALOG_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CATALOG_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CATALOG_ARGON_KEY_LEN" default:"32"`
}

type ImageKitConfig struct {
	PublicKey   string        `envconfig:"CATALOG_IMAGEKIT_PUBLIC_KEY" required:"true"`
	PrivateKey  string        `envconfig:"CATALOG_IMAGEKIT_PRIVATE_KEY" required:"true"`
	URLEndpoint string        `envconfig:"CATALOG_IMAGEKIT_URL_ENDPOINT" required:"true"`
	UploadURL   string        `envconfig:"CATALOG_IMAGEKIT_UPLOAD_URL" default:"https://upload.imagekit.io/api/v1/files/upload"`
	APIBaseURL  string        `envconfig:"CATALOG_IMAGEKIT_API_BASE_URL" default:"https://api.imagekit.io/v1"`
	Folder      string        `envconfig:"CATALOG_IMAGEKIT_FOLDER" default:"products"`
	Timeout     time.Duration `envconfig:"CATALOG_IMAGEKIT_TIMEOUT" default:"15s"`
}

type IngestConfig struct {
	// LocalFilePolicy decides what happens to file:// references the server
	// cannot read: "placeholder" substitutes the built-in image, "reject"
	// fails the element.
	LocalFilePolicy string        `envconfig:"CATALOG_INGEST_LOCAL_FILE_POLICY" default:"placeholder"`
	FetchTimeout    time.Duration `envconfig:"CATALOG_INGEST_FETCH_TIMEOUT" default:"15s"`
	MaxImageBytes   int64         `envconfig:"CATALOG_INGEST_MAX_IMAGE_BYTES" default:"20971520"`
}

func (i IngestConfig) validate() error {
	switch i.LocalFilePolicy {
	case LocalFilePolicyPlaceholder, LocalFilePolicyReject:
		return nil
	}
	return fmt.Errorf("CATALOG_INGEST_LOCAL_FILE_POLICY must be %q or %q, got %q",
		LocalFilePolicyPlaceholder, LocalFilePolicyReject, i.LocalFilePolicy)
}

type ReconcileConfig struct {
	Interval  time.Duration `envconfig:"CATALOG_RECONCILE_INTERVAL" default:"10m"`
	Retention time.Duration `envconfig:"CATALOG_RECONCILE_RETENTION" default:"1h"`
	BatchSize int           `envconfig:"CATALOG_RECONCILE_BATCH_SIZE" default:"100"`
}

// AuthRateLimitConfig throttles credential-bearing endpoints. A window or
// limit of zero disables the corresponding counter.
type AuthRateLimitConfig struct {
	SignInWindow     time.Duration `envconfig:"CATALOG_AUTH_RATE_LIMIT_SIGN_IN_WINDOW" default:"1m"`
	SignInIPLimit    int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_SIGN_IN_IP_LIMIT" default:"20"`
	SignInEmailLimit int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_SIGN_IN_EMAIL_LIMIT" default:"5"`
	SignUpWindow     time.Duration `envconfig:"CATALOG_AUTH_RATE_LIMIT_SIGN_UP_WINDOW" default:"5m"`
	SignUpIPLimit    int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_SIGN_UP_IP_LIMIT" default:"20"`
	SignUpEmailLimit int           `envconfig:"CATALOG_AUTH_RATE_LIMIT_SIGN_UP_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CATALOG_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CATALOG_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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

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
	Admin         AdminConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cloudinary    CloudinaryConfig
	Upload        UploadConfig
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
	Env          string `envconfig:"NOTES_APP_ENV" required:"true"`
	Port         string `envconfig:"NOTES_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NOTES_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NOTES_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NOTES_DB_DSN"`
	Driver string `envconfig:"NOTES_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NOTES_DB_HOST"`
	LegacyPort     int    `envconfig:"NOTES_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NOTES_DB_USER"`
	LegacyPassword string `envconfig:"NOTES_DB_PASSWORD"`
	LegacyName     string `envconfig:"NOTES_DB_NAME"`
	LegacySSLMode  string `envconfig:"NOTES_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NOTES_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"NOTES_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"NOTES_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NOTES_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NOTES_REDIS_URL" required:"true"`
	Password     string        `envconfig:"NOTES_REDIS_PASSWORD"`
	DB           int           `envconfig:"NOTES_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NOTES_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NOTES_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NOTES_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NOTES_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NOTES_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NOTES_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NOTES_JWT_ISSUER" default:"notes-api"`
	ExpirationMinutes int    `envconfig:"NOTES_JWT_EXPIRATION_MINUTES" default:"43200"`
}

// SessionTTL returns how long an issued token (and its backing session) lives.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NOTES_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NOTES_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"NOTES_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"NOTES_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NOTES_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig holds the single shared admin credential. The workflow services
// never see it; it is exchanged for an admin-role token at the boundary.
type AdminConfig struct {
	Password string `envconfig:"NOTES_ADMIN_PASSWORD" required:"true"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"NOTES_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"NOTES_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"NOTES_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"NOTES_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"NOTES_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"NOTES_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"NOTES_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"NOTES_AUTO_MIGRATE" default:"false"`
}

type CloudinaryConfig struct {
	CloudName string        `envconfig:"NOTES_CLOUDINARY_CLOUD_NAME" required:"true"`
	APIKey    string        `envconfig:"NOTES_CLOUDINARY_API_KEY" required:"true"`
	APISecret string        `envconfig:"NOTES_CLOUDINARY_API_SECRET" required:"true"`
	Folder    string        `envconfig:"NOTES_CLOUDINARY_FOLDER" default:"lu-foet-notes"`
	Timeout   time.Duration `envconfig:"NOTES_CLOUDINARY_TIMEOUT" default:"60s"`
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"NOTES_MAX_UPLOAD_MB" default:"50"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, DBDriverSQLite) {
		return fmt.Errorf("%s is required when the sqlite driver is selected", EnvDBDSN)
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

	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:     db.LegacyName,
		RawQuery: url.Values{"sslmode": []string{db.LegacySSLMode}}.Encode(),
	}
	db.DSN = u.String()
	return nil
}

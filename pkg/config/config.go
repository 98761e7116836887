package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	Upstream UpstreamConfig
	Stream   StreamConfig
	Payout   PayoutConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Archive  ArchiveConfig
	Flags    FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	cfg.Stream.clampFrequency()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

type AppConfig struct {
	Env          string `envconfig:"AFFILIDASH_APP_ENV" required:"true"`
	Port         string `envconfig:"AFFILIDASH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AFFILIDASH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AFFILIDASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AFFILIDASH_DB_DSN"`
	Driver string `envconfig:"AFFILIDASH_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AFFILIDASH_DB_HOST"`
	LegacyPort     int    `envconfig:"AFFILIDASH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AFFILIDASH_DB_USER"`
	LegacyPassword string `envconfig:"AFFILIDASH_DB_PASSWORD"`
	LegacyName     string `envconfig:"AFFILIDASH_DB_NAME"`
	LegacySSLMode  string `envconfig:"AFFILIDASH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AFFILIDASH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AFFILIDASH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AFFILIDASH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AFFILIDASH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AFFILIDASH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AFFILIDASH_REDIS_ADDR"`
	Password     string        `envconfig:"AFFILIDASH_REDIS_PASSWORD"`
	DB           int           `envconfig:"AFFILIDASH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AFFILIDASH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AFFILIDASH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AFFILIDASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AFFILIDASH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AFFILIDASH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// UpstreamConfig points at the affiliate aggregator API this engine consumes.
type UpstreamConfig struct {
	APIBaseURL string        `envconfig:"AFFILIDASH_UPSTREAM_API_BASE_URL" required:"true" validate:"url"`
	WSBaseURL  string        `envconfig:"AFFILIDASH_UPSTREAM_WS_BASE_URL" required:"true"`
	Token      string        `envconfig:"AFFILIDASH_UPSTREAM_TOKEN" required:"true"`
	Timeout    time.Duration `envconfig:"AFFILIDASH_UPSTREAM_TIMEOUT" default:"15s"`
}

type StreamConfig struct {
	// FrequencyMS is the emit interval requested in the channel handshake.
	// The upstream rejects anything under a second.
	FrequencyMS       int           `envconfig:"AFFILIDASH_STREAM_FREQUENCY_MS" default:"5000"`
	Networks          []string      `envconfig:"AFFILIDASH_STREAM_NETWORKS" default:"amazon-associates,shareasale,cj-affiliate,clickbank"`
	ReconnectBase     time.Duration `envconfig:"AFFILIDASH_STREAM_RECONNECT_BASE" default:"1s"`
	ReconnectMax      time.Duration `envconfig:"AFFILIDASH_STREAM_RECONNECT_MAX" default:"30s"`
	ReconnectAttempts int           `envconfig:"AFFILIDASH_STREAM_RECONNECT_ATTEMPTS" default:"10"`
}

const minFrequencyMS = 1000

func (s *StreamConfig) clampFrequency() {
	if s.FrequencyMS < minFrequencyMS {
		s.FrequencyMS = minFrequencyMS
	}
}

type PayoutConfig struct {
	AutoPayoutEnabled bool `envconfig:"AFFILIDASH_AUTO_PAYOUT_ENABLED" default:"false"`
	PayoutDayOfMonth  int  `envconfig:"AFFILIDASH_PAYOUT_DAY_OF_MONTH" default:"0"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AFFILIDASH_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AFFILIDASH_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AFFILIDASH_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	// EventsTopic fans normalized events out to downstream consumers.
	// Leave empty to disable publishing.
	EventsTopic string `envconfig:"AFFILIDASH_PUBSUB_EVENTS_TOPIC"`
}

type ArchiveConfig struct {
	Enabled bool `envconfig:"AFFILIDASH_ARCHIVE_ENABLED" default:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AFFILIDASH_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AFFILIDASH_AUTO_MIGRATE" default:"false"`
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

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App         AppConfig
	Service     ServiceConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Fulfillment FulfillmentConfig
	Transport   TransportConfig
	Momo        MomoConfig
	GCP         GCPConfig
	PubSub      PubSubConfig
	Outbox      OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Fulfillment.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ISOKO_APP_ENV" required:"true"`
	Port         string `envconfig:"ISOKO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ISOKO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ISOKO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ISOKO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ISOKO_DB_DSN"`
	Driver string `envconfig:"ISOKO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ISOKO_DB_HOST"`
	LegacyPort     int    `envconfig:"ISOKO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ISOKO_DB_USER"`
	LegacyPassword string `envconfig:"ISOKO_DB_PASSWORD"`
	LegacyName     string `envconfig:"ISOKO_DB_NAME"`
	LegacySSLMode  string `envconfig:"ISOKO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ISOKO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ISOKO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ISOKO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ISOKO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ISOKO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ISOKO_REDIS_ADDR"`
	Password     string        `envconfig:"ISOKO_REDIS_PASSWORD"`
	DB           int           `envconfig:"ISOKO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ISOKO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ISOKO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ISOKO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ISOKO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ISOKO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ISOKO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ISOKO_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ISOKO_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// FulfillmentConfig governs lot allocation when a cooperative accepts an
// order.
type FulfillmentConfig struct {
	// AllocationPolicy is "strict" (accept fails when listed lots cannot
	// cover the ordered quantity) or "best_effort" (the contract carries
	// whatever coverage exists).
	AllocationPolicy string `envconfig:"ISOKO_FULFILLMENT_ALLOCATION_POLICY" default:"strict"`
	// LotCandidateCap bounds how many listed lots one allocation may scan.
	LotCandidateCap int `envconfig:"ISOKO_FULFILLMENT_LOT_CANDIDATE_CAP" default:"5"`
}

func (f FulfillmentConfig) validate() error {
	switch f.AllocationPolicy {
	case AllocationPolicyStrict, AllocationPolicyBestEffort:
	default:
		return fmt.Errorf("invalid allocation policy %q", f.AllocationPolicy)
	}
	if f.LotCandidateCap <= 0 {
		return fmt.Errorf("lot candidate cap must be positive")
	}
	return nil
}

func (f FulfillmentConfig) Strict() bool {
	return f.AllocationPolicy == AllocationPolicyStrict
}

// TransportConfig carries the flat-rate pricing model and the scheduling
// buffers applied to transporter assignments.
type TransportConfig struct {
	BasePrice      float64       `envconfig:"ISOKO_TRANSPORT_BASE_PRICE" default:"10000"`
	PricePerKg     float64       `envconfig:"ISOKO_TRANSPORT_PRICE_PER_KG" default:"50"`
	TurnaroundGap  time.Duration `envconfig:"ISOKO_TRANSPORT_TURNAROUND_GAP" default:"2h"`
	PickupLeadTime time.Duration `envconfig:"ISOKO_TRANSPORT_PICKUP_LEAD_TIME" default:"24h"`
}

type MomoConfig struct {
	Provider string        `envconfig:"ISOKO_MOMO_PROVIDER" default:"mock"`
	Currency string        `envconfig:"ISOKO_MOMO_CURRENCY" default:"RWF"`
	Timeout  time.Duration `envconfig:"ISOKO_MOMO_TIMEOUT" default:"10s"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"ISOKO_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON string `envconfig:"ISOKO_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	NotificationTopic        string `envconfig:"ISOKO_PUBSUB_NOTIFICATION_TOPIC" default:"isoko-notification-events"`
	NotificationSubscription string `envconfig:"ISOKO_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ISOKO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ISOKO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ISOKO_OUTBOX_MAX_ATTEMPTS" default:"10"`
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

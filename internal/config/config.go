package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	Store      Store      `envconfig:"STORE"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
	SQS        SQS        `envconfig:"SQS"`
	Auth       Auth       `envconfig:"AUTH"`
	Dispatcher Dispatcher `envconfig:"DISPATCHER"`
	Registry   Registry   `envconfig:"REGISTRY"`
	Consumer   Consumer   `envconfig:"CONSUMER"`
	Courier    Courier    `envconfig:"COURIER"`
	Archive    Archive    `envconfig:"ARCHIVE"`
	Gateway    Gateway    `envconfig:"GATEWAY"`
}

type Service struct {
	Environment    string        `split_words:"true" default:"development"`
	APIPort        string        `split_words:"true" default:"8080"`
	Host           string        `split_words:"true" default:"localhost:8080"`
	RequestTimeout time.Duration `split_words:"true" default:"10s"`
}

type Store struct {
	Driver             string `split_words:"true" default:"postgres"`
	DSN                string `split_words:"true" required:"true"`
	MaxOpenConns       int    `split_words:"true" default:"10"`
	MaxIdleConns       int    `split_words:"true" default:"5"`
	ConnMaxLifetimeSec int    `split_words:"true" default:"3600"`
}

type ClickHouse struct {
	Host               string `split_words:"true"`
	Port               string `split_words:"true" default:"9000"`
	DB                 string `split_words:"true" default:"kasa"`
	User               string `split_words:"true" default:""`
	Password           string `split_words:"true" default:""`
	UseTLS             bool   `split_words:"true" default:"false"`
	MaxOpenConns       int    `split_words:"true" default:"5"`
	MaxIdleConns       int    `split_words:"true" default:"2"`
	ConnMaxLifetimeSec int    `split_words:"true" default:"3600"`
}

// Enabled reports whether a ClickHouse host was configured
func (c ClickHouse) Enabled() bool {
	return c.Host != ""
}

type SQS struct {
	Endpoint               string `split_words:"true"`
	Region                 string `split_words:"true" default:"us-east-1"`
	OutboundQueueURL       string `split_words:"true"`
	DeliveryEventsQueueURL string `split_words:"true"`
}

type Auth struct {
	JWTSecret  string        `split_words:"true" required:"true"`
	TokenTTL   time.Duration `split_words:"true" default:"12h"`
	BcryptCost int           `split_words:"true" default:"10"`
}

type Dispatcher struct {
	MaxMessageLength int           `split_words:"true" default:"160"`
	RelayInterval    time.Duration `split_words:"true" default:"30s"`
	RelayBatchSize   int           `split_words:"true" default:"500"`
}

type Registry struct {
	DefaultRegion  string `split_words:"true" default:"US"`
	MaxUploadBytes int64  `split_words:"true" default:"5242880"`
	MaxImportRows  int    `split_words:"true" default:"10000"`
}

type Consumer struct {
	BatchSizeMax    int    `split_words:"true" default:"200"`
	BatchTimeoutSec int    `split_words:"true" default:"5"`
	RetryDelaySec   int32  `split_words:"true" default:"10"`
	WaitTimeSeconds int32  `split_words:"true" default:"20"`
	MaxMessages     int32  `split_words:"true" default:"10"`
	HealthCheckPort string `split_words:"true" default:"8081"`
}

type Courier struct {
	SenderID        string `split_words:"true" default:"KASA"`
	HealthCheckPort string `split_words:"true" default:"8082"`
}

type Archive struct {
	Bucket string `split_words:"true"`
	Region string `split_words:"true"`
}

type Gateway struct {
	Token string `split_words:"true"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// RequireQueues fails unless both SQS queue URLs are set
func (c *Config) RequireQueues() error {
	if c.SQS.OutboundQueueURL == "" {
		return fmt.Errorf("SQS_OUTBOUND_QUEUE_URL is required")
	}
	if c.SQS.DeliveryEventsQueueURL == "" {
		return fmt.Errorf("SQS_DELIVERY_EVENTS_QUEUE_URL is required")
	}
	return nil
}

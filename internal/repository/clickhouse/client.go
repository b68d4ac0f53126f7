package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/nakelabs/kasa-alert-connect/internal/config"
)

const (
	pingAttempts = 5
	pingBackoff  = 2 * time.Second
)

// Client wraps the ClickHouse connection used for the delivery history
type Client struct {
	connection driver.Conn
	log        *zap.Logger
}

// NewClient opens a ClickHouse connection and waits for the server to answer a ping.
// The ledger consumer usually starts alongside ClickHouse, so a few failed pings are tolerated.
func NewClient(ctx context.Context, cfg config.ClickHouse, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to ClickHouse",
		zap.String("host", cfg.Host),
		zap.String("port", cfg.Port),
		zap.String("database", cfg.DB),
		zap.Bool("useTLS", cfg.UseTLS))

	connection, err := clickhouse.Open(options(cfg))
	if err != nil {
		log.Error("Failed to connect to ClickHouse", zap.Error(err))
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	for attempt := 1; ; attempt++ {
		err = connection.Ping(ctx)
		if err == nil {
			break
		}
		if attempt == pingAttempts {
			log.Error("Failed to ping ClickHouse", zap.Error(err), zap.Int("attempts", attempt))
			_ = connection.Close()
			return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
		}

		log.Warn("ClickHouse not ready, retrying", zap.Error(err), zap.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			_ = connection.Close()
			return nil, fmt.Errorf("failed to ping ClickHouse: %w", ctx.Err())
		case <-time.After(pingBackoff):
		}
	}

	log.Info("ClickHouse connection established successfully")

	return &Client{connection: connection, log: log}, nil
}

func options(cfg config.ClickHouse) *clickhouse.Options {
	var tlsConfig *tls.Config
	if cfg.UseTLS {
		tlsConfig = &tls.Config{ServerName: cfg.Host}
	}

	return &clickhouse.Options{
		Addr: []string{net.JoinHostPort(cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.DB,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 30,
		},
		TLS:              tlsConfig,
		DialTimeout:      5 * time.Second,
		MaxOpenConns:     cfg.MaxOpenConns,
		MaxIdleConns:     cfg.MaxIdleConns,
		ConnMaxLifetime:  time.Duration(cfg.ConnMaxLifetimeSec) * time.Second,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	}
}

// Conn returns the underlying ClickHouse connection
func (c *Client) Conn() driver.Conn {
	return c.connection
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	c.log.Info("Closing ClickHouse connection")
	if err := c.connection.Close(); err != nil {
		c.log.Error("Error closing ClickHouse connection", zap.Error(err))
		return err
	}
	return nil
}

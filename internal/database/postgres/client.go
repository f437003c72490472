package postgres

import (
	"context"

	"github.com/getmentor/mentor-application-api/pkg/logger"
	"github.com/getmentor/mentor-application-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgxpool.Pool the client uses
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Client runs application queries with observability
type Client struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewClient wraps an open connection pool
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{db: pool, pool: pool}
}

// NewClientWithQuerier builds a client on any Querier, such as a transaction
func NewClientWithQuerier(db Querier) *Client {
	return &Client{db: db}
}

// Close closes the connection pool
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
		logger.Info("PostgreSQL connection pool closed")
	}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.DBClientOperationDuration.WithLabelValues("postgres_"+operation, status).Observe(duration)
	metrics.DBClientOperationTotal.WithLabelValues("postgres_"+operation, status).Inc()
}

// nilIfEmpty stores empty optional text as NULL
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

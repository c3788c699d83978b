// Package store persists an assembled music graph to Neo4j and answers the
// retrieval queries the GraphRAG pipeline needs: bounded-hop path search,
// entity connections, entity detail, and shared-genre similarity.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sony/gobreaker"
)

const (
	// DefaultMaxHops bounds the undirected path search.
	DefaultMaxHops = 3
	// DefaultPathLimit caps how many paths one retrieval returns.
	DefaultPathLimit = 50
	// DefaultBatchSize is the UNWIND batch size used by the importer.
	DefaultBatchSize = 500
)

// Store wraps a Neo4j driver with the graph schema this project uses.
// Read queries run behind a circuit breaker so a struggling database
// degrades retrieval instead of hanging it.
type Store struct {
	client   neo4j.DriverWithContext
	database string
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

// Options configures a Store.
type Options struct {
	URI      string
	Username string
	Password string
	Database string
	Logger   *slog.Logger
}

// NewStore connects to Neo4j. The connection is lazy; use Ping to verify it.
func NewStore(opts Options) (*Store, error) {
	client, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	database := opts.Database
	if database == "" {
		database = "neo4j"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "neo4j-read",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Store{
		client:   client,
		database: database,
		breaker:  breaker,
		logger:   logger,
	}, nil
}

// Ping verifies connectivity to the database.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j connectivity check failed: %w", err)
	}
	return nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func (s *Store) session(ctx context.Context) neo4j.SessionWithContext {
	return s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
}

// executeRead runs fn in a read transaction behind the circuit breaker.
func (s *Store) executeRead(ctx context.Context, fn neo4j.ManagedTransactionWork) (any, error) {
	return s.breaker.Execute(func() (any, error) {
		session := s.session(ctx)
		defer session.Close(ctx)
		return session.ExecuteRead(ctx, fn)
	})
}

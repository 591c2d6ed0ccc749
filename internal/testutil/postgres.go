// Package testutil provides shared helpers for integration tests: a
// PostgreSQL test container and a seeded table to run rewritten queries
// against.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// PostgresImage is the Docker image used for PostgreSQL test containers
	PostgresImage = "docker.io/postgres:16-alpine"

	// Default test database credentials
	TestDatabase = "testdb"
	TestUsername = "testuser"
	TestPassword = "testpass"

	// SeedTable holds SeedRows rows with ids 1..SeedRows
	SeedTable = "items"
	SeedRows  = 50
)

// SetupPostgresContainer starts a PostgreSQL container and returns a connection string and cleanup function
func SetupPostgresContainer(t *testing.T) (string, func()) {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithDatabase(TestDatabase),
		postgres.WithUsername(TestUsername),
		postgres.WithPassword(TestPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	connString := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=prefer",
		host, port.Port(), TestUsername, TestPassword, TestDatabase)

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return connString, cleanup
}

// ConnectSeeded opens a connection and creates SeedTable with SeedRows rows.
// The connection is closed when the test ends.
func ConnectSeeded(t *testing.T, connString string) *pgx.Conn {
	t.Helper()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	t.Cleanup(func() { conn.Close(ctx) })

	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", SeedTable),
		fmt.Sprintf("CREATE TABLE %s (id int PRIMARY KEY, name text NOT NULL)", SeedTable),
		fmt.Sprintf("INSERT INTO %s SELECT g, 'item ' || g FROM generate_series(1, %d) g", SeedTable, SeedRows),
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to seed %s: %v", SeedTable, err)
		}
	}
	return conn
}

// CollectIDs runs query and returns the first column of every row.
func CollectIDs(t *testing.T, conn *pgx.Conn, query string) []int {
	t.Helper()

	rows, err := conn.Query(context.Background(), query)
	if err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	return ids
}

//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/reliamail/outbox"
	"github.com/reliamail/outbox/postgres"
)

func TestStoreRoundTripIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test disabled in short mode")
	}

	ctx := context.Background()
	container, db := startPostgresContainer(t, ctx)
	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(ctx)
	})

	_, err := db.ExecContext(ctx, postgres.Schema)
	require.NoError(t, err)

	store, err := postgres.NewStore(db)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := outbox.NewRecord(outbox.Message{To: "user@example.com", Subject: "hi", Content: "body"}, now)
	rec.RecordFailure("smtp timeout", 10, now)
	require.NoError(t, store.Insert(ctx, rec))

	exists, err := store.HasPending(ctx, "user@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	// Not due yet: the first failure schedules a one minute backoff.
	due, err := store.Due(ctx, now)
	require.NoError(t, err)
	require.Empty(t, due)

	due, err = store.Due(ctx, now.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, rec.ID, due[0].ID)
	require.Equal(t, 1, due[0].RetryCount)
	require.Equal(t, "smtp timeout", due[0].LastError)

	claimed, err := store.Claim(ctx, rec.ID, now)
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = store.Claim(ctx, rec.ID, now)
	require.NoError(t, err)
	require.False(t, claimed)

	rec.MarkSent(now.Add(3 * time.Minute))
	require.NoError(t, store.Update(ctx, rec))

	stats, err := store.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.Sent)
	require.Equal(t, int64(1), stats.Total())

	deleted, err := store.DeleteFinishedBefore(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)
}

func startPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, *sql.DB) {
	t.Helper()
	port := nat.Port("5432/tcp")
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "secret",
			"POSTGRES_DB":       "outbox",
		},
		WaitingFor: wait.ForSQL(port, "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://postgres:secret@%s:%s/outbox?sslmode=disable", host, port.Port())
		}).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("resolve host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, port)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("resolve port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://postgres:secret@%s:%s/outbox?sslmode=disable", host, mappedPort.Port())
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("open db: %v", err)
	}
	return container, db
}

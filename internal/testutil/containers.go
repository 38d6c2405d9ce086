// Package testutil starts throwaway infrastructure containers for
// integration tests. Every container is terminated through t.Cleanup.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func start(t *testing.T, req testcontainers.ContainerRequest, port nat.Port) (host, mapped string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		terminateCtx, terminateCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer terminateCancel()
		_ = container.Terminate(terminateCtx)
	})

	host, err = container.Host(ctx)
	require.NoError(t, err)

	p, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	return host, p.Port()
}

// StartPostgres returns the DSN of an empty database.
func StartPostgres(t *testing.T) string {
	t.Helper()
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:16",
		Env:          map[string]string{"POSTGRES_PASSWORD": "postgres", "POSTGRES_USER": "postgres", "POSTGRES_DB": "cafeteria"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/cafeteria?sslmode=disable", host, port)
}

// StartRabbitMQ returns an AMQP URL for the default guest user.
func StartRabbitMQ(t *testing.T) string {
	t.Helper()
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
	}, "5672/tcp")
	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port)
}

// StartRedis returns a host:port address.
func StartRedis(t *testing.T) string {
	t.Helper()
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}, "6379/tcp")
	return host + ":" + port
}

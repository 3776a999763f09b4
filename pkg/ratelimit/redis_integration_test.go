//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore_SlidingWindow(t *testing.T) {
	RegisterTestingT(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	Expect(err).ToNot(HaveOccurred())
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	Expect(err).ToNot(HaveOccurred())

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "test:")

	for i := 0; i < 3; i++ {
		result, err := store.Allow(ctx, "user_1", 3, time.Minute)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Allowed).To(BeTrue())
		Expect(result.Remaining).To(Equal(2 - i))
	}

	result, err := store.Allow(ctx, "user_1", 3, time.Minute)
	Expect(err).ToNot(HaveOccurred())
	Expect(result.Allowed).To(BeFalse())
	Expect(result.ResetAt).To(BeTemporally("~", time.Now().Add(time.Minute), 5*time.Second))
}

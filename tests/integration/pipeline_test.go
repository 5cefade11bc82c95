package integration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shopgrid/storefront/internal/testutil"
	"github.com/shopgrid/storefront/pkg/cache"
	"github.com/shopgrid/storefront/pkg/ebay"
	"github.com/shopgrid/storefront/pkg/pipeline"
	"github.com/shopgrid/storefront/pkg/query"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newPipeline(t *testing.T, mock *testutil.MockFinding, store cache.Store, ttl time.Duration) *pipeline.Pipeline {
	t.Helper()

	client, err := ebay.New(ebay.Config{
		AppID:    "integration-app-id",
		Endpoint: mock.URL(),
		Timeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	return pipeline.New(pipeline.Config{
		AppID:     "integration-app-id",
		StoreName: "integrationstore",
		TTL:       ttl,
	}, client, store)
}

func TestPipelineWithRedis_FetchCacheFilter(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockFinding()
	defer mock.Close()
	mock.SetResponse(testutil.MockResponse{
		StatusCode: 200,
		Body:       testutil.SuccessEnvelope(testutil.OakTable(), testutil.PineStool()),
	})

	p := newPipeline(t, mock, cache.NewRedis(redisClient), time.Minute)
	ctx := context.Background()

	// First call populates Redis.
	items, err := p.GetItems(ctx, query.Params{})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	// The base set is now in Redis under the expected key.
	key := cache.Key{Store: "integrationstore", Site: "EBAY-US"}
	if exists := redisClient.Exists(ctx, key.String()).Val(); exists != 1 {
		t.Errorf("Expected cache key %q in Redis", key.String())
	}

	// Filtered reads are served from the cached base set.
	items, err = p.GetItems(ctx, query.Params{MinPrice: "25"})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Oak Table" {
		t.Errorf("Expected only the Oak Table, got %+v", items)
	}
	if count := mock.GetRequestCount(); count != 1 {
		t.Errorf("Expected exactly 1 upstream fetch, got %d", count)
	}
}

func TestPipelineWithRedis_TTLExpiryRefetches(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockFinding()
	defer mock.Close()
	mock.SetResponse(testutil.MockResponse{
		StatusCode: 200,
		Body:       testutil.SuccessEnvelope(testutil.OakTable()),
	})

	p := newPipeline(t, mock, cache.NewRedis(redisClient), 500*time.Millisecond)
	ctx := context.Background()

	if _, err := p.GetItems(ctx, query.Params{}); err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if _, err := p.GetItems(ctx, query.Params{}); err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if count := mock.GetRequestCount(); count != 1 {
		t.Fatalf("Expected 1 fetch before expiry, got %d", count)
	}

	time.Sleep(time.Second)

	if _, err := p.GetItems(ctx, query.Params{}); err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if count := mock.GetRequestCount(); count != 2 {
		t.Errorf("Expected refetch after expiry, got %d fetches", count)
	}
}

func TestPipelineWithRedis_SharedCacheAcrossInstances(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockFinding()
	defer mock.Close()
	mock.SetResponse(testutil.MockResponse{
		StatusCode: 200,
		Body:       testutil.SuccessEnvelope(testutil.OakTable()),
	})

	store := cache.NewRedis(redisClient)
	first := newPipeline(t, mock, store, time.Minute)
	second := newPipeline(t, mock, cache.NewRedis(redisClient), time.Minute)
	ctx := context.Background()

	if _, err := first.GetItems(ctx, query.Params{}); err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}

	// A second instance sharing the Redis backend serves from cache.
	items, err := second.GetItems(ctx, query.Params{})
	if err != nil {
		t.Fatalf("GetItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item from shared cache, got %d", len(items))
	}
	if count := mock.GetRequestCount(); count != 1 {
		t.Errorf("Second instance must not refetch, got %d fetches", count)
	}
}

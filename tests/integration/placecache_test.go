package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tablenote/place-cache/internal/testutil"
	"github.com/tablenote/place-cache/pkg/freshness"
	"github.com/tablenote/place-cache/pkg/place"
	"github.com/tablenote/place-cache/pkg/placecache"
	"github.com/tablenote/place-cache/pkg/provider"
	"github.com/tablenote/place-cache/pkg/store"
	"github.com/tablenote/place-cache/pkg/taxonomy"
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
		t.Fatalf("Failed to start Redis container: %v", err)
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

const detailsBody = `{
	"name": "Sakura Sushi",
	"formatted_address": "5 Harbor Lane",
	"formatted_phone_number": "+81 3 1234 5678",
	"types": ["sushi_restaurant", "point_of_interest"],
	"geometry": {"location": {"lat": 35.6595, "lng": 139.7005}},
	"photos": [{"photo_reference": "photo-sakura"}]
}`

func TestCoordinator_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockProvider()
	defer mock.Close()

	mock.SetPlaceDetails("ext-e2e-1", testutil.MockProviderResponse{
		StatusCode: http.StatusOK,
		Body:       detailsBody,
		Headers:    map[string]string{"Content-Type": "application/json"},
	})

	adapter, err := provider.NewHTTPAdapter(provider.Config{
		BaseURL: mock.URL(),
		APIKey:  "integration-key",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewHTTPAdapter failed: %v", err)
	}

	placeStore := store.NewRedis(redisClient)
	coordinator, err := placecache.New(placecache.Config{
		Store:  placeStore,
		Policy: freshness.NewPolicy(freshness.DefaultTTL),
	})
	if err != nil {
		t.Fatalf("New coordinator failed: %v", err)
	}

	ctx := context.Background()

	// Cold fetch populates the cache.
	first, err := coordinator.FetchOrCache(ctx, "ext-e2e-1", adapter)
	if err != nil {
		t.Fatalf("FetchOrCache failed: %v", err)
	}
	if first == nil {
		t.Fatal("Expected a record from the cold fetch")
	}
	if first.Name != "Sakura Sushi" {
		t.Errorf("Unexpected name %q", first.Name)
	}
	if first.Category != taxonomy.CategoryJapanese {
		t.Errorf("Expected japanese category, got %q", first.Category)
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("Expected one provider request, got %d", mock.GetRequestCount())
	}

	// Second lookup is a pure cache hit.
	second, err := coordinator.FetchOrCache(ctx, "ext-e2e-1", adapter)
	if err != nil {
		t.Fatalf("FetchOrCache failed: %v", err)
	}
	if second.ID != first.ID {
		t.Error("Cache hit returned a different record")
	}
	if mock.GetRequestCount() != 1 {
		t.Errorf("Cache hit must not hit the provider, got %d requests", mock.GetRequestCount())
	}

	// Provider outage: cached data keeps being served.
	mock.Close()
	degraded, err := coordinator.FetchOrCache(ctx, "ext-e2e-1", adapter)
	if err != nil {
		t.Fatalf("FetchOrCache failed during outage: %v", err)
	}
	if degraded == nil || degraded.Name != "Sakura Sushi" {
		t.Error("Expected cached record during provider outage")
	}
}

func TestRefresher_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockProvider()
	defer mock.Close()

	mock.SetPlaceDetails("ext-e2e-2", testutil.MockProviderResponse{
		StatusCode: http.StatusOK,
		Body:       detailsBody,
		Headers:    map[string]string{"Content-Type": "application/json"},
	})

	adapter, err := provider.NewHTTPAdapter(provider.Config{
		BaseURL: mock.URL(),
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewHTTPAdapter failed: %v", err)
	}

	placeStore := store.NewRedis(redisClient)
	coordinator, err := placecache.New(placecache.Config{Store: placeStore})
	if err != nil {
		t.Fatalf("New coordinator failed: %v", err)
	}

	ctx := context.Background()

	// Seed a stale record directly.
	old := time.Now().Add(-30 * 24 * time.Hour)
	seeded, err := placeStore.Insert(ctx, &place.Place{
		ExternalID:   "ext-e2e-2",
		Name:         "Stale Record",
		Source:       place.SourceExternal,
		LastSyncedAt: &old,
	})
	if err != nil {
		t.Fatalf("Seed insert failed: %v", err)
	}

	refresher := placecache.NewRefresher(coordinator)
	refresher.Refresh(seeded.ID, "ext-e2e-2", adapter)
	refresher.Wait()

	rec, err := placeStore.FindByExternalID(ctx, "ext-e2e-2")
	if err != nil {
		t.Fatalf("FindByExternalID failed: %v", err)
	}
	if rec.Name != "Sakura Sushi" {
		t.Errorf("Expected background refresh applied, got %q", rec.Name)
	}
	if rec.LastSyncedAt == nil || !rec.LastSyncedAt.After(old) {
		t.Error("Expected sync timestamp advanced by the refresh")
	}

	snap, err := placecache.NewReporter(placeStore).Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.Total != 1 || snap.ExternalSourced != 1 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
}

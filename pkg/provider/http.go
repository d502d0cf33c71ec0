package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tablenote/place-cache/pkg/place"
)

// Prometheus metrics for provider lookups.
var (
	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_provider_requests_total",
		Help: "Total provider lookups by status",
	}, []string{"status"})

	providerRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "place_provider_request_duration_seconds",
		Help:    "Provider lookup duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	providerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "place_provider_errors_total",
		Help: "Total provider errors by class",
	}, []string{"class"})
)

// Config holds the HTTP adapter configuration.
type Config struct {
	// BaseURL is the provider API root, e.g. "https://places.example.com".
	BaseURL string

	// APIKey is sent as a query parameter on every lookup.
	APIKey string

	// UserAgent identifies this client to the provider.
	UserAgent string

	// Timeout bounds each lookup. This is the only timeout in the caching
	// layer; callers above rely on it entirely.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		UserAgent: "place-cache/0.1.0",
		Timeout:   10 * time.Second,
	}
}

// HTTPAdapter is the live network-backed Adapter. It makes exactly one
// request per Fetch call; there is no retry or backoff at this layer.
type HTTPAdapter struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// NewHTTPAdapter creates a live provider adapter.
func NewHTTPAdapter(cfg Config) (*HTTPAdapter, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &HTTPAdapter{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "provider").Logger(),
	}, nil
}

// detailsPayload is the provider's place-details response shape.
type detailsPayload struct {
	Name                 string   `json:"name"`
	FormattedAddress     string   `json:"formatted_address"`
	FormattedPhoneNumber string   `json:"formatted_phone_number"`
	Types                []string `json:"types"`
	Geometry             *struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

// Fetch looks up one place by external id.
func (a *HTTPAdapter) Fetch(ctx context.Context, externalID string) (*place.ExternalRecord, error) {
	if externalID == "" {
		return nil, fmt.Errorf("external id is required")
	}

	start := time.Now()
	defer func() {
		providerRequestDuration.Observe(time.Since(start).Seconds())
	}()

	url := fmt.Sprintf("%s/places/%s?key=%s", a.config.BaseURL, externalID, a.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", a.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error().Err(err).Str("external_id", externalID).Msg("Provider request failed")
		providerErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		providerRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, &ProviderError{
			ErrorClass: ErrorClassNetwork,
			Message:    "provider unreachable",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	providerRequestsTotal.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotFound {
		a.logger.Debug().Str("external_id", externalID).Msg("Provider has no such place")
		return nil, ErrNotFound
	}

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		providerErrorsTotal.WithLabelValues(string(class)).Inc()
		a.logger.Warn().
			Str("external_id", externalID).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Provider lookup error")
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Message:    resp.Status,
		}
	}

	var payload detailsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		providerErrorsTotal.WithLabelValues(string(ErrorClassServer)).Inc()
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassServer,
			Message:    "malformed provider payload",
			Err:        err,
		}
	}

	rec := payloadToRecord(&payload)

	a.logger.Debug().
		Str("external_id", externalID).
		Str("name", rec.Name).
		Dur("duration", time.Since(start)).
		Msg("Provider lookup succeeded")

	return rec, nil
}

// payloadToRecord converts the provider payload into the normalized shape.
func payloadToRecord(payload *detailsPayload) *place.ExternalRecord {
	rec := &place.ExternalRecord{
		Name:             payload.Name,
		FormattedAddress: payload.FormattedAddress,
		Phone:            payload.FormattedPhoneNumber,
		CategoryTags:     payload.Types,
	}

	if payload.Geometry != nil {
		rec.Coordinates = &place.Coordinates{
			Lat: payload.Geometry.Location.Lat,
			Lng: payload.Geometry.Location.Lng,
		}
	}

	for _, photo := range payload.Photos {
		if photo.PhotoReference != "" {
			rec.PhotoReferences = append(rec.PhotoReferences, photo.PhotoReference)
		}
	}

	return rec
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (a *HTTPAdapter) SetHTTPClient(client *http.Client) {
	a.httpClient = client
}

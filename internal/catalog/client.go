// Package catalog provides access to the static JSON resources the build
// farm publishes: OS/version catalog, PHP version catalog, extension index,
// latest aggregate results and per-extension build records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/flavioheleno/php-ext-web/internal/results"
)

const (
	// DefaultBaseURL is the default location of the published data files
	DefaultBaseURL = "https://php-ext.flavioheleno.com/data"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is the default User-Agent header
	DefaultUserAgent = "php-ext-web/1.0"
)

// Well-known resource names relative to the data base URL
const (
	ResourceOsVersions  = "os-versions.json"
	ResourcePhpVersions = "php-versions.json"
	ResourceExtensions  = "extensions.json"
	ResourceLatest      = "latest.json"
)

// Custom error types for better error handling
var (
	// ErrResourceNotFound indicates the requested resource was not found
	ErrResourceNotFound = fmt.Errorf("resource not found")

	// ErrInvalidResponse indicates the resource body could not be decoded
	ErrInvalidResponse = fmt.Errorf("invalid resource response")

	// ErrUpstreamUnavailable indicates a network failure or tripped breaker
	ErrUpstreamUnavailable = fmt.Errorf("upstream unavailable")
)

// FetchError represents a failed fetch of a data resource
type FetchError struct {
	Resource   string
	StatusCode int
	Message    string
}

func (e FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: %d %s", e.Resource, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch %s: %s", e.Resource, e.Message)
}

func (e FetchError) Is(target error) bool {
	if target == ErrResourceNotFound && e.StatusCode == http.StatusNotFound {
		return true
	}
	if target == ErrUpstreamUnavailable && (e.StatusCode == 0 || e.StatusCode >= 500) {
		return true
	}
	return false
}

// Client defines the read-only interface over the build farm's data files
type Client interface {
	// GetOsCatalog retrieves os-versions.json
	GetOsCatalog(ctx context.Context) (OsCatalog, error)

	// GetPhpCatalog retrieves php-versions.json
	GetPhpCatalog(ctx context.Context) (PhpCatalog, error)

	// GetExtensionIndex retrieves extensions.json
	GetExtensionIndex(ctx context.Context) (*ExtensionIndex, error)

	// GetLatest retrieves latest.json
	GetLatest(ctx context.Context) (LatestData, error)

	// GetBuilds retrieves the per-build detail records referenced by an
	// aggregate record's path
	GetBuilds(ctx context.Context, path string) ([]results.BuildRecord, error)
}

// HTTPClient defines the interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds configuration for the data client
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient HTTPClient

	// DisableBreaker turns off the circuit breaker around fetches.
	// Mostly useful in tests that exercise repeated failures.
	DisableBreaker bool
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// client implements the Client interface
type client struct {
	config  Config
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a new data client for the build farm's static resources
func NewClient(config Config) Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	c := &client{config: config}
	if !config.DisableBreaker {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "build-farm-data",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}

	return c
}

// getJSON fetches a resource relative to the base URL and decodes it into out
func (c *client) getJSON(ctx context.Context, resource string, out any) error {
	fetch := func() (any, error) {
		return nil, c.doGetJSON(ctx, resource, out)
	}

	if c.breaker == nil {
		_, err := fetch()
		return err
	}

	_, err := c.breaker.Execute(fetch)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return FetchError{Resource: resource, Message: err.Error()}
	}
	return err
}

func (c *client) doGetJSON(ctx context.Context, resource string, out any) error {
	resourceURL, err := url.JoinPath(c.config.BaseURL, resource)
	if err != nil {
		return fmt.Errorf("failed to construct resource URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return FetchError{Resource: resource, Message: err.Error()}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return FetchError{
			Resource:   resource,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, resource, err)
	}

	return nil
}

// GetOsCatalog retrieves os-versions.json
func (c *client) GetOsCatalog(ctx context.Context) (OsCatalog, error) {
	var catalog OsCatalog
	if err := c.getJSON(ctx, ResourceOsVersions, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// GetPhpCatalog retrieves php-versions.json
func (c *client) GetPhpCatalog(ctx context.Context) (PhpCatalog, error) {
	var catalog PhpCatalog
	if err := c.getJSON(ctx, ResourcePhpVersions, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// GetExtensionIndex retrieves extensions.json
func (c *client) GetExtensionIndex(ctx context.Context) (*ExtensionIndex, error) {
	var index ExtensionIndex
	if err := c.getJSON(ctx, ResourceExtensions, &index); err != nil {
		return nil, err
	}
	return &index, nil
}

// GetLatest retrieves latest.json
func (c *client) GetLatest(ctx context.Context) (LatestData, error) {
	var latest LatestData
	if err := c.getJSON(ctx, ResourceLatest, &latest); err != nil {
		return nil, err
	}
	return latest, nil
}

// GetBuilds retrieves the detail records behind an aggregate's result path
func (c *client) GetBuilds(ctx context.Context, path string) ([]results.BuildRecord, error) {
	var records []results.BuildRecord
	if err := c.getJSON(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Package lifecycle provides integration with the endoflife.date API for
// annotating the PHP version catalog with release and support status.
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the default endoflife.date API base URL
	DefaultBaseURL = "https://endoflife.date/api/v1"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is the default User-Agent header
	DefaultUserAgent = "php-ext-web/1.0"

	// phpProduct is the endoflife.date product tracked by the dashboard
	phpProduct = "php"
)

var (
	// ErrProductNotFound indicates the requested product was not found
	ErrProductNotFound = fmt.Errorf("product not found")

	// ErrInvalidResponse indicates the API response was invalid
	ErrInvalidResponse = fmt.Errorf("invalid API response")
)

// APIError represents an error returned by the endoflife.date API
type APIError struct {
	StatusCode int
	Message    string
	Product    string
}

func (e APIError) Error() string {
	if e.Product != "" {
		return fmt.Sprintf("API error for product %s: %d %s", e.Product, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Message)
}

func (e APIError) Is(target error) bool {
	if target == ErrProductNotFound && e.StatusCode == http.StatusNotFound {
		return true
	}
	return false
}

// Release is one release cycle of a product as reported by the API
type Release struct {
	Name         string  `json:"name"`
	Codename     *string `json:"codename"`
	Label        string  `json:"label"`
	ReleaseDate  string  `json:"releaseDate"`
	IsLTS        bool    `json:"isLts"`
	IsEOAS       bool    `json:"isEoas"`
	EOASFrom     *string `json:"eoasFrom"`
	IsEOL        bool    `json:"isEol"`
	EOLFrom      *string `json:"eolFrom"`
	IsMaintained bool    `json:"isMaintained"`
	Latest       struct {
		Name string `json:"name"`
		Date string `json:"date"`
		Link string `json:"link"`
	} `json:"latest"`
}

// ProductInfo is the endoflife.date product document
type ProductInfo struct {
	SchemaVersion string `json:"schema_version"`
	GeneratedAt   string `json:"generated_at"`
	Result        struct {
		Name     string    `json:"name"`
		Label    string    `json:"label"`
		Releases []Release `json:"releases"`
	} `json:"result"`
}

// Support is the per-version lifecycle summary the dashboard renders next to
// a PHP version label.
type Support struct {
	Status       string `json:"status"`
	LatestPatch  string `json:"latest_patch,omitempty"`
	ReleaseDate  string `json:"release_date,omitempty"`
	EOLDate      string `json:"eol_date,omitempty"`
	IsMaintained bool   `json:"is_maintained"`
}

// Lifecycle status values
const (
	StatusActive       = "active"
	StatusSecurityOnly = "security-only"
	StatusEndOfLife    = "end-of-life"
)

// statusOf classifies a release into one of the lifecycle status values
func statusOf(r Release) string {
	switch {
	case r.IsEOL:
		return StatusEndOfLife
	case r.IsEOAS && r.IsMaintained:
		return StatusSecurityOnly
	default:
		return StatusActive
	}
}

// Client defines the interface for endoflife.date lookups
type Client interface {
	// GetProductInfo retrieves the full product document
	GetProductInfo(ctx context.Context, product string) (*ProductInfo, error)

	// PHPSupport returns the lifecycle summary per PHP version label
	PHPSupport(ctx context.Context) (map[string]Support, error)
}

// HTTPClient defines the interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds configuration for the lifecycle client
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient HTTPClient
}

// client implements the Client interface
type client struct {
	config Config
}

// NewClient creates a new endoflife.date client
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

	return &client{config: config}
}

// GetProductInfo retrieves the full product document
func (c *client) GetProductInfo(ctx context.Context, product string) (*ProductInfo, error) {
	if product == "" {
		return nil, APIError{
			StatusCode: http.StatusBadRequest,
			Message:    "product name cannot be empty",
		}
	}

	apiURL, err := url.JoinPath(c.config.BaseURL, "products", product)
	if err != nil {
		return nil, fmt.Errorf("failed to construct API URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return nil, APIError{
			Message: err.Error(),
			Product: product,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, APIError{
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
			Product:    product,
		}
	}

	var productInfo ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&productInfo); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, product, err)
	}

	return &productInfo, nil
}

// PHPSupport returns the lifecycle summary per PHP version label. Release
// cycle names map directly onto the farm's version labels ("8.3").
func (c *client) PHPSupport(ctx context.Context) (map[string]Support, error) {
	productInfo, err := c.GetProductInfo(ctx, phpProduct)
	if err != nil {
		return nil, err
	}

	support := make(map[string]Support, len(productInfo.Result.Releases))
	for _, release := range productInfo.Result.Releases {
		s := Support{
			Status:       statusOf(release),
			LatestPatch:  release.Latest.Name,
			ReleaseDate:  release.ReleaseDate,
			IsMaintained: release.IsMaintained,
		}
		if release.EOLFrom != nil {
			s.EOLDate = *release.EOLFrom
		}
		support[release.Name] = s
	}

	return support, nil
}

// Package graph implements the change feed and content fetch ports against
// a Microsoft Graph style drive API: client-credentials authentication,
// site and drive resolution, delta pagination and item content download.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

// Default configuration values.
const (
	DefaultBaseURL  = "https://graph.microsoft.com/v1.0"
	DefaultAuthBase = "https://login.microsoftonline.com"
	DefaultScope    = "https://graph.microsoft.com/.default"
	DefaultTimeout  = 60 * time.Second
)

// Config holds configuration for the Graph client.
type Config struct {
	// TenantID, ClientID and ClientSecret drive the client-credentials
	// token flow. All three are required.
	TenantID     string
	ClientID     string
	ClientSecret string

	// SiteHostname and SitePath locate the site
	// (e.g. "contoso.sharepoint.com", "/sites/Infrastructure").
	SiteHostname string
	SitePath     string

	// DriveName is the display name of the document library to sync.
	DriveName string

	// ScanFolders optionally restricts the sync to items under these
	// top-level folders. Empty means the whole drive.
	ScanFolders []string

	// BaseURL overrides the API base URL. Used by tests.
	BaseURL string

	// AuthBaseURL overrides the token endpoint base URL. Used by tests.
	AuthBaseURL string

	// Timeout is the per-request timeout (default 60s).
	Timeout time.Duration

	// RateLimit tunes the request rate limiter.
	RateLimit RateLimitConfig
}

// Client is an authenticated Graph drive client. It implements both the
// driven.ChangeFeed and driven.ContentFetcher ports.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	cfg         Config
	limiter     *rateLimiter
	scanFolders []string

	siteID  string
	driveID string
}

// NewClient creates a Graph client using the client-credentials flow.
func NewClient(cfg Config) (*Client, error) {
	if cfg.TenantID == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("graph: %w: tenant ID, client ID and client secret are required", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = DefaultAuthBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", cfg.AuthBaseURL, cfg.TenantID),
		Scopes:       []string{DefaultScope},
	}

	// Route token requests through a client with the same timeout.
	base := &http.Client{Timeout: cfg.Timeout}
	authCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := creds.Client(authCtx)
	httpClient.Timeout = cfg.Timeout

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		cfg:         cfg,
		limiter:     newRateLimiter(cfg.RateLimit),
		scanFolders: cfg.ScanFolders,
	}, nil
}

// siteResponse and driveList mirror the Graph API payloads we consume.
type siteResponse struct {
	ID string `json:"id"`
}

type driveList struct {
	Value []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"value"`
}

// resolveDriveID resolves and caches the drive ID from the configured site
// hostname, site path and drive display name.
func (c *Client) resolveDriveID(ctx context.Context) (string, error) {
	if c.driveID != "" {
		return c.driveID, nil
	}

	if c.siteID == "" {
		var site siteResponse
		siteURL := fmt.Sprintf("%s/sites/%s:%s", c.baseURL, c.cfg.SiteHostname, c.cfg.SitePath)
		if err := c.getJSON(ctx, siteURL, &site); err != nil {
			return "", fmt.Errorf("resolve site: %w", err)
		}
		c.siteID = site.ID
		logger.Debug("resolved site %s%s -> %s", c.cfg.SiteHostname, c.cfg.SitePath, c.siteID)
	}

	var drives driveList
	if err := c.getJSON(ctx, fmt.Sprintf("%s/sites/%s/drives", c.baseURL, c.siteID), &drives); err != nil {
		return "", fmt.Errorf("list drives: %w", err)
	}
	for _, d := range drives.Value {
		if strings.EqualFold(d.Name, c.cfg.DriveName) {
			c.driveID = d.ID
			logger.Debug("resolved drive %q -> %s", d.Name, d.ID)
			return c.driveID, nil
		}
	}

	names := make([]string, 0, len(drives.Value))
	for _, d := range drives.Value {
		names = append(names, d.Name)
	}
	return "", fmt.Errorf("graph: drive %q not found (available: %s): %w",
		c.cfg.DriveName, strings.Join(names, ", "), domain.ErrNotFound)
}

// getJSON performs a rate-limited GET and decodes the JSON response.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	body, _, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// get performs a rate-limited GET, classifying HTTP failures into domain
// errors. Returns the body and the Content-Type header.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read body: %v", domain.ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, resp.Header.Get("Content-Type"), nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", fmt.Errorf("graph: GET %s: %w", redact(rawURL), domain.ErrNotFound)
	case resp.StatusCode == http.StatusGone:
		// Graph invalidates delta tokens with 410; a full resync is needed.
		return nil, "", fmt.Errorf("graph: GET %s: %w", redact(rawURL), domain.ErrCursorExpired)
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		c.limiter.recordThrottle(retryAfter)
		return nil, "", fmt.Errorf("graph: GET %s: %w: %w", redact(rawURL), domain.ErrTransient, domain.ErrRateLimited)
	default:
		return nil, "", fmt.Errorf("graph: GET %s: status %d: %w", redact(rawURL), resp.StatusCode, domain.ErrTransient)
	}
}

// redact strips query parameters from URLs before they reach logs or
// errors; delta links embed tokens.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable url>"
	}
	u.RawQuery = ""
	return u.String()
}

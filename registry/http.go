// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/stacklok/agenthive/env"
)

const (
	// DefaultBaseURL is the production registry endpoint.
	DefaultBaseURL = "https://registry.agenthive.dev"

	// TokenEnvVar names the environment variable holding the bearer token
	// for authenticated registry access.
	TokenEnvVar = "AGENTHIVE_TOKEN"

	// maxJSONResponseBytes caps metadata response bodies to prevent
	// unbounded memory consumption from a misbehaving server (10 MiB).
	maxJSONResponseBytes = 10 << 20

	// maxArtifactBytes caps artifact downloads (100 MiB). This matches the
	// extractor's decompression ceiling, so anything larger could never be
	// installed anyway.
	maxArtifactBytes = 100 << 20

	// maxTokenLength bounds the bearer token before it is placed in a
	// request header.
	maxTokenLength = 8192

	defaultUserAgent = "agenthive"
	defaultTimeout   = 2 * time.Minute
)

// HTTPClient is the default Client implementation, talking JSON over HTTP
// to an AgentHive registry.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	env        env.Reader
	userAgent  string
}

var _ Client = (*HTTPClient)(nil)

// Option configures an HTTPClient during construction.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.httpClient = c
	}
}

// WithEnv sets the environment reader used to look up the bearer token.
func WithEnv(r env.Reader) Option {
	return func(h *HTTPClient) {
		h.env = r
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(h *HTTPClient) {
		h.userAgent = ua
	}
}

// NewHTTPClient creates a client for the registry at baseURL. An empty
// baseURL selects DefaultBaseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		env:        &env.OSReader{},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPackage fetches package-level metadata.
func (c *HTTPClient) GetPackage(ctx context.Context, id string) (*PackageInfo, error) {
	if id == "" {
		return nil, fmt.Errorf("package id cannot be empty")
	}

	u := fmt.Sprintf("%s/v1/packages/%s", c.baseURL, url.PathEscape(id))

	var info PackageInfo
	if err := c.doJSON(ctx, http.MethodGet, u, nil, "package "+id, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPackageVersion fetches one version's manifest and artifact location.
func (c *HTTPClient) GetPackageVersion(ctx context.Context, id, version string) (*VersionInfo, error) {
	if id == "" || version == "" {
		return nil, fmt.Errorf("package id and version cannot be empty")
	}

	u := fmt.Sprintf("%s/v1/packages/%s/%s", c.baseURL, url.PathEscape(id), url.PathEscape(version))

	var info VersionInfo
	if err := c.doJSON(ctx, http.MethodGet, u, nil, fmt.Sprintf("package %s@%s", id, version), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DownloadPackage fetches the raw artifact bytes at artifactURL. The bearer
// token is attached only when the URL targets the registry host, so a
// tarball hosted on a third-party CDN never sees the credential.
func (c *HTTPClient) DownloadPackage(ctx context.Context, artifactURL string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrDownload, redactURL(artifactURL), err)
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDownload, redactURL(artifactURL), err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, "artifact "+redactURL(artifactURL), ErrDownload); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrDownload, redactURL(artifactURL), err)
	}
	if len(data) > maxArtifactBytes {
		return nil, fmt.Errorf("%w: artifact exceeds size limit of %d bytes", ErrDownload, maxArtifactBytes)
	}
	return data, nil
}

// GetCollection fetches a collection document. An empty version selects the
// latest published revision.
func (c *HTTPClient) GetCollection(ctx context.Context, scope, slug, version string) (*Collection, error) {
	if scope == "" || slug == "" {
		return nil, fmt.Errorf("collection scope and slug cannot be empty")
	}

	u := fmt.Sprintf("%s/v1/collections/%s/%s", c.baseURL, url.PathEscape(scope), url.PathEscape(slug))
	if version != "" {
		u += "?version=" + url.QueryEscape(version)
	}

	var col Collection
	if err := c.doJSON(ctx, http.MethodGet, u, nil, fmt.Sprintf("collection %s/%s", scope, slug), &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// ResolveInstallPlan expands a collection into an ordered install plan.
func (c *HTTPClient) ResolveInstallPlan(ctx context.Context, req PlanRequest) (*InstallPlan, error) {
	if req.Scope == "" || req.Slug == "" {
		return nil, fmt.Errorf("collection scope and slug cannot be empty")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding plan request: %w", err)
	}

	u := fmt.Sprintf("%s/v1/collections/%s/%s/install-plan",
		c.baseURL, url.PathEscape(req.Scope), url.PathEscape(req.Slug))

	var plan InstallPlan
	what := fmt.Sprintf("install plan for %s/%s", req.Scope, req.Slug)
	if err := c.doJSON(ctx, http.MethodPost, u, body, what, &plan); err != nil {
		return nil, err
	}

	plan.normalize()
	return &plan, nil
}

// doJSON executes one JSON API request and decodes the response into out.
func (c *HTTPClient) doJSON(ctx context.Context, method, reqURL string, body []byte, what string, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := c.newRequest(ctx, method, reqURL, r)
	if err != nil {
		if errors.Is(err, ErrAuthentication) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", ErrRegistry, what, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRegistry, what, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, what, ErrRegistry); err != nil {
		return err
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrRegistry, what, err)
	}
	return nil
}

// newRequest builds a request with the common headers. The bearer token,
// when present in the environment, is validated and attached only for
// requests that target the registry host.
func (c *HTTPClient) newRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Request, error) {
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	if token, ok := c.env.LookupEnv(TokenEnvVar); ok && token != "" {
		if err := validateToken(token); err != nil {
			return nil, err
		}
		if sameHost(req.URL, c.baseURL) {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// validateToken rejects token values that cannot be carried in an HTTP
// header, closing off header injection through the environment.
func validateToken(token string) error {
	if len(token) > maxTokenLength {
		return fmt.Errorf("%w: token exceeds maximum length of %d bytes", ErrAuthentication, maxTokenLength)
	}
	if !httpguts.ValidHeaderFieldValue(token) {
		return fmt.Errorf("%w: token contains characters not allowed in an HTTP header", ErrAuthentication)
	}
	return nil
}

// classifyStatus maps an HTTP status code onto the package's sentinel
// errors. fallback classifies statuses outside the well-known set.
func classifyStatus(status int, what string, fallback error) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s (status %d)", ErrAuthentication, what, status)
	default:
		return fmt.Errorf("%w: %s: unexpected status %d", fallback, what, status)
	}
}

// sameHost reports whether reqURL targets the same host as the configured
// registry base URL.
func sameHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(reqURL.Host, base.Host)
}

// redactURL strips query parameters and fragments from a URL for safe
// inclusion in error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

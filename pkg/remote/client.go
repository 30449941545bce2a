// Package remote retrieves remotely hosted assets.
package remote

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fulmenhq/assetpipe/pkg/logger"
)

// DefaultCacheSize is the number of remote bodies kept in memory.
const DefaultCacheSize = 128

// MaxBodySize caps a single remote asset.
const MaxBodySize = 16 << 20

// IsURL reports whether name is a remote asset locator: an absolute
// http(s) URL or a protocol-relative //host/path reference.
func IsURL(name string) bool {
	if strings.HasPrefix(name, "//") {
		u, err := url.Parse("https:" + name)
		return err == nil && u.Host != ""
	}
	u, err := url.Parse(name)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Client fetches remote assets and caches their bodies.
type Client struct {
	fetcher HTTPFetcher
	cache   *lru.Cache[string, []byte]
}

// NewClient creates a Client with real HTTP for production use
func NewClient(cacheSize int) *Client {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
	return NewClientWithFetcher(NewRealHTTPFetcher(client), cacheSize)
}

// NewClientWithFetcher creates a Client with injectable HTTP for testing
func NewClientWithFetcher(fetcher HTTPFetcher, cacheSize int) *Client {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes
	cache, _ := lru.New[string, []byte](cacheSize)
	return &Client{fetcher: fetcher, cache: cache}
}

// Fetch returns the body of a remote asset.
func (c *Client) Fetch(locator string) ([]byte, error) {
	target := locator
	if strings.HasPrefix(target, "//") {
		target = "https:" + target
	}

	if body, ok := c.cache.Get(target); ok {
		logger.Trace("remote asset cache hit", logger.String("url", target))
		return body, nil
	}

	resp, err := c.fetcher.Get(target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", target, err)
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("remote asset %s exceeds %d bytes", target, MaxBodySize)
	}

	c.cache.Add(target, body)
	logger.Debug("fetched remote asset", logger.String("url", target), logger.Int("bytes", len(body)))
	return body, nil
}

// Purge drops every cached body.
func (c *Client) Purge() {
	c.cache.Purge()
}

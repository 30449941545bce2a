package remote

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// HTTPFetcher abstracts HTTP calls for testability
type HTTPFetcher interface {
	Get(url string) (*http.Response, error)
}

// RealHTTPFetcher wraps http.Client for production use
type RealHTTPFetcher struct {
	client *http.Client
}

// NewRealHTTPFetcher creates a production HTTP fetcher
func NewRealHTTPFetcher(client *http.Client) HTTPFetcher {
	return &RealHTTPFetcher{client: client}
}

func (f *RealHTTPFetcher) Get(url string) (*http.Response, error) {
	return f.client.Get(url)
}

// MockHTTPFetcher simulates HTTP responses for testing
type MockHTTPFetcher struct {
	mu        sync.Mutex
	responses map[string]mockResponse
	errors    map[string]error
	calls     map[string]int
}

type mockResponse struct {
	status int
	body   string
}

// NewMockHTTPFetcher creates a mock HTTP fetcher
func NewMockHTTPFetcher() *MockHTTPFetcher {
	return &MockHTTPFetcher{
		responses: make(map[string]mockResponse),
		errors:    make(map[string]error),
		calls:     make(map[string]int),
	}
}

// AddResponse registers a mock response for a URL
func (m *MockHTTPFetcher) AddResponse(urlStr string, statusCode int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[urlStr] = mockResponse{status: statusCode, body: body}
}

// AddError registers a mock error for a URL
func (m *MockHTTPFetcher) AddError(urlStr string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[urlStr] = err
}

// Calls returns how many times urlStr was requested
func (m *MockHTTPFetcher) Calls(urlStr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[urlStr]
}

func (m *MockHTTPFetcher) Get(urlStr string) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[urlStr]++

	if err, ok := m.errors[urlStr]; ok {
		return nil, err
	}
	parsedURL, _ := url.Parse(urlStr)
	if resp, ok := m.responses[urlStr]; ok {
		return &http.Response{
			StatusCode: resp.status,
			Body:       io.NopCloser(strings.NewReader(resp.body)),
			Header:     make(http.Header),
			Request:    &http.Request{URL: parsedURL},
		}, nil
	}
	// Return 404 for unknown URLs
	return &http.Response{
		StatusCode: http.StatusNotFound,
		Body:       io.NopCloser(strings.NewReader("Not Found")),
		Header:     make(http.Header),
		Request:    &http.Request{URL: parsedURL},
	}, nil
}

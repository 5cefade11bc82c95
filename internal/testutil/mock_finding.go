// Package testutil provides testing utilities for the storefront pipeline.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// MockResponse defines the behavior of the mock Finding API.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockFinding is a configurable mock Finding API server for testing.
type MockFinding struct {
	server *httptest.Server
	mu     sync.RWMutex
	resp   MockResponse

	// Tracking
	RequestCount int
	LastQuery    url.Values
}

// NewMockFinding creates a mock Finding API server answering with a success
// envelope containing no items until configured otherwise.
func NewMockFinding() *MockFinding {
	mock := &MockFinding{
		resp: MockResponse{
			StatusCode: http.StatusOK,
			Body:       SuccessEnvelope(),
		},
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		resp := mock.resp
		mock.mu.Unlock()

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockFinding) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFinding) Close() {
	m.server.Close()
}

// SetResponse configures the response returned to every request.
func (m *MockFinding) SetResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resp = resp
}

// Reset clears the tracking counters.
func (m *MockFinding) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastQuery = nil
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockFinding) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// ItemFixture describes one listing in a fabricated envelope.
type ItemFixture struct {
	ID       string
	Title    string
	Price    string
	Currency string
	Gallery  string
	Large    string
	URL      string
}

// RawItemJSON renders the fixture in the upstream's array-wrapped shape.
// Empty fields are omitted entirely, like the upstream does.
func (f ItemFixture) RawItemJSON() string {
	body := ""
	add := func(field, value string) {
		if value == "" {
			return
		}
		if body != "" {
			body += ","
		}
		body += fmt.Sprintf("%q:[%q]", field, value)
	}

	add("itemId", f.ID)
	add("title", f.Title)
	add("galleryURL", f.Gallery)
	add("pictureURLLarge", f.Large)
	add("viewItemURL", f.URL)

	if f.Price != "" {
		currency := f.Currency
		if currency == "" {
			currency = "USD"
		}
		if body != "" {
			body += ","
		}
		body += fmt.Sprintf(
			`"sellingStatus":[{"currentPrice":[{"@currencyId":%q,"__value__":%q}]}]`,
			currency, f.Price)
	}

	return "{" + body + "}"
}

// SuccessEnvelope builds a Finding API success envelope wrapping the given
// item fixtures.
func SuccessEnvelope(items ...ItemFixture) string {
	itemJSON := ""
	for i, f := range items {
		if i > 0 {
			itemJSON += ","
		}
		itemJSON += f.RawItemJSON()
	}

	return fmt.Sprintf(
		`{"findItemsIneBayStoresResponse":[{"ack":["Success"],"searchResult":[{"@count":"%d","item":[%s]}]}]}`,
		len(items), itemJSON)
}

// FailureEnvelope builds an envelope whose acknowledgement reports failure
// with the given upstream error message.
func FailureEnvelope(message string) string {
	return fmt.Sprintf(
		`{"findItemsIneBayStoresResponse":[{"ack":["Failure"],"errorMessage":[{"error":[{"message":[%q]}]}]}]}`,
		message)
}

// Fixture helpers for common test listings.

// OakTable is a complete listing priced at 50.00.
func OakTable() ItemFixture {
	return ItemFixture{
		ID:      "110001",
		Title:   "Oak Table",
		Price:   "50.00",
		Gallery: "https://img.example.com/110001-thumb.jpg",
		Large:   "https://img.example.com/110001-large.jpg",
		URL:     "https://www.ebay.com/itm/110001",
	}
}

// PineStool is a complete listing priced at 20.00.
func PineStool() ItemFixture {
	return ItemFixture{
		ID:      "110002",
		Title:   "Pine Stool",
		Price:   "20.00",
		Gallery: "https://img.example.com/110002-thumb.jpg",
		URL:     "https://www.ebay.com/itm/110002",
	}
}

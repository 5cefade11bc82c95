package ebay

// Envelope is the raw top-level response of the Finding API. Every scalar
// field arrives wrapped in a single-element array; these types mirror that
// shape verbatim and are only unwrapped by the catalog normalizer.
type Envelope struct {
	FindItemsIneBayStoresResponse []SearchResponse `json:"findItemsIneBayStoresResponse"`
}

// SearchResponse is the single element of the response wrapper array.
type SearchResponse struct {
	Ack          []string       `json:"ack"`
	ErrorMessage []ErrorMessage `json:"errorMessage"`
	SearchResult []SearchResult `json:"searchResult"`
}

// ErrorMessage wraps the upstream's own error detail list.
type ErrorMessage struct {
	Error []ErrorDetail `json:"error"`
}

// ErrorDetail carries one upstream error message.
type ErrorDetail struct {
	Message []string `json:"message"`
}

// SearchResult holds the item list for one page of results.
type SearchResult struct {
	Count string    `json:"@count"`
	Item  []RawItem `json:"item"`
}

// RawItem is a single listing as the upstream returns it.
type RawItem struct {
	ItemID          []string        `json:"itemId"`
	Title           []string        `json:"title"`
	GalleryURL      []string        `json:"galleryURL"`
	PictureURLLarge []string        `json:"pictureURLLarge"`
	ViewItemURL     []string        `json:"viewItemURL"`
	SellingStatus   []SellingStatus `json:"sellingStatus"`
}

// SellingStatus wraps the current-price record.
type SellingStatus struct {
	CurrentPrice []Price `json:"currentPrice"`
}

// Price is the upstream's attributed price value.
type Price struct {
	CurrencyID string `json:"@currencyId"`
	Value      string `json:"__value__"`
}

// First returns the first element of a wrapped scalar, or "" when absent.
func First(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Response returns the inner search response, or nil when the envelope lacks
// the expected wrapper.
func (e *Envelope) Response() *SearchResponse {
	if e == nil || len(e.FindItemsIneBayStoresResponse) == 0 {
		return nil
	}
	return &e.FindItemsIneBayStoresResponse[0]
}

// Items returns the raw item list, or nil when any nesting level is missing.
// A structurally empty envelope is zero items, not an error.
func (e *Envelope) Items() []RawItem {
	resp := e.Response()
	if resp == nil || len(resp.SearchResult) == 0 {
		return nil
	}
	return resp.SearchResult[0].Item
}

// ackOK reports whether the acknowledgement field indicates success.
// "Warning" still carries results and is accepted.
func (r *SearchResponse) ackOK() bool {
	switch First(r.Ack) {
	case "Success", "Warning":
		return true
	default:
		return false
	}
}

// errorText returns the upstream's first error message, or "" if none.
func (r *SearchResponse) errorText() string {
	if len(r.ErrorMessage) == 0 || len(r.ErrorMessage[0].Error) == 0 {
		return ""
	}
	return First(r.ErrorMessage[0].Error[0].Message)
}

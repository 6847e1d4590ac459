package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type FlightSearchParams struct {
	Origin      string
	Destination string
	DepartDate  string // YYYY-MM-DD
	ReturnDate  string // optional
	Adults      int
	Max         int
	Currency    string
	TravelClass string // optional: ECONOMY, BUSINESS, ...
}

type FlightSearchResult struct {
	Offers       []FlightOffer
	Dictionaries Dictionaries
	Raw          json.RawMessage
}

// SearchFlights runs a flight-offers search. Offers keep their raw upstream
// documents so a later booking can submit them back unchanged.
func (c *Client) SearchFlights(ctx context.Context, p FlightSearchParams) (*FlightSearchResult, error) {
	q := url.Values{}
	q.Set("originLocationCode", p.Origin)
	q.Set("destinationLocationCode", p.Destination)
	q.Set("departureDate", p.DepartDate)
	q.Set("adults", strconv.Itoa(max(p.Adults, 1)))
	q.Set("max", strconv.Itoa(defaultInt(p.Max, 10)))
	q.Set("currencyCode", defaultStr(p.Currency, "USD"))
	if strings.TrimSpace(p.ReturnDate) != "" {
		q.Set("returnDate", p.ReturnDate)
	}
	if p.TravelClass != "" {
		q.Set("travelClass", p.TravelClass)
	}

	body, err := c.call(ctx, http.MethodGet, "/v2/shopping/flight-offers", q, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data         []json.RawMessage `json:"data"`
		Dictionaries Dictionaries      `json:"dictionaries"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode flight offers: %w", err)
	}

	offers := make([]FlightOffer, 0, len(resp.Data))
	for _, raw := range resp.Data {
		var o FlightOffer
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("decode flight offer: %w", err)
		}
		o.Raw = raw
		offers = append(offers, o)
	}

	return &FlightSearchResult{Offers: offers, Dictionaries: resp.Dictionaries, Raw: body}, nil
}

// PriceFlightOffer confirms pricing for a previously returned offer.
func (c *Client) PriceFlightOffer(ctx context.Context, offer json.RawMessage) (json.RawMessage, error) {
	payload := map[string]any{
		"data": map[string]any{
			"type":         "flight-offers-pricing",
			"flightOffers": []json.RawMessage{offer},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	body, err := c.call(ctx, http.MethodPost, "/v1/shopping/flight-offers/pricing", nil, b)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode pricing: %w", err)
	}
	return resp.Data, nil
}

// CreateFlightOrder submits an order document and returns the provider's
// booking record.
func (c *Client) CreateFlightOrder(ctx context.Context, order json.RawMessage) (*FlightOrder, error) {
	body, err := c.call(ctx, http.MethodPost, "/v1/booking/flight-orders", nil, order)
	if err != nil {
		return nil, err
	}
	return decodeOrder(body)
}

// FlightOrder fetches the booking record for orderID.
func (c *Client) FlightOrder(ctx context.Context, orderID string) (*FlightOrder, error) {
	body, err := c.call(ctx, http.MethodGet, "/v1/booking/flight-orders/"+url.PathEscape(orderID), nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeOrder(body)
}

func decodeOrder(body []byte) (*FlightOrder, error) {
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	var o FlightOrder
	if err := json.Unmarshal(resp.Data, &o); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	o.Raw = resp.Data
	return &o, nil
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

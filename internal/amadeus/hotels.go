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

// HotelsByCity lists hotels around a city code from the reference-data API.
func (c *Client) HotelsByCity(ctx context.Context, cityCode string, radiusKM int) ([]Hotel, error) {
	q := url.Values{}
	q.Set("cityCode", strings.ToUpper(cityCode))
	q.Set("radius", strconv.Itoa(defaultInt(radiusKM, 20)))
	q.Set("radiusUnit", "KM")
	q.Set("hotelSource", "ALL")

	var resp struct {
		Data []Hotel `json:"data"`
	}
	if err := c.getJSON(ctx, "/v1/reference-data/locations/hotels/by-city", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type HotelOffersParams struct {
	HotelIDs     []string
	CheckInDate  string // YYYY-MM-DD
	CheckOutDate string // YYYY-MM-DD
	Adults       int
}

// HotelOffersSearch fetches best-rate room offers for up to a handful of
// hotel ids. The raw payload comes back alongside the decoded offers.
func (c *Client) HotelOffersSearch(ctx context.Context, p HotelOffersParams) ([]HotelOffers, json.RawMessage, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(p.HotelIDs, ","))
	q.Set("checkInDate", p.CheckInDate)
	q.Set("checkOutDate", p.CheckOutDate)
	q.Set("adults", strconv.Itoa(defaultInt(p.Adults, 2)))
	q.Set("roomQuantity", "1")
	q.Set("currency", "USD")
	q.Set("bestRateOnly", "true")

	body, err := c.call(ctx, http.MethodGet, "/v3/shopping/hotel-offers", q, nil)
	if err != nil {
		return nil, nil, err
	}
	var resp struct {
		Data []HotelOffers `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, nil, fmt.Errorf("decode hotel offers: %w", err)
	}
	return resp.Data, body, nil
}

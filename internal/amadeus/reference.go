package amadeus

import (
	"context"
	"net/url"
)

// AirportsByKeyword looks up airports matching a city name or code, for
// search-box autocompletion.
func (c *Client) AirportsByKeyword(ctx context.Context, keyword string) ([]Location, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	q.Set("page[limit]", "10")

	var resp struct {
		Data []Location `json:"data"`
	}
	if err := c.getJSON(ctx, "/v1/reference-data/locations/airports", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Airlines returns carrier reference data used to label offers.
func (c *Client) Airlines(ctx context.Context) ([]Airline, error) {
	q := url.Values{}
	q.Set("page[limit]", "100")

	var resp struct {
		Data []Airline `json:"data"`
	}
	if err := c.getJSON(ctx, "/v1/reference-data/airlines", q, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

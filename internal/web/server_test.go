package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/auth"
	"github.com/example/jetsetgo/internal/booking"
	"github.com/example/jetsetgo/internal/config"
	"github.com/example/jetsetgo/internal/hotels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fake Amadeus upstream covering the endpoints the handlers exercise
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/security/oauth2/token":
			fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
		case r.URL.Path == "/v2/shopping/flight-offers":
			fmt.Fprint(w, `{"data":[{
				"id":"1",
				"itineraries":[{"duration":"PT5H30M","segments":[{
					"departure":{"iataCode":"JFK","at":"2026-09-01T08:00:00"},
					"arrival":{"iataCode":"LAX","at":"2026-09-01T11:30:00"},
					"carrierCode":"AA","number":"123","aircraft":{"code":"321"}}]}],
				"price":{"currency":"USD","total":"299.00"}
			}],"dictionaries":{"carriers":{"AA":"AMERICAN AIRLINES"}}}`)
		case r.URL.Path == "/v1/reference-data/locations/hotels/by-city":
			fmt.Fprint(w, `{"data":[
				{"hotelId":"TSTLON","name":"TEST PROPERTY LONDON"},
				{"hotelId":"LONHIL","name":"HILTON LONDON METROPOLE HOTEL"}
			]}`)
		case r.URL.Path == "/v1/booking/flight-orders" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"errors":[{"code":38187,"title":"SEGMENT SELL FAILURE"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"code":1797,"detail":"not found"}]}`)
		}
	}))
}

func newTestServer(t *testing.T, upstream *httptest.Server, configured bool) *Server {
	t.Helper()
	opts := amadeus.Options{BaseURL: upstream.URL}
	if configured {
		opts.Key = config.Credential{Value: "k", EnvVar: "AMADEUS_API_KEY"}
		opts.Secret = config.Credential{Value: "s", EnvVar: "REACT_APP_AMADEUS_API_SECRET"}
	}
	client := amadeus.New(opts)
	return &Server{
		Amadeus: client,
		Hotels:  hotels.NewService(client, time.Second, time.Second),
		Booking: booking.NewService(client, booking.NewStore()),
	}
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return rec, out
}

func TestFlightSearch_MissingParams(t *testing.T) {
	var hit bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hit = true }))
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/flights/search", `{"from":"JFK"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "departDate")
	assert.False(t, hit, "validation failures must not reach the provider")
}

func TestFlightSearch_MissingCredentials(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, false).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/flights/search",
		`{"from":"JFK","to":"LAX","departDate":"2026-09-01"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "credentials not configured")
}

func TestFlightSearch_UpstreamUnreachable(t *testing.T) {
	upstream := fakeUpstream(t)
	s := newTestServer(t, upstream, true)
	upstream.Close()

	rec, out := doJSON(t, s.Routes(), http.MethodPost, "/api/flights/search",
		`{"from":"JFK","to":"LAX","departDate":"2026-09-01"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "upstream service unavailable", out["error"])
	assert.Equal(t, float64(http.StatusInternalServerError), out["code"])
}

func TestFlightSearch_EndToEnd(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/flights/search",
		`{"from":"JFK","to":"LAX","departDate":"2026-09-01","travelers":1}`)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, true, out["success"])

	data, ok := out["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	offer := data[0].(map[string]any)
	assert.Equal(t, "AMERICAN AIRLINES", offer["airline"])
	assert.Equal(t, "AA-123", offer["flightNumber"])
	assert.Equal(t, "JFK", offer["departure"].(map[string]any)["airport"])
	assert.Equal(t, "LAX", offer["arrival"].(map[string]any)["airport"])

	meta := out["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["resultCount"])
	assert.Equal(t, "amadeus-production-api", meta["source"])
}

func TestFlightOrder_SandboxFallbackToMock(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/flights/order",
		`{"flightOffers":[{"id":"1"}],"travelers":[{"id":"1"}]}`)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, true, out["success"])
	assert.Equal(t, string(booking.ModeMock), out["mode"])
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`), out["pnr"])
	assert.NotEmpty(t, out["orderId"])
}

func TestFlightOrder_MissingFields(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/flights/order", `{"flightOffers":[{"id":"1"}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "travelers")
}

func TestFlightOrderGet_RoundTripAndNotFound(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()

	_, created := doJSON(t, h, http.MethodPost, "/api/flights/order",
		`{"flightOffers":[{"id":"1"}],"travelers":[{"id":"1"}]}`)
	orderID := created["orderId"].(string)

	rec, out := doJSON(t, h, http.MethodGet, "/api/flights/order/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created["pnr"], out["pnr"])
	assert.Equal(t, string(booking.ModeMockStorage), out["mode"])

	rec, out = doJSON(t, h, http.MethodGet, "/api/flights/order/ORDER-unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, out["success"])
}

func TestFlightHealth_ReportsSourcesNotValues(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodGet, "/api/flights/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	creds := out["credentials"].(map[string]any)
	assert.Equal(t, true, creds["configured"])
	assert.Equal(t, "AMADEUS_API_KEY", creds["keySource"])
	assert.Equal(t, "REACT_APP_AMADEUS_API_SECRET", creds["secretSource"])
	assert.NotContains(t, rec.Body.String(), `"k"`, "raw credential values must never appear")
}

func TestHotelSearch_DegradesToSynthetic(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	// unconfigured client: every live tier ineligible
	h := newTestServer(t, upstream, false).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/hotels/search",
		`{"cityCode":"LON","checkInDate":"2026-09-10","checkOutDate":"2026-09-12"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "SYNTHETIC", out["provenance"])
	assert.NotEmpty(t, out["data"])
	meta := out["meta"].(map[string]any)
	assert.Equal(t, true, meta["synthetic"])
}

func TestHotelSearch_CityWithoutDatesListsHotels(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/hotels/search", `{"cityCode":"LON"}`)

	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, true, out["success"])
	// bare directory listing, not availability: no provenance envelope
	assert.NotContains(t, out, "provenance")

	data, ok := out["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1, "test listings are filtered out")
	hotel := data[0].(map[string]any)
	assert.Equal(t, "LONHIL", hotel["hotelId"])
	meta := out["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["resultCount"])
}

func TestHotelSearch_MissingParams(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/hotels/search", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, out["success"])
}

func TestSendEmail_MissingKey(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodPost, "/api/send-email",
		`{"name":"Ada","email":"ada@example.com","type":"callback"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Missing email API key", out["error"])
}

func TestMe_RequiresSession(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	s := newTestServer(t, upstream, true)
	s.Auth = auth.NewStore(nil, make([]byte, 32), make([]byte, 32))
	h := s.Routes()

	rec, out := doJSON(t, h, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "authentication required", out["error"])
}

func TestHealth(t *testing.T) {
	upstream := fakeUpstream(t)
	defer upstream.Close()

	h := newTestServer(t, upstream, true).Routes()
	rec, out := doJSON(t, h, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", out["status"])
	keys := out["apiKeys"].(map[string]any)
	assert.Equal(t, true, keys["amadeus"])
}

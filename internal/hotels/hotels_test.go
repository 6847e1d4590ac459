package hotels

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/config"
	"github.com/example/jetsetgo/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configuredClient(srv *httptest.Server) *amadeus.Client {
	return amadeus.New(amadeus.Options{
		BaseURL: srv.URL,
		Key:     config.Credential{Value: "k", EnvVar: "AMADEUS_API_KEY"},
		Secret:  config.Credential{Value: "s", EnvVar: "AMADEUS_API_SECRET"},
	})
}

const offersPayload = `{"data":[{"type":"hotel-offers","hotel":{"hotelId":"%s","name":"%s"},"available":true,"offers":[{"id":"OFF1","checkInDate":"2026-09-10","checkOutDate":"2026-09-12","room":{"type":"A1K","typeEstimated":{"category":"DELUXE_ROOM","beds":1,"bedType":"KING"},"description":{"text":"Deluxe king"}},"price":{"currency":"GBP","total":"250.00"},"policies":{"cancellations":[{"deadline":"2026-09-09T23:59:00"}]}}]}]}`

func TestLookup_CityTierWins(t *testing.T) {
	var offeredIDs atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
		case "/v1/reference-data/locations/hotels/by-city":
			assert.Equal(t, "LON", r.URL.Query().Get("cityCode"))
			fmt.Fprint(w, `{"data":[
				{"hotelId":"TSTPROP","name":"TEST PROPERTY LONDON"},
				{"hotelId":"HILON1","name":"HILTON LONDON PADDINGTON"},
				{"hotelId":"PLAINB","name":"THE BLOOMSBURY"}
			]}`)
		case "/v3/shopping/hotel-offers":
			offeredIDs.Store(r.URL.Query().Get("hotelIds"))
			fmt.Fprintf(w, offersPayload, "HILON1", "HILTON LONDON PADDINGTON")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(configuredClient(srv), time.Second, time.Second)
	res, err := svc.Lookup(context.Background(), LookupRequest{
		CityCode:     "LON",
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-12",
		Adults:       2,
	})
	require.NoError(t, err)

	assert.Equal(t, retrieval.ProvenanceLive, res.Provenance)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "HILON1", res.Items[0].HotelID)
	assert.Equal(t, "DELUXE_ROOM", res.Items[0].RoomType)
	assert.Equal(t, "GBP", res.Items[0].Price.Currency)
	assert.Equal(t, 250.0, res.Items[0].Price.Amount)
	assert.Contains(t, res.Items[0].Cancellation, "2026-09-09")

	ids := offeredIDs.Load().(string)
	assert.NotContains(t, ids, "TSTPROP", "test listings must never be availability-checked")
	assert.True(t, strings.HasPrefix(ids, "HILON1"), "branded property should rank first, got %s", ids)
}

func TestLookup_PlaceholderIDSkipsLiveTiers(t *testing.T) {
	var liveCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
		case "/v3/shopping/hotel-offers":
			// this would answer if any live tier ran
			atomic.AddInt32(&liveCalls, 1)
			fmt.Fprintf(w, offersPayload, FallbackHotelID, "TEST PROPERTY")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(configuredClient(srv), time.Second, time.Second)
	res, err := svc.Lookup(context.Background(), LookupRequest{
		Hotel:        HotelRef{ID: "local-123", Name: "Some Hotel", Placeholder: true},
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-12",
	})
	require.NoError(t, err)

	// a locally minted id has no provider identity: even with credentials
	// configured, no live tier may run and the result is placeholder data
	assert.Equal(t, int32(0), atomic.LoadInt32(&liveCalls))
	assert.Equal(t, retrieval.ProvenanceSynthetic, res.Provenance)
	require.NotEmpty(t, res.Items)
	assert.Equal(t, "local-123", res.Items[0].HotelID)
	assert.Equal(t, "Some Hotel", res.Items[0].HotelName)
}

func TestLookup_CityExhaustedFallsBackToKnownProperty(t *testing.T) {
	var mu sync.Mutex
	var requested []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
		case "/v1/reference-data/locations/hotels/by-city":
			fmt.Fprint(w, `{"data":[{"hotelId":"NOAVAIL","name":"RIVERSIDE HOTEL"}]}`)
		case "/v3/shopping/hotel-offers":
			ids := r.URL.Query().Get("hotelIds")
			mu.Lock()
			requested = append(requested, ids)
			mu.Unlock()
			if ids == FallbackHotelID {
				fmt.Fprintf(w, offersPayload, FallbackHotelID, "EDITION LONDON")
				return
			}
			fmt.Fprint(w, `{"data":[]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(configuredClient(srv), time.Second, time.Second)
	res, err := svc.Lookup(context.Background(), LookupRequest{
		CityCode:     "LON",
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-12",
	})
	require.NoError(t, err)

	assert.Equal(t, retrieval.ProvenanceLiveSecondary, res.Provenance)
	require.NotEmpty(t, res.Items)
	assert.Equal(t, FallbackHotelID, res.Items[0].HotelID)

	mu.Lock()
	got := append([]string(nil), requested...)
	mu.Unlock()
	require.Len(t, got, 2, "city availability first, then the known property")
	assert.Equal(t, FallbackHotelID, got[1])
}

func TestLookup_UnconfiguredClientSynthesizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no network call may happen without credentials")
	}))
	defer srv.Close()

	svc := NewService(amadeus.New(amadeus.Options{BaseURL: srv.URL}), time.Second, time.Second)
	res, err := svc.Lookup(context.Background(), LookupRequest{
		Hotel:        HotelRef{ID: "HX123", Name: "Harbour View"},
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-12",
	})
	require.NoError(t, err)

	assert.True(t, res.Synthetic())
	require.Len(t, res.Items, 3)
	for _, o := range res.Items {
		assert.Equal(t, "HX123", o.HotelID)
		assert.Equal(t, "Harbour View", o.HotelName)
		assert.Contains(t, o.ID, "SYN-HX123")
		assert.NotEmpty(t, o.RoomType)
		assert.NotEmpty(t, o.Price.Total)
		assert.Equal(t, "2026-09-10", o.CheckInDate)
	}
}

func TestLookup_AllTiersFailSynthesizes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/security/oauth2/token" {
			fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"errors":[{"code":141,"detail":"system error"}]}`)
	}))
	defer srv.Close()

	svc := NewService(configuredClient(srv), time.Second, time.Second)
	res, err := svc.Lookup(context.Background(), LookupRequest{
		CityCode:    "PAR",
		Hotel:       HotelRef{ID: "PARHTL1"},
		CheckInDate: "2026-09-10",
	})
	require.NoError(t, err, "exhausted tiers must degrade, not error")
	assert.True(t, res.Synthetic())
	assert.NotEmpty(t, res.Items)
}

func TestPrioritizeHotels(t *testing.T) {
	in := []amadeus.Hotel{
		{HotelID: "A", Name: "TEST PROPERTY ONE"},
		{HotelID: "B", Name: "RIVERSIDE GUESTHOUSE"},
		{HotelID: "C", Name: "MARRIOTT COUNTY HALL HOTEL"},
		{HotelID: "D", Name: "SYNSIX DEMO"},
		{HotelID: "E", Name: "GRAND HOTEL EXCELSIOR"},
	}

	out := prioritizeHotels(in, 10)
	require.Len(t, out, 3)
	assert.Equal(t, "C", out[0].HotelID, "brand plus hotel keyword ranks first")
	assert.Equal(t, "E", out[1].HotelID)
	assert.Equal(t, "B", out[2].HotelID)
}

func TestScoreHotel(t *testing.T) {
	assert.Negative(t, scoreHotel("Test Property Lisbon"))
	assert.Negative(t, scoreHotel("SYNSIX HOTEL"))
	assert.Equal(t, 0, scoreHotel("The Bloomsbury"))
	assert.Equal(t, 3, scoreHotel("Grand Hotel"))
	assert.Equal(t, 8, scoreHotel("Hilton Garden Hotel"))
}

func TestCity_ReturnsRankedDirectory(t *testing.T) {
	var offerCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
		case "/v1/reference-data/locations/hotels/by-city":
			assert.Equal(t, "ROM", r.URL.Query().Get("cityCode"))
			fmt.Fprint(w, `{"data":[
				{"hotelId":"TSTROM","name":"TEST PROPERTY ROME"},
				{"hotelId":"ROMPEN","name":"PENSIONE TRASTEVERE"},
				{"hotelId":"ROMHIL","name":"HILTON ROME AIRPORT HOTEL"}
			]}`)
		case "/v3/shopping/hotel-offers":
			atomic.AddInt32(&offerCalls, 1)
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(configuredClient(srv), time.Second, time.Second)
	list, err := svc.City(context.Background(), "ROM")
	require.NoError(t, err)

	// a date-free search lists properties; availability is never checked
	assert.Equal(t, int32(0), atomic.LoadInt32(&offerCalls))
	require.Len(t, list, 2)
	assert.Equal(t, "ROMHIL", list[0].HotelID)
	assert.Equal(t, "ROMPEN", list[1].HotelID)
}

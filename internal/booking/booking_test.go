package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pnrPattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

func newClient(srv *httptest.Server) *amadeus.Client {
	return amadeus.New(amadeus.Options{
		BaseURL: srv.URL,
		Key:     config.Credential{Value: "k", EnvVar: "AMADEUS_API_KEY"},
		Secret:  config.Credential{Value: "s", EnvVar: "AMADEUS_API_SECRET"},
	})
}

// upstream that rejects order creation with the given error body and knows
// no orders.
func rejectingUpstream(status int, errBody string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/security/oauth2/token":
			fmt.Fprint(w, `{"access_token":"tok","expires_in":1799}`)
		case r.URL.Path == "/v1/booking/flight-orders" && r.Method == http.MethodPost:
			w.WriteHeader(status)
			fmt.Fprint(w, errBody)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors":[{"code":1797,"detail":"not found"}]}`)
		}
	}))
}

func TestCreateOrder_SandboxRejectionBecomesMockBooking(t *testing.T) {
	srv := rejectingUpstream(http.StatusBadRequest,
		`{"errors":[{"code":38187,"title":"SEGMENT SELL FAILURE","detail":"Could not sell segment"}]}`)
	defer srv.Close()

	store := NewStore()
	svc := NewService(newClient(srv), store)

	conf, err := svc.CreateOrder(context.Background(), json.RawMessage(`{"data":{}}`), 2)
	require.NoError(t, err)

	assert.Equal(t, ModeMock, conf.Mode)
	assert.Regexp(t, pnrPattern, conf.PNR)
	assert.NotEmpty(t, conf.OrderID)
	assert.Equal(t, 1, store.Len())

	// the stored document mirrors the real order schema
	var doc struct {
		ID                string `json:"id"`
		AssociatedRecords []struct {
			Reference string `json:"reference"`
		} `json:"associatedRecords"`
		Travelers []json.RawMessage `json:"travelers"`
	}
	require.NoError(t, json.Unmarshal(conf.Data, &doc))
	assert.Equal(t, conf.OrderID, doc.ID)
	require.NotEmpty(t, doc.AssociatedRecords)
	assert.Equal(t, conf.PNR, doc.AssociatedRecords[0].Reference)
	assert.Len(t, doc.Travelers, 2)
}

func TestCreateOrder_UnauthorizedAlsoFallsBackToMock(t *testing.T) {
	srv := rejectingUpstream(http.StatusUnauthorized,
		`{"errors":[{"code":4001,"detail":"invalid token"}]}`)
	defer srv.Close()

	svc := NewService(newClient(srv), NewStore())

	conf, err := svc.CreateOrder(context.Background(), json.RawMessage(`{"data":{}}`), 1)
	require.NoError(t, err)
	assert.Equal(t, ModeMock, conf.Mode)
	assert.Regexp(t, pnrPattern, conf.PNR)
}

func TestCreateOrder_OtherErrorsPropagate(t *testing.T) {
	srv := rejectingUpstream(http.StatusBadRequest,
		`{"errors":[{"code":477,"title":"INVALID FORMAT","detail":"invalid traveler date of birth"}]}`)
	defer srv.Close()

	store := NewStore()
	svc := NewService(newClient(srv), store)

	_, err := svc.CreateOrder(context.Background(), json.RawMessage(`{"data":{}}`), 1)
	var apiErr *amadeus.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 477, apiErr.Code)
	assert.Equal(t, 0, store.Len(), "a genuine rejection must not create a mock order")
}

func TestOrder_MockRoundTrip(t *testing.T) {
	srv := rejectingUpstream(http.StatusBadRequest,
		`{"errors":[{"code":38190,"detail":"Invalid data received"}]}`)
	defer srv.Close()

	svc := NewService(newClient(srv), NewStore())

	created, err := svc.CreateOrder(context.Background(), json.RawMessage(`{"data":{}}`), 1)
	require.NoError(t, err)

	got, err := svc.Order(context.Background(), created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderID, got.OrderID)
	assert.Equal(t, created.PNR, got.PNR, "retrieval must reproduce the minted record locator")
	assert.Equal(t, ModeMockStorage, got.Mode)
}

func TestOrder_UnknownIDIsNotFound(t *testing.T) {
	srv := rejectingUpstream(http.StatusBadRequest, `{}`)
	defer srv.Close()

	svc := NewService(newClient(srv), NewStore())

	_, err := svc.Order(context.Background(), "ORDER-does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UniquePNRs(t *testing.T) {
	store := NewStore()
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		pnr := store.NewPNR()
		assert.Regexp(t, pnrPattern, pnr)
		_, dup := seen[pnr]
		assert.False(t, dup, "pnr %s minted twice", pnr)
		seen[pnr] = struct{}{}
	}
}

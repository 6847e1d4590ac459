// Package booking creates and retrieves flight orders against the live
// provider, substituting a process-local mock booking when the provider's
// test environment rejects a well-formed order.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/jetsetgo/internal/amadeus"
)

// Mode says how a confirmation was produced.
type Mode string

const (
	ModeLive        Mode = "LIVE_AMADEUS_BOOKING"
	ModeMock        Mode = "MOCK_TESTING_PNR"
	ModeMockStorage Mode = "MOCK_STORAGE"
)

// ErrNotFound means neither the live API nor the mock store knows the id.
var ErrNotFound = errors.New("booking: order not found")

// Confirmation is the terminal state of a booking attempt or lookup.
type Confirmation struct {
	OrderID string
	PNR     string
	Mode    Mode
	Data    json.RawMessage
	Message string
}

type Service struct {
	client *amadeus.Client
	store  *Store
}

func NewService(client *amadeus.Client, store *Store) *Service {
	return &Service{client: client, store: store}
}

// CreateOrder attempts the live order first. A rejection matching the known
// sandbox-limitation class becomes a mock booking with a locally minted
// PNR; any other failure propagates unchanged and creates nothing.
func (s *Service) CreateOrder(ctx context.Context, order json.RawMessage, travelers int) (*Confirmation, error) {
	live, err := s.client.CreateFlightOrder(ctx, order)
	if err == nil {
		return &Confirmation{
			OrderID: live.ID,
			PNR:     live.PNR(),
			Mode:    ModeLive,
			Data:    live.Raw,
			Message: "Real booking created with actual PNR",
		}, nil
	}

	if !amadeus.IsSandboxLimitation(err) {
		return nil, err
	}

	pnr := s.store.NewPNR()
	orderID := s.store.NewOrderID()
	payload := mockOrderDocument(orderID, pnr, travelers)
	s.store.Put(MockOrder{
		ID:        orderID,
		PNR:       pnr,
		Payload:   payload,
		CreatedAt: time.Now(),
		Status:    "CONFIRMED",
	})
	log.Printf("booking: live order rejected by test environment, created mock booking %s (pnr=%s)", orderID, pnr)

	return &Confirmation{
		OrderID: orderID,
		PNR:     pnr,
		Mode:    ModeMock,
		Data:    payload,
		Message: "Mock booking created for testing - use production keys for real PNRs",
	}, nil
}

// Order resolves an order id: live lookup first, then the mock store.
func (s *Service) Order(ctx context.Context, orderID string) (*Confirmation, error) {
	live, err := s.client.FlightOrder(ctx, orderID)
	if err == nil {
		return &Confirmation{
			OrderID: live.ID,
			PNR:     live.PNR(),
			Mode:    ModeLive,
			Data:    live.Raw,
		}, nil
	}
	log.Printf("booking: live lookup for %s failed (%v), checking mock store", orderID, err)

	if mo, ok := s.store.Get(orderID); ok {
		return &Confirmation{
			OrderID: mo.ID,
			PNR:     mo.PNR,
			Mode:    ModeMockStorage,
			Data:    mo.Payload,
		}, nil
	}
	return nil, ErrNotFound
}

// Package hotels resolves room offers for a stay through a tiered chain of
// Amadeus lookups, degrading to clearly-labeled placeholder offers when no
// live source answers.
package hotels

import (
	"context"
	"strconv"
	"time"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/retrieval"
)

// HotelRef identifies a property. Placeholder marks ids minted locally by
// the frontend for listings that never came from the provider; live lookups
// keyed on such an id are pointless and are skipped.
type HotelRef struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type LookupRequest struct {
	Hotel        HotelRef `json:"hotel"`
	CityCode     string   `json:"cityCode,omitempty"`
	CheckInDate  string   `json:"checkInDate"`
	CheckOutDate string   `json:"checkOutDate"`
	Adults       int      `json:"adults,omitempty"`
}

// Offer is a normalized room offer with the stable field set the frontend
// renders, regardless of which tier produced it.
type Offer struct {
	ID           string `json:"id"`
	HotelID      string `json:"hotelId"`
	HotelName    string `json:"hotelName"`
	RoomType     string `json:"roomType"`
	Description  string `json:"description,omitempty"`
	Price        Price  `json:"price"`
	Cancellation string `json:"cancellation"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

type Price struct {
	Total    string  `json:"total"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Service owns the source chain for hotel-offer retrieval.
type Service struct {
	client *amadeus.Client
	orch   *retrieval.Orchestrator[LookupRequest, Offer]

	// bounds each individual tier so one slow provider call cannot eat
	// the whole chain's deadline
	perSource time.Duration
}

// FallbackHotelID is a property known to return availability in the
// provider's test environment, used as a last live resort before synthesis.
const FallbackHotelID = "EDLONDER"

func NewService(client *amadeus.Client, timeout, perSource time.Duration) *Service {
	if perSource <= 0 || perSource > timeout {
		perSource = timeout
	}
	s := &Service{client: client, perSource: perSource}
	s.orch = retrieval.New(timeout, synthesizeOffers,
		retrieval.Source[LookupRequest, Offer]{
			Name:       "amadeus-city-availability",
			Priority:   1,
			Provenance: retrieval.ProvenanceLive,
			Eligible: func(req LookupRequest) bool {
				return client.Configured() && req.CityCode != ""
			},
			Fetch: s.fetchByCity,
		},
		retrieval.Source[LookupRequest, Offer]{
			Name:       "amadeus-direct-hotel",
			Priority:   2,
			Provenance: retrieval.ProvenanceLiveSecondary,
			Eligible: func(req LookupRequest) bool {
				return client.Configured() && req.Hotel.ID != "" && !req.Hotel.Placeholder
			},
			Fetch: s.fetchDirect,
		},
		retrieval.Source[LookupRequest, Offer]{
			Name:       "amadeus-fallback-property",
			Priority:   3,
			Provenance: retrieval.ProvenanceLiveSecondary,
			// backstop for city searches; a placeholder-only request has no
			// live identity at all, so it goes straight to synthesis
			Eligible: func(req LookupRequest) bool {
				return client.Configured() && (req.CityCode != "" || !req.Hotel.Placeholder)
			},
			Fetch: s.fetchFallbackProperty,
		},
	)
	return s
}

// Lookup returns the best available offers for the stay. The result is
// never empty; synthetic provenance means no live source answered in time.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) (retrieval.Result[Offer], error) {
	return s.orch.Lookup(ctx, req)
}

// City lists properties around a city code without checking availability.
// A search that carries no stay dates has nothing to price, so the ranked
// directory is the whole answer.
func (s *Service) City(ctx context.Context, cityCode string) ([]amadeus.Hotel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.perSource)
	defer cancel()
	found, err := s.client.HotelsByCity(ctx, cityCode, 20)
	if err != nil {
		return nil, err
	}
	ranked := prioritizeHotels(found, 20)
	if len(ranked) == 0 {
		ranked = found
	}
	return ranked, nil
}

// fetchByCity lists properties in the city, filters out test listings, and
// checks availability for the best-ranked handful.
func (s *Service) fetchByCity(ctx context.Context, req LookupRequest) ([]Offer, any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.perSource)
	defer cancel()
	hotels, err := s.client.HotelsByCity(ctx, req.CityCode, 20)
	if err != nil {
		return nil, nil, err
	}
	ranked := prioritizeHotels(hotels, 20)
	if len(ranked) == 0 {
		ranked = hotels
	}
	ids := make([]string, 0, 5)
	for _, h := range ranked {
		ids = append(ids, h.HotelID)
		if len(ids) == 5 {
			break
		}
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}
	return s.offersFor(ctx, ids, req)
}

func (s *Service) fetchDirect(ctx context.Context, req LookupRequest) ([]Offer, any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.perSource)
	defer cancel()
	return s.offersFor(ctx, []string{req.Hotel.ID}, req)
}

func (s *Service) fetchFallbackProperty(ctx context.Context, req LookupRequest) ([]Offer, any, error) {
	ctx, cancel := context.WithTimeout(ctx, s.perSource)
	defer cancel()
	return s.offersFor(ctx, []string{FallbackHotelID}, req)
}

func (s *Service) offersFor(ctx context.Context, ids []string, req LookupRequest) ([]Offer, any, error) {
	sets, raw, err := s.client.HotelOffersSearch(ctx, amadeus.HotelOffersParams{
		HotelIDs:     ids,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Adults:       req.Adults,
	})
	if err != nil {
		return nil, nil, err
	}
	return normalizeOffers(sets), raw, nil
}

func normalizeOffers(sets []amadeus.HotelOffers) []Offer {
	var out []Offer
	for _, set := range sets {
		for _, ro := range set.Offers {
			amount, _ := strconv.ParseFloat(ro.Price.Total, 64)
			o := Offer{
				ID:           ro.ID,
				HotelID:      set.Hotel.HotelID,
				HotelName:    set.Hotel.Name,
				RoomType:     roomType(ro),
				Description:  ro.Room.Description.Text,
				Price:        Price{Total: ro.Price.Total, Amount: amount, Currency: ro.Price.Currency},
				Cancellation: cancellation(ro),
				CheckInDate:  ro.CheckInDate,
				CheckOutDate: ro.CheckOutDate,
			}
			out = append(out, o)
		}
	}
	return out
}

func roomType(ro amadeus.RoomOffer) string {
	if ro.Room.TypeEstimated.Category != "" {
		return ro.Room.TypeEstimated.Category
	}
	if ro.Room.Type != "" {
		return ro.Room.Type
	}
	return "STANDARD_ROOM"
}

func cancellation(ro amadeus.RoomOffer) string {
	for _, c := range ro.Policies.Cancellations {
		if c.Deadline != "" {
			return "Free cancellation until " + c.Deadline
		}
	}
	if ro.Policies.PaymentType == "guarantee" {
		return "Cancellable, card guarantee required"
	}
	return "Non-refundable"
}

package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/example/jetsetgo/internal/amadeus"
	"github.com/example/jetsetgo/internal/transform"
	"github.com/gorilla/mux"
)

type flightSearchRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	DepartDate  string `json:"departDate"`
	ReturnDate  string `json:"returnDate"`
	Travelers   int    `json:"travelers"`
	TravelClass string `json:"travelClass"`
}

type flightSearchResponse struct {
	Data []transform.FlightOffer `json:"data"`
	Meta envelope                `json:"meta"`
}

func (s *Server) handleFlightSearch(w http.ResponseWriter, r *http.Request) {
	var req flightSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.From == "" || req.To == "" || req.DepartDate == "" {
		respondError(w, http.StatusBadRequest,
			"Missing required parameters: from, to, and departDate are required")
		return
	}
	if !s.Amadeus.Configured() {
		respondError(w, http.StatusInternalServerError,
			"API credentials not configured. Please contact support.")
		return
	}

	cacheKey := fmt.Sprintf("flights|%s|%s|%s|%s|%d|%s",
		req.From, req.To, req.DepartDate, req.ReturnDate, req.Travelers, req.TravelClass)
	var cached flightSearchResponse
	if s.Cache.Get(r.Context(), cacheKey, &cached) {
		respondData(w, http.StatusOK, envelope{"data": cached.Data, "meta": cached.Meta})
		return
	}

	result, err := s.Amadeus.SearchFlights(r.Context(), amadeus.FlightSearchParams{
		Origin:      req.From,
		Destination: req.To,
		DepartDate:  req.DepartDate,
		ReturnDate:  req.ReturnDate,
		Adults:      req.Travelers,
		TravelClass: req.TravelClass,
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	offers := transform.Flights(result.Offers, result.Dictionaries)
	if len(offers) == 0 {
		respondData(w, http.StatusOK, envelope{
			"data":    []transform.FlightOffer{},
			"message": "No flights found for the specified route and date.",
		})
		return
	}

	meta := envelope{
		"searchParams": req,
		"resultCount":  len(offers),
		"totalResults": len(result.Offers),
		"source":       "amadeus-production-api",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}
	s.Cache.Set(r.Context(), cacheKey, flightSearchResponse{Data: offers, Meta: meta})
	respondData(w, http.StatusOK, envelope{"data": offers, "meta": meta})
}

type flightPriceRequest struct {
	FlightOffer json.RawMessage `json:"flightOffer"`
}

func (s *Server) handleFlightPrice(w http.ResponseWriter, r *http.Request) {
	var req flightPriceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.FlightOffer) == 0 {
		respondError(w, http.StatusBadRequest, "Missing required parameter: flightOffer")
		return
	}

	priced, err := s.Amadeus.PriceFlightOffer(r.Context(), req.FlightOffer)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondData(w, http.StatusOK, envelope{
		"data":    priced,
		"message": "Flight price confirmed",
	})
}

type flightOrderRequest struct {
	FlightOffers []json.RawMessage `json:"flightOffers"`
	Travelers    []json.RawMessage `json:"travelers"`
	Payments     []json.RawMessage `json:"payments"`
	Contacts     []json.RawMessage `json:"contacts"`
}

func (s *Server) handleFlightOrderCreate(w http.ResponseWriter, r *http.Request) {
	var req flightOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.FlightOffers) == 0 || len(req.Travelers) == 0 {
		respondError(w, http.StatusBadRequest,
			"Missing required parameters: flightOffers and travelers are required")
		return
	}

	order := map[string]any{
		"data": map[string]any{
			"type":         "flight-order",
			"flightOffers": req.FlightOffers,
			"travelers":    req.Travelers,
		},
	}
	if len(req.Payments) > 0 {
		order["data"].(map[string]any)["payments"] = req.Payments
	}
	if len(req.Contacts) > 0 {
		order["data"].(map[string]any)["contacts"] = req.Contacts
	}
	payload, err := json.Marshal(order)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order payload")
		return
	}

	conf, err := s.Booking.CreateOrder(r.Context(), payload, len(req.Travelers))
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondData(w, http.StatusOK, envelope{
		"data":    conf.Data,
		"pnr":     conf.PNR,
		"orderId": conf.OrderID,
		"mode":    conf.Mode,
		"message": conf.Message,
	})
}

func (s *Server) handleFlightOrderGet(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	conf, err := s.Booking.Order(r.Context(), orderID)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondData(w, http.StatusOK, envelope{
		"data":    conf.Data,
		"pnr":     conf.PNR,
		"orderId": conf.OrderID,
		"mode":    conf.Mode,
		"message": conf.Message,
	})
}

func (s *Server) handleFlightHealth(w http.ResponseWriter, r *http.Request) {
	keySource, secretSource := s.Amadeus.CredentialSources()
	respondData(w, http.StatusOK, envelope{
		"service":   "Flight API",
		"status":    "operational",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"credentials": envelope{
			"configured":   s.Amadeus.Configured(),
			"keySource":    keySource,
			"secretSource": secretSource,
		},
	})
}

func (s *Server) handleAirports(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if len(keyword) < 2 {
		respondError(w, http.StatusBadRequest,
			"Missing required parameter: keyword must be at least 2 characters")
		return
	}

	locations, err := s.Amadeus.AirportsByKeyword(r.Context(), keyword)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondData(w, http.StatusOK, envelope{"data": locations})
}

func (s *Server) handleAirlines(w http.ResponseWriter, r *http.Request) {
	airlines, err := s.Amadeus.Airlines(r.Context())
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondData(w, http.StatusOK, envelope{"data": airlines})
}

package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/example/jetsetgo/internal/hotels"
	"github.com/gorilla/mux"
)

type hotelSearchRequest struct {
	CityCode     string `json:"cityCode"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Adults       int    `json:"adults"`
	Hotel        struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Placeholder bool   `json:"placeholder"`
	} `json:"hotel"`
}

func (s *Server) handleHotelSearch(w http.ResponseWriter, r *http.Request) {
	var req hotelSearchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CityCode == "" && req.Hotel.ID == "" {
		respondError(w, http.StatusBadRequest,
			"Missing required parameters: cityCode or hotel.id is required")
		return
	}

	// a city search without stay dates is a directory listing, not an
	// availability check
	if req.CityCode != "" && req.CheckInDate == "" && req.CheckOutDate == "" {
		list, err := s.Hotels.City(r.Context(), req.CityCode)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		respondData(w, http.StatusOK, envelope{
			"data": list,
			"meta": envelope{
				"resultCount": len(list),
				"cityCode":    req.CityCode,
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			},
		})
		return
	}

	result, err := s.Hotels.Lookup(r.Context(), hotels.LookupRequest{
		Hotel: hotels.HotelRef{
			ID:          req.Hotel.ID,
			Name:        req.Hotel.Name,
			Placeholder: req.Hotel.Placeholder,
		},
		CityCode:     req.CityCode,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Adults:       req.Adults,
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondData(w, http.StatusOK, envelope{
		"data":       result.Items,
		"provenance": result.Provenance,
		"meta": envelope{
			"resultCount": len(result.Items),
			"synthetic":   result.Synthetic(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleHotelOffers(w http.ResponseWriter, r *http.Request) {
	hotelID := mux.Vars(r)["hotelId"]
	q := r.URL.Query()

	result, err := s.Hotels.Lookup(r.Context(), hotels.LookupRequest{
		Hotel: hotels.HotelRef{
			ID:          hotelID,
			Name:        q.Get("name"),
			Placeholder: q.Get("placeholder") == "true",
		},
		CheckInDate:  q.Get("checkInDate"),
		CheckOutDate: q.Get("checkOutDate"),
		Adults:       atoiDefault(q.Get("adults"), 1),
	})
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondData(w, http.StatusOK, envelope{
		"data":       result.Items,
		"provenance": result.Provenance,
	})
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

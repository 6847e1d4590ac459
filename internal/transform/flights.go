// Package transform reshapes provider payloads into the flat offer records
// the frontend renders.
package transform

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/jetsetgo/internal/amadeus"
)

// FlightOffer is the normalized record the search endpoint returns.
// OriginalOffer keeps the untouched provider document for later booking.
type FlightOffer struct {
	ID            string          `json:"id"`
	Airline       string          `json:"airline"`
	AirlineCode   string          `json:"airlineCode"`
	FlightNumber  string          `json:"flightNumber"`
	Price         Price           `json:"price"`
	Duration      string          `json:"duration"`
	Departure     Endpoint        `json:"departure"`
	Arrival       Endpoint        `json:"arrival"`
	Stops         int             `json:"stops"`
	StopDetails   []Stop          `json:"stopDetails"`
	Aircraft      string          `json:"aircraft"`
	Cabin         string          `json:"cabin"`
	Baggage       string          `json:"baggage"`
	Refundable    bool            `json:"refundable"`
	Seats         string          `json:"seats"`
	OriginalOffer json.RawMessage `json:"originalOffer,omitempty"`
}

type Endpoint struct {
	Time     string `json:"time"`
	Airport  string `json:"airport"`
	Terminal string `json:"terminal"`
	Date     string `json:"date"`
}

type Stop struct {
	Airport  string `json:"airport"`
	Duration string `json:"duration"`
}

type Price struct {
	Total    string  `json:"total"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Flights normalizes a batch of offers. Offers missing segment data are
// skipped rather than failing the whole batch.
func Flights(offers []amadeus.FlightOffer, dict amadeus.Dictionaries) []FlightOffer {
	out := make([]FlightOffer, 0, len(offers))
	for _, o := range offers {
		f, err := flight(o, dict)
		if err != nil {
			log.Printf("transform: skipping offer %s: %v", o.ID, err)
			continue
		}
		out = append(out, f)
	}
	return out
}

func flight(o amadeus.FlightOffer, dict amadeus.Dictionaries) (FlightOffer, error) {
	if len(o.Itineraries) == 0 || len(o.Itineraries[0].Segments) == 0 {
		return FlightOffer{}, fmt.Errorf("no segments")
	}
	itin := o.Itineraries[0]
	first := itin.Segments[0]
	last := itin.Segments[len(itin.Segments)-1]

	carrier := first.CarrierCode
	airline := carrier
	if name, ok := dict.Carriers[carrier]; ok && name != "" {
		airline = name
	}
	aircraft := first.Aircraft.Code
	if name, ok := dict.Aircraft[aircraft]; ok && name != "" {
		aircraft = name
	}
	if aircraft == "" {
		aircraft = "Unknown"
	}

	amount, _ := strconv.ParseFloat(o.Price.Total, 64)

	cabin := "ECONOMY"
	baggage := "23kg"
	refundable := false
	if len(o.TravelerPricings) > 0 {
		tp := o.TravelerPricings[0]
		refundable = tp.Price.RefundableTaxes != ""
		if len(tp.FareDetailsBySegment) > 0 {
			fd := tp.FareDetailsBySegment[0]
			if fd.Cabin != "" {
				cabin = fd.Cabin
			}
			if fd.IncludedCheckedBags.Weight > 0 {
				unit := fd.IncludedCheckedBags.WeightUnit
				if unit == "" {
					unit = "kg"
				}
				baggage = fmt.Sprintf("%d%s", fd.IncludedCheckedBags.Weight, strings.ToLower(unit))
			}
		}
	}

	stops := len(itin.Segments) - 1
	var stopDetails []Stop
	for _, seg := range itin.Segments[:len(itin.Segments)-1] {
		d := seg.Duration
		if d == "" {
			d = "Unknown"
		}
		stopDetails = append(stopDetails, Stop{Airport: seg.Arrival.IataCode, Duration: humanDuration(d)})
	}

	return FlightOffer{
		ID:            o.ID,
		Airline:       airline,
		AirlineCode:   carrier,
		FlightNumber:  carrier + "-" + first.Number,
		Price:         Price{Total: o.Price.Total, Amount: amount, Currency: defaultStr(o.Price.Currency, "USD")},
		Duration:      humanDuration(itin.Duration),
		Departure:     endpoint(first.Departure),
		Arrival:       endpoint(last.Arrival),
		Stops:         stops,
		StopDetails:   stopDetails,
		Aircraft:      aircraft,
		Cabin:         cabin,
		Baggage:       baggage,
		Refundable:    refundable,
		Seats:         "Available",
		OriginalOffer: o.Raw,
	}, nil
}

// endpoint splits an Amadeus local timestamp ("2025-08-15T08:00:00") into
// the date and HH:MM time the frontend displays.
func endpoint(p amadeus.FlightPoint) Endpoint {
	date, clock := splitLocalTime(p.At)
	return Endpoint{Time: clock, Airport: p.IataCode, Terminal: p.Terminal, Date: date}
}

func splitLocalTime(at string) (date, clock string) {
	parts := strings.SplitN(at, "T", 2)
	date = parts[0]
	if len(parts) == 2 && len(parts[1]) >= 5 {
		clock = parts[1][:5]
	}
	return date, clock
}

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?$`)

// humanDuration converts ISO-8601 durations like PT5H30M to "5h 30m".
func humanDuration(iso string) string {
	m := durationRe.FindStringSubmatch(iso)
	if m == nil {
		return iso
	}
	hours, minutes := 0, 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

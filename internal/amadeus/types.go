package amadeus

import "encoding/json"

// Wire types for the subset of the Amadeus Self-Service payloads this
// service reads. Raw payloads are retained alongside the decoded fields so
// downstream consumers (booking, debugging) keep the full document.

type FlightPoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type Segment struct {
	Departure   FlightPoint `json:"departure"`
	Arrival     FlightPoint `json:"arrival"`
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number"`
	Aircraft    struct {
		Code string `json:"code"`
	} `json:"aircraft"`
	Duration      string `json:"duration,omitempty"`
	ID            string `json:"id,omitempty"`
	NumberOfStops int    `json:"numberOfStops"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

type Fee struct {
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

type Price struct {
	Currency        string `json:"currency"`
	Total           string `json:"total"`
	Base            string `json:"base,omitempty"`
	Fees            []Fee  `json:"fees,omitempty"`
	RefundableTaxes string `json:"refundableTaxes,omitempty"`
}

type IncludedCheckedBags struct {
	Weight     int    `json:"weight,omitempty"`
	WeightUnit string `json:"weightUnit,omitempty"`
	Quantity   int    `json:"quantity,omitempty"`
}

type FareDetail struct {
	SegmentID           string              `json:"segmentId"`
	Cabin               string              `json:"cabin"`
	FareBasis           string              `json:"fareBasis,omitempty"`
	Class               string              `json:"class,omitempty"`
	IncludedCheckedBags IncludedCheckedBags `json:"includedCheckedBags,omitempty"`
}

type TravelerPricing struct {
	TravelerID           string       `json:"travelerId"`
	FareOption           string       `json:"fareOption,omitempty"`
	TravelerType         string       `json:"travelerType,omitempty"`
	Price                Price        `json:"price"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment,omitempty"`
}

type FlightOffer struct {
	ID                     string            `json:"id"`
	Source                 string            `json:"source,omitempty"`
	Itineraries            []Itinerary       `json:"itineraries"`
	Price                  Price             `json:"price"`
	TravelerPricings       []TravelerPricing `json:"travelerPricings,omitempty"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes,omitempty"`

	// Raw is the untouched upstream document for this offer; booking
	// submits it back verbatim.
	Raw json.RawMessage `json:"-"`
}

type Dictionaries struct {
	Carriers map[string]string `json:"carriers,omitempty"`
	Aircraft map[string]string `json:"aircraft,omitempty"`
}

type AssociatedRecord struct {
	Reference        string `json:"reference"`
	CreationDate     string `json:"creationDate,omitempty"`
	OriginSystemCode string `json:"originSystemCode,omitempty"`
	FlightOfferID    string `json:"flightOfferId,omitempty"`
}

type FlightOrder struct {
	ID                string             `json:"id"`
	Type              string             `json:"type,omitempty"`
	AssociatedRecords []AssociatedRecord `json:"associatedRecords,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// PNR returns the record locator, empty when the order carries none.
func (o *FlightOrder) PNR() string {
	if o == nil || len(o.AssociatedRecords) == 0 {
		return ""
	}
	return o.AssociatedRecords[0].Reference
}

type Hotel struct {
	HotelID   string `json:"hotelId"`
	Name      string `json:"name"`
	ChainCode string `json:"chainCode,omitempty"`
	CityCode  string `json:"cityCode,omitempty"`
	GeoCode   struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"geoCode,omitempty"`
}

type RoomOffer struct {
	ID           string `json:"id"`
	CheckInDate  string `json:"checkInDate,omitempty"`
	CheckOutDate string `json:"checkOutDate,omitempty"`
	Room         struct {
		Type          string `json:"type,omitempty"`
		TypeEstimated struct {
			Category string `json:"category,omitempty"`
			Beds     int    `json:"beds,omitempty"`
			BedType  string `json:"bedType,omitempty"`
		} `json:"typeEstimated,omitempty"`
		Description struct {
			Text string `json:"text,omitempty"`
		} `json:"description,omitempty"`
	} `json:"room,omitempty"`
	Price    Price `json:"price"`
	Policies struct {
		Cancellations []struct {
			Deadline string `json:"deadline,omitempty"`
			Amount   string `json:"amount,omitempty"`
			Type     string `json:"type,omitempty"`
		} `json:"cancellations,omitempty"`
		PaymentType string `json:"paymentType,omitempty"`
	} `json:"policies,omitempty"`
}

type HotelOffers struct {
	Hotel     Hotel       `json:"hotel"`
	Available bool        `json:"available"`
	Offers    []RoomOffer `json:"offers,omitempty"`
}

type Location struct {
	IataCode string `json:"iataCode"`
	Name     string `json:"name"`
	SubType  string `json:"subType,omitempty"`
	Address  struct {
		CityName    string `json:"cityName,omitempty"`
		CountryName string `json:"countryName,omitempty"`
	} `json:"address,omitempty"`
}

type Airline struct {
	IataCode     string `json:"iataCode"`
	IcaoCode     string `json:"icaoCode,omitempty"`
	BusinessName string `json:"businessName,omitempty"`
	CommonName   string `json:"commonName,omitempty"`
}

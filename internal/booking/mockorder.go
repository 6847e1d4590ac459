package booking

import (
	"encoding/json"
	"strconv"
	"time"
)

// mockOrderDocument builds a full flight-order document mirroring the live
// schema, so consumers of a mock booking read the same fields they would on
// a real one.
func mockOrderDocument(orderID, pnr string, travelers int) json.RawMessage {
	if travelers < 1 {
		travelers = 1
	}
	now := time.Now().UTC()
	date := now.Format("2006-01-02")

	travelerDocs := make([]map[string]any, 0, travelers)
	travelerPricings := make([]map[string]any, 0, travelers)
	for i := 1; i <= travelers; i++ {
		id := strconv.Itoa(i)
		travelerDocs = append(travelerDocs, map[string]any{
			"id":          id,
			"dateOfBirth": "1990-01-01",
			"name":        map[string]any{"firstName": "JOHN", "lastName": "DOE"},
			"gender":      "MALE",
			"contact": map[string]any{
				"emailAddress": "john.doe@test.com",
				"phones": []map[string]any{
					{"deviceType": "MOBILE", "countryCallingCode": "1", "number": "5551234567"},
				},
			},
			"documents": []map[string]any{{
				"documentType":    "PASSPORT",
				"number":          "P123456789",
				"expiryDate":      "2030-12-31",
				"issuanceCountry": "US",
				"nationality":     "US",
				"holder":          true,
			}},
		})
		travelerPricings = append(travelerPricings, map[string]any{
			"travelerId":   id,
			"fareOption":   "STANDARD",
			"travelerType": "ADULT",
			"price":        map[string]any{"currency": "USD", "total": "299.00", "base": "249.00"},
			"fareDetailsBySegment": []map[string]any{{
				"segmentId":           "1",
				"cabin":               "ECONOMY",
				"fareBasis":           "UG1YXII",
				"class":               "U",
				"includedCheckedBags": map[string]any{"weight": 23, "weightUnit": "KG"},
			}},
		})
	}

	doc := map[string]any{
		"id":   orderID,
		"type": "flight-order",
		"associatedRecords": []map[string]any{{
			"reference":        pnr,
			"creationDate":     date,
			"originSystemCode": "TEST",
			"flightOfferId":    "TEST-OFFER-123",
		}},
		"flightOffers": []map[string]any{{
			"type":                  "flight-offer",
			"id":                    "TEST-OFFER-123",
			"source":                "GDS",
			"numberOfBookableSeats": travelers,
			"itineraries": []map[string]any{{
				"duration": "PT5H30M",
				"segments": []map[string]any{{
					"departure":     map[string]any{"iataCode": "NYC", "terminal": "4", "at": date + "T08:00:00"},
					"arrival":       map[string]any{"iataCode": "LAX", "terminal": "1", "at": date + "T11:30:00"},
					"carrierCode":   "AA",
					"number":        "123",
					"aircraft":      map[string]any{"code": "321"},
					"operating":     map[string]any{"carrierCode": "AA"},
					"duration":      "PT5H30M",
					"id":            "1",
					"numberOfStops": 0,
				}},
			}},
			"price": map[string]any{
				"currency": "USD",
				"total":    "299.00",
				"base":     "249.00",
				"fees":     []map[string]any{{"amount": "50.00", "type": "SUPPLIER"}},
			},
			"pricingOptions":         map[string]any{"fareType": []string{"PUBLISHED"}, "includedCheckedBagsOnly": true},
			"validatingAirlineCodes": []string{"AA"},
			"travelerPricings":       travelerPricings,
		}},
		"travelers":          travelerDocs,
		"ticketingAgreement": map[string]any{"option": "DELAY_TO_CANCEL", "delay": "6D"},
		"contacts": []map[string]any{{
			"addresseeName": map[string]any{"firstName": "JOHN", "lastName": "DOE"},
			"purpose":       "STANDARD",
			"emailAddress":  "john.doe@test.com",
		}},
	}

	b, _ := json.Marshal(doc)
	return b
}

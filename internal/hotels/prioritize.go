package hotels

import (
	"sort"
	"strings"

	"github.com/example/jetsetgo/internal/amadeus"
)

// prioritizeHotels ranks properties so availability checks spend their
// limited id budget on listings a traveler would actually book. Known
// test-environment listings are dropped outright.
func prioritizeHotels(in []amadeus.Hotel, limit int) []amadeus.Hotel {
	type scored struct {
		hotel amadeus.Hotel
		score int
	}
	ranked := make([]scored, 0, len(in))
	for _, h := range in {
		s := scoreHotel(h.Name)
		if s < 0 {
			continue
		}
		ranked = append(ranked, scored{hotel: h, score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]amadeus.Hotel, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.hotel)
	}
	return out
}

func scoreHotel(name string) int {
	n := strings.ToUpper(name)
	if strings.Contains(n, "TEST PROPERTY") || strings.Contains(n, "TEST HOTEL") || strings.Contains(n, "SYNSIX") {
		return -1
	}
	score := 0
	if strings.Contains(n, "HOTEL") {
		score += 3
	}
	if strings.Contains(n, "HILTON") || strings.Contains(n, "MARRIOTT") || strings.Contains(n, "HYATT") {
		score += 5
	}
	return score
}

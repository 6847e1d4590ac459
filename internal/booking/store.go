package booking

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// MockOrder is a booking simulated locally after the live API rejected the
// request with a test-environment error. Mock orders live only in process
// memory and vanish on restart; that is the accepted contract of the
// demo/fallback path.
type MockOrder struct {
	ID        string          `json:"id"`
	PNR       string          `json:"pnr"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
	Status    string          `json:"status"`
}

// Store holds mock orders keyed by order id. Ids and PNRs are generated to
// be unique per process so concurrent writers never collide on a key.
type Store struct {
	mu     sync.Mutex
	orders map[string]MockOrder
	pnrs   map[string]struct{}
	rng    *rand.Rand
}

func NewStore() *Store {
	return &Store{
		orders: make(map[string]MockOrder),
		pnrs:   make(map[string]struct{}),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	pnrLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	pnrDigits  = "0123456789"
)

// NewPNR mints a record locator in airline format: three letters then
// three digits, unique within this process.
func (s *Store) NewPNR() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		b := make([]byte, 6)
		for i := 0; i < 3; i++ {
			b[i] = pnrLetters[s.rng.Intn(len(pnrLetters))]
		}
		for i := 3; i < 6; i++ {
			b[i] = pnrDigits[s.rng.Intn(len(pnrDigits))]
		}
		pnr := string(b)
		if _, taken := s.pnrs[pnr]; !taken {
			s.pnrs[pnr] = struct{}{}
			return pnr
		}
	}
}

// NewOrderID mints an order id unique within this process.
func (s *Store) NewOrderID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		id := fmt.Sprintf("ORDER-%d-%03d", time.Now().UnixMilli(), s.rng.Intn(1000))
		if _, taken := s.orders[id]; !taken {
			return id
		}
	}
}

func (s *Store) Put(o MockOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

func (s *Store) Get(id string) (MockOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

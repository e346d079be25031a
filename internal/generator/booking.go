package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/dummydata/config"
	"github.com/Domenick1991/dummydata/internal/domain"
	"github.com/brianvoe/gofakeit/v6"
)

// ErrRangeTooSmall is returned instead of looping forever when a unique field
// cannot get a fresh value for the requested batch size.
var ErrRangeTooSmall = errors.New("range too small for batch size")

var ErrNegativeCount = errors.New("record count must not be negative")

type BookingGenerator struct {
	faker       *gofakeit.Faker
	cfg         config.BookingConfig
	maxAttempts int
}

func NewBookingGenerator(faker *gofakeit.Faker, cfg config.BookingConfig, maxAttempts int) *BookingGenerator {
	if maxAttempts <= 0 {
		maxAttempts = 1000
	}
	return &BookingGenerator{faker: faker, cfg: cfg, maxAttempts: maxAttempts}
}

// Generate returns n bookings whose flight ids are pairwise distinct and whose
// non-nil seats are pairwise distinct.
func (g *BookingGenerator) Generate(n int) ([]domain.Booking, error) {
	if n < 0 {
		return nil, ErrNegativeCount
	}
	if span := g.cfg.FlightIDMax - g.cfg.FlightIDMin + 1; int64(n) > span {
		return nil, fmt.Errorf("flight_id: %d values requested from %d possible: %w", n, span, ErrRangeTooSmall)
	}

	flightIDs := make(map[int64]struct{}, n)
	seats := make(map[string]struct{})
	bookings := make([]domain.Booking, 0, n)

	for i := 0; i < n; i++ {
		flightID, err := g.uniqueFlightID(flightIDs)
		if err != nil {
			return nil, err
		}

		var seat *string
		if g.faker.Bool() {
			s, err := g.uniqueSeat(seats)
			if err != nil {
				return nil, err
			}
			seat = &s
		}

		bookings = append(bookings, domain.Booking{
			FlightID:    flightID,
			Seat:        seat,
			PassengerID: g.between(g.cfg.PassengerIDMin, g.cfg.PassengerIDMax),
			Price:       domain.Price(g.between(g.cfg.PriceMinCents, g.cfg.PriceMaxCents)),
		})
	}
	return bookings, nil
}

func (g *BookingGenerator) uniqueFlightID(seen map[int64]struct{}) (int64, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		id := g.between(g.cfg.FlightIDMin, g.cfg.FlightIDMax)
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			return id, nil
		}
	}
	return 0, fmt.Errorf("flight_id: no fresh value after %d draws: %w", g.maxAttempts, ErrRangeTooSmall)
}

func (g *BookingGenerator) uniqueSeat(seen map[string]struct{}) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		seat := g.seatCode()
		if _, dup := seen[seat]; !dup {
			seen[seat] = struct{}{}
			return seat, nil
		}
	}
	return "", fmt.Errorf("seat: no fresh value after %d draws: %w", g.maxAttempts, ErrRangeTooSmall)
}

// seatCode is two uppercase letters followed by two digits, e.g. "KQ07".
func (g *BookingGenerator) seatCode() string {
	return g.faker.Numerify(strings.ToUpper(g.faker.Lexify("??")) + "##")
}

func (g *BookingGenerator) between(min, max int64) int64 {
	return int64(g.faker.Number(int(min), int(max)))
}

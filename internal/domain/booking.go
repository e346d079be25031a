package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Price is an amount in cents. It always renders with two fractional digits.
type Price int64

func (p Price) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Value writes the price as a decimal string so DECIMAL/NUMERIC columns keep
// exactly two fractional digits.
func (p Price) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

type Booking struct {
	FlightID    int64   `json:"flight_id"`
	Seat        *string `json:"seat"`
	PassengerID int64   `json:"passenger_id"`
	Price       Price   `json:"price"`
}

// Row returns the booking in BookingColumns order.
func (b Booking) Row() []any {
	var seat any
	if b.Seat != nil {
		seat = *b.Seat
	}
	return []any{b.FlightID, seat, b.PassengerID, b.Price}
}

var BookingColumns = []string{"flight_id", "seat", "passenger_id", "price"}

// Mode selects what happens to existing rows before an insert.
type Mode string

const (
	ModeAppend Mode = "append"
	ModeReset  Mode = "reset"
)

// ParseMode maps the y/n query flag to a Mode. Only an explicit yes resets.
func ParseMode(flag string) Mode {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "y", "yes":
		return ModeReset
	default:
		return ModeAppend
	}
}

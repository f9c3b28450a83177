package domain

import (
	"fmt"
	"time"
)

type SpotType string

const (
	SpotCompact     SpotType = "COMPACT"
	SpotRegular     SpotType = "REGULAR"
	SpotHandicapped SpotType = "HANDICAPPED"
	SpotReserved    SpotType = "RESERVED"
)

// HourlyRateCents is the base parking rate a spot of this type bills per hour.
func (t SpotType) HourlyRateCents() int64 {
	switch t {
	case SpotCompact:
		return 200
	case SpotRegular:
		return 500
	case SpotHandicapped:
		return 200
	case SpotReserved:
		return 1000
	}
	return 0
}

func (t SpotType) Valid() bool {
	switch t {
	case SpotCompact, SpotRegular, SpotHandicapped, SpotReserved:
		return true
	}
	return false
}

type VehicleType string

const (
	VehicleMotorcycle  VehicleType = "MOTORCYCLE"
	VehicleCar         VehicleType = "CAR"
	VehicleSUV         VehicleType = "SUV"
	VehicleTruck       VehicleType = "TRUCK"
	VehicleHandicapped VehicleType = "HANDICAPPED"
)

func (t VehicleType) Valid() bool {
	switch t {
	case VehicleMotorcycle, VehicleCar, VehicleSUV, VehicleTruck, VehicleHandicapped:
		return true
	}
	return false
}

type FineScheme string

const (
	SchemeFixed       FineScheme = "FIXED"
	SchemeProgressive FineScheme = "PROGRESSIVE"
	SchemeHourly      FineScheme = "HOURLY"
)

func (s FineScheme) Valid() bool {
	switch s {
	case SchemeFixed, SchemeProgressive, SchemeHourly:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayCash PaymentMethod = "CASH"
	PayCard PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	return m == PayCash || m == PayCard
}

// ParkingSpot is a single space in the lot. SpotID is "F<floor>-R<row>-S<slot>"
// and unique; Plate is set iff Occupied.
type ParkingSpot struct {
	SpotID   string   `json:"spot_id"`
	Floor    int      `json:"floor"`
	Row      int      `json:"row"`
	Slot     int      `json:"slot"`
	Type     SpotType `json:"type"`
	Occupied bool     `json:"occupied"`
	Plate    string   `json:"plate,omitempty"`
}

func SpotID(floor, row, slot int) string {
	return fmt.Sprintf("F%d-R%d-S%d", floor, row, slot)
}

// Ticket is the record of one ongoing parking episode. At most one active
// ticket exists per plate.
type Ticket struct {
	TicketID    string      `json:"ticket_id"`
	Plate       string      `json:"plate"`
	SpotID      string      `json:"spot_id"`
	VehicleType VehicleType `json:"vehicle_type"`
	EntryAt     time.Time   `json:"entry_at"`
}

// Fine is a monetary penalty tied to a plate, independent of any ticket.
// PaidAt and Method are set iff Paid.
type Fine struct {
	FineID      string        `json:"fine_id"`
	Plate       string        `json:"plate"`
	Scheme      FineScheme    `json:"scheme"`
	AmountCents int64         `json:"amount_cents"`
	Reason      string        `json:"reason"`
	IssuedAt    time.Time     `json:"issued_at"`
	Paid        bool          `json:"paid"`
	Method      PaymentMethod `json:"method,omitempty"`
	PaidAt      *time.Time    `json:"paid_at,omitempty"`
}

// VehicleLog is one append-only history row per parking episode.
// ExitAt is nil while the vehicle is still inside.
type VehicleLog struct {
	TicketID    string      `json:"ticket_id"`
	Plate       string      `json:"plate"`
	SpotID      string      `json:"spot_id"`
	VehicleType VehicleType `json:"vehicle_type"`
	EntryAt     time.Time   `json:"entry_at"`
	ExitAt      *time.Time  `json:"exit_at,omitempty"`
}

// SpotTypeCount is the availability breakdown for one spot type.
type SpotTypeCount struct {
	Type     SpotType `json:"type"`
	Free     int64    `json:"free"`
	Occupied int64    `json:"occupied"`
	Total    int64    `json:"total"`
}

// Receipt is the breakdown returned by a gate exit.
type Receipt struct {
	PaymentID       string        `json:"payment_id"`
	TicketID        string        `json:"ticket_id"`
	Plate           string        `json:"plate"`
	SpotID          string        `json:"spot_id"`
	DurationHours   int64         `json:"duration_hours"`
	ParkingFeeCents int64         `json:"parking_fee_cents"`
	FineCents       int64         `json:"fine_cents"`
	TotalCents      int64         `json:"total_cents"`
	Method          PaymentMethod `json:"method"`
	AmountPaidCents int64         `json:"amount_paid_cents"`
	ChangeCents     int64         `json:"change_cents"`
	EntryAt         time.Time     `json:"entry_at"`
	ExitAt          time.Time     `json:"exit_at"`
	SettledFineID   string        `json:"settled_fine_id,omitempty"`
}

// RevenueSummary aggregates paid fines for a reporting period.
type RevenueSummary struct {
	DatePrefix string `json:"date_prefix"`
	TotalCents int64  `json:"total_cents"`
	Count      int64  `json:"count"`
}

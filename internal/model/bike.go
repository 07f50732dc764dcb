package model

import "time"

// BikeStatus enumerates the states a bike can be in.  The lifecycle
// controller only ever writes Available, Booked and InUse; the
// remaining values are set by inventory management and park the bike
// outside the booking flow.
type BikeStatus string

const (
	BikeAvailable   BikeStatus = "available"   // free to book
	BikeBooked      BikeStatus = "booked"      // claimed by a confirmed booking
	BikeInUse       BikeStatus = "in_use"      // ride in progress
	BikeReturned    BikeStatus = "returned"    // returned, awaiting inspection
	BikeMaintenance BikeStatus = "maintenance" // pulled for repairs
	BikeReserved    BikeStatus = "reserved"    // held back by staff
	BikeOffline     BikeStatus = "offline"     // removed from the fleet
)

// Bookable reports whether a bike in this status may accept new
// bookings.  Booked and in-use bikes stay bookable for future windows;
// overlap is decided against the booking table, not this flag.
func (s BikeStatus) Bookable() bool {
	switch s {
	case BikeAvailable, BikeBooked, BikeInUse, BikeReturned:
		return true
	}
	return false
}

// Valid reports whether s is one of the known bike statuses.
func (s BikeStatus) Valid() bool {
	switch s {
	case BikeAvailable, BikeBooked, BikeInUse, BikeReturned, BikeMaintenance, BikeReserved, BikeOffline:
		return true
	}
	return false
}

// Bike represents a rentable bike as stored in the `bikes` table.
// The stored status is a cached projection of the bike's active
// bookings and is updated transactionally alongside booking
// transitions; availability reads never trust it alone.
//
// Fields:
//  ID              - primary key identifier.
//  Name            - display name of the bike.
//  Brand           - manufacturer brand.
//  Model           - manufacturer model.
//  Category        - bike category (e.g. mountain, road, electric).
//  HourlyRateCents - rental price per hour in cents (non-negative).
//  Status          - current status, see BikeStatus.
//  Description     - optional free-text description.
//  Rating          - average review rating, one decimal place.
//  TotalReviews    - number of reviews backing the rating.
//  CreatedAt       - creation timestamp.
//  UpdatedAt       - last update timestamp.
type Bike struct {
	ID              uint64     `json:"id"`
	Name            string     `json:"name"`
	Brand           string     `json:"brand"`
	Model           string     `json:"model"`
	Category        string     `json:"category"`
	HourlyRateCents uint32     `json:"hourly_rate_cents"`
	Status          BikeStatus `json:"status"`
	Description     *string    `json:"description,omitempty"`
	Rating          float64    `json:"rating"`
	TotalReviews    uint32     `json:"total_reviews"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

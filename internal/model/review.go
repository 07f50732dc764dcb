package model

import "time"

// Review is a customer's rating of a bike they rented.  The store
// enforces at most one review per (user, bike) pair.
//
// Fields:
//  ID        - primary key identifier.
//  UserID    - author of the review.
//  BikeID    - bike being reviewed.
//  Rating    - star rating from 1 to 5.
//  Comment   - free-text comment.
//  CreatedAt - creation timestamp.
type Review struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	BikeID    uint64    `json:"bike_id"`
	Rating    uint8     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

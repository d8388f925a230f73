package models

import "time"

// Cafe is the persisted, normalized form of a place. GooglePlaceID is the
// natural key; at most one row exists per value.
type Cafe struct {
	GooglePlaceID   string    `json:"google_place_id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	Geohash         string    `json:"geohash"`
	IsOpenNow       bool      `json:"is_open_now"`
	OpeningHours    []string  `json:"opening_hours"`
	Rating          *float64  `json:"rating"`
	UserRatingCount int       `json:"user_rating_count"`
	PriceLevel      *int      `json:"price_level"`
	PhoneNumber     *string   `json:"phone_number"`
	Website         *string   `json:"website"`
	LastUpdated     time.Time `json:"last_updated"`
}

// CafePin is the projection the map reads: just enough to draw a marker.
type CafePin struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

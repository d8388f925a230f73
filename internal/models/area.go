package models

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Bounds is a rectangular region expressed by its edges in degrees.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// SearchArea is one circular query region; radius is in meters.
type SearchArea struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

// KitchenerWaterlooBounds covers both Kitchener and Waterloo.
var KitchenerWaterlooBounds = Bounds{
	North: 43.5200,
	South: 43.4000,
	East:  -80.4200,
	West:  -80.6000,
}

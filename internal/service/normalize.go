package service

import (
	"strings"
	"time"

	"cafe-finder/internal/models"

	"github.com/mmcloughlin/geohash"
)

// UnknownCafeName is stored when a place comes back without a display name.
const UnknownCafeName = "Unknown Cafe"

// geohashPrecision of 9 is roughly a 5m cell.
const geohashPrecision = 9

// chainFilters are matched as lowercase substrings of the display name, so
// "Downtown Subway Cafe" is excluded as well as "Subway".
var chainFilters = []string{
	"tim hortons",
	"tims",
	"mcdonalds",
	"mcdonald's",
	"coffee time",
	"country style",
	"dunkin",
	"subway",
	"baskin-robbins",
	"fit for life",
}

var priceLevels = map[string]int{
	"PRICE_LEVEL_FREE":           0,
	"PRICE_LEVEL_INEXPENSIVE":    1,
	"PRICE_LEVEL_MODERATE":       2,
	"PRICE_LEVEL_EXPENSIVE":      3,
	"PRICE_LEVEL_VERY_EXPENSIVE": 4,
}

// IsChain reports whether name contains any known chain name.
func IsChain(name string) bool {
	lower := strings.ToLower(name)
	for _, chain := range chainFilters {
		if strings.Contains(lower, chain) {
			return true
		}
	}
	return false
}

// MapPriceLevel converts a Places API price level enum to 0-4, or nil for
// anything unrecognized.
func MapPriceLevel(level string) *int {
	v, ok := priceLevels[level]
	if !ok {
		return nil
	}
	return &v
}

// Normalize maps a raw place onto the stored cafe schema. LastUpdated is set
// to now.
func Normalize(p models.RawPlace, now time.Time) models.Cafe {
	cafe := models.Cafe{
		GooglePlaceID: p.ID,
		Name:          p.Name(),
		Address:       p.FormattedAddress,
		Rating:        p.Rating,
		PriceLevel:    MapPriceLevel(p.PriceLevel),
		LastUpdated:   now,
	}

	if cafe.Name == "" {
		cafe.Name = UnknownCafeName
	}
	if p.Location != nil {
		cafe.Latitude = p.Location.Latitude
		cafe.Longitude = p.Location.Longitude
	}
	cafe.Geohash = geohash.EncodeWithPrecision(cafe.Latitude, cafe.Longitude, geohashPrecision)

	if h := p.RegularOpeningHours; h != nil {
		if h.OpenNow != nil {
			cafe.IsOpenNow = *h.OpenNow
		}
		if len(h.WeekdayDescriptions) > 0 {
			cafe.OpeningHours = h.WeekdayDescriptions
		}
	}
	if p.UserRatingCount != nil {
		cafe.UserRatingCount = *p.UserRatingCount
	}
	if p.NationalPhoneNumber != "" {
		phone := p.NationalPhoneNumber
		cafe.PhoneNumber = &phone
	}
	if p.WebsiteURI != "" {
		site := p.WebsiteURI
		cafe.Website = &site
	}

	return cafe
}

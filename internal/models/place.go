package models

// RawPlace is a single entry of a Places API searchNearby response, limited to
// the fields requested through the field mask.
type RawPlace struct {
	ID                  string         `json:"id" validate:"required"`
	DisplayName         *LocalizedText `json:"displayName,omitempty"`
	FormattedAddress    string         `json:"formattedAddress,omitempty"`
	Location            *LatLng        `json:"location,omitempty"`
	Rating              *float64       `json:"rating,omitempty"`
	UserRatingCount     *int           `json:"userRatingCount,omitempty"`
	RegularOpeningHours *OpeningHours  `json:"regularOpeningHours,omitempty"`
	PriceLevel          string         `json:"priceLevel,omitempty"`
	NationalPhoneNumber string         `json:"nationalPhoneNumber,omitempty"`
	WebsiteURI          string         `json:"websiteUri,omitempty"`
}

// LocalizedText is the Places API representation of a translated string.
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// OpeningHours holds the subset of regularOpeningHours we persist.
type OpeningHours struct {
	OpenNow             *bool    `json:"openNow,omitempty"`
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

// Name returns the display text, or an empty string when the place has none.
func (p RawPlace) Name() string {
	if p.DisplayName == nil {
		return ""
	}
	return p.DisplayName.Text
}

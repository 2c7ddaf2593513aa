package domain

// SourceType identifies where a message text originated.
type SourceType string

// Known source types. Unknown values parse to SourceTypeGeneric.
const (
	SourceTypeGeneric  SourceType = "GENERIC"
	SourceTypeTwitter  SourceType = "TWITTER"
	SourceTypeMastodon SourceType = "MASTODON"
	SourceTypeReddit   SourceType = "REDDIT"
	SourceTypeNews     SourceType = "NEWS"
)

// ParseSourceType maps a string to a SourceType, falling back to GENERIC.
func ParseSourceType(s string) SourceType {
	switch SourceType(s) {
	case SourceTypeTwitter, SourceTypeMastodon, SourceTypeReddit, SourceTypeNews, SourceTypeGeneric:
		return SourceType(s)
	default:
		return SourceTypeGeneric
	}
}

// ProviderType identifies who handed the message to us.
type ProviderType string

// Known provider types. Unknown values parse to ProviderTypeNoone.
const (
	ProviderTypeNoone   ProviderType = "NOONE"
	ProviderTypeScraped ProviderType = "SCRAPED"
	ProviderTypeRemote  ProviderType = "REMOTE"
	ProviderTypeImport  ProviderType = "IMPORT"
)

// ParseProviderType maps a string to a ProviderType, falling back to NOONE.
func ParseProviderType(s string) ProviderType {
	switch ProviderType(s) {
	case ProviderTypeScraped, ProviderTypeRemote, ProviderTypeImport, ProviderTypeNoone:
		return ProviderType(s)
	default:
		return ProviderTypeNoone
	}
}

// LocationSource records how a message got its coordinates.
type LocationSource string

const (
	// LocationSourceUser means the author shared their position.
	LocationSourceUser LocationSource = "USER"
	// LocationSourceReport means a reporting peer asserted the position.
	LocationSourceReport LocationSource = "REPORT"
	// LocationSourcePlace means the position was resolved from place_name.
	LocationSourcePlace LocationSource = "PLACE"
	// LocationSourceAnnotation means the position was inferred from the text.
	LocationSourceAnnotation LocationSource = "ANNOTATION"
)

// ParseLocationSource maps a string to a LocationSource, falling back to USER.
func ParseLocationSource(s string) LocationSource {
	switch LocationSource(s) {
	case LocationSourceReport, LocationSourcePlace, LocationSourceAnnotation, LocationSourceUser:
		return LocationSource(s)
	default:
		return LocationSourceUser
	}
}

// PlaceContext distinguishes a message sent FROM a place from one ABOUT it.
type PlaceContext string

const (
	// PlaceContextFrom means the message was authored at the place.
	PlaceContextFrom PlaceContext = "FROM"
	// PlaceContextAbout means the message talks about the place.
	PlaceContextAbout PlaceContext = "ABOUT"
)

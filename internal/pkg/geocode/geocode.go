// Package geocode resolves postal addresses to GPS coordinates through the
// national address API (api-adresse.data.gouv.fr). The rest of the
// application only depends on the Geocoder interface.
package geocode

import "context"

// Query is the address to resolve. City is used to narrow the search; the
// street fields may carry whatever free text the record holds.
type Query struct {
	StreetNumber string
	StreetName   string
	City         string
}

// Result is a successfully resolved address.
type Result struct {
	Latitude   string
	Longitude  string
	PostalCode string
	District   string
}

// Geocoder resolves an address query to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, q Query) (*Result, error)
}

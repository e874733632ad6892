package dto

// MapPoint represents a geolocated marker on the association map
type MapPoint struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	District  string  `json:"district"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapPairing represents an active pairing drawn as a student/volunteer segment
type MapPairing struct {
	PairingID int64     `json:"pairingId"`
	Student   MapPoint  `json:"student"`
	Volunteer *MapPoint `json:"volunteer,omitempty"`
}

// MapPairingsResponse lists the geolocated active pairings
type MapPairingsResponse struct {
	Pairings []MapPairing `json:"pairings"`
}

// MapWaitingResponse lists geolocated students waiting for a volunteer and
// geolocated volunteers available to take one
type MapWaitingResponse struct {
	Students   []MapPoint `json:"students"`
	Volunteers []MapPoint `json:"volunteers"`
}

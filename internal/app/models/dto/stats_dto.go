package dto

// StatsResponse aggregates headline figures for the association dashboard
type StatsResponse struct {
	Students       StudentStats   `json:"students"`
	Volunteers     VolunteerStats `json:"volunteers"`
	ActivePairings int64          `json:"activePairings"`
}

// StudentStats breaks students down by status
type StudentStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	Geolocated int64            `json:"geolocated"`
	ByDistrict map[string]int64 `json:"byDistrict"`
}

// VolunteerStats breaks volunteers down by status
type VolunteerStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"byStatus"`
	Geolocated int64            `json:"geolocated"`
}

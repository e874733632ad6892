package models

// Subject is a school subject available for tutoring, a small reference
// table ordered by SortOrder then name.
type Subject struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
	Active    bool   `json:"active"`
}

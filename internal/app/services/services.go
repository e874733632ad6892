package services

// Services defined in this package:
// - AuthService: username/password login issuing JWT access tokens
// - StudentService: student records, geocoding and status workflow
// - VolunteerService: volunteer records, geocoding and paperwork tracking
// - SubjectService: the subject reference table
// - PairingService: pairing lifecycle and the status cascade
// - StatsService: dashboard and map aggregates

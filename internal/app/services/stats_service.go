package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/models/dto"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
)

// StatsService aggregates figures for the dashboard and the map views.
type StatsService interface {
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
	GetMapPairings(ctx context.Context) (*dto.MapPairingsResponse, error)
	GetMapWaiting(ctx context.Context) (*dto.MapWaitingResponse, error)
}

type statsServiceImpl struct {
	studentRepo   *repositories.StudentRepository
	volunteerRepo *repositories.VolunteerRepository
	pairingRepo   *repositories.PairingRepository
}

// NewStatsService creates a new stats service instance
func NewStatsService(studentRepo *repositories.StudentRepository, volunteerRepo *repositories.VolunteerRepository, pairingRepo *repositories.PairingRepository) StatsService {
	return &statsServiceImpl{
		studentRepo:   studentRepo,
		volunteerRepo: volunteerRepo,
		pairingRepo:   pairingRepo,
	}
}

// GetStats collects the headline dashboard counters.
func (s *statsServiceImpl) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	studentsByStatus, err := s.studentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	studentsByDistrict, err := s.studentRepo.CountByDistrict(ctx)
	if err != nil {
		return nil, err
	}
	studentsGeolocated, err := s.studentRepo.CountGeolocated(ctx)
	if err != nil {
		return nil, err
	}
	volunteersByStatus, err := s.volunteerRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	volunteersGeolocated, err := s.volunteerRepo.CountGeolocated(ctx)
	if err != nil {
		return nil, err
	}
	activePairings, err := s.pairingRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		Students: dto.StudentStats{
			Total:      sumCounts(studentsByStatus),
			ByStatus:   studentsByStatus,
			Geolocated: studentsGeolocated,
			ByDistrict: studentsByDistrict,
		},
		Volunteers: dto.VolunteerStats{
			Total:      sumCounts(volunteersByStatus),
			ByStatus:   volunteersByStatus,
			Geolocated: volunteersGeolocated,
		},
		ActivePairings: activePairings,
	}, nil
}

// GetMapPairings returns the active pairings whose student is geolocated,
// as drawable map segments.
func (s *statsServiceImpl) GetMapPairings(ctx context.Context) (*dto.MapPairingsResponse, error) {
	pairings, err := s.pairingRepo.GetAllActiveWithRelations(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.MapPairingsResponse{Pairings: make([]dto.MapPairing, 0, len(pairings))}
	for _, p := range pairings {
		if p.Student == nil || !p.Student.IsGeolocated() {
			continue
		}
		mp := dto.MapPairing{
			PairingID: p.ID,
			Student:   studentPoint(p.Student),
		}
		if p.Volunteer != nil && p.Volunteer.IsGeolocated() {
			vp := volunteerPoint(p.Volunteer)
			mp.Volunteer = &vp
		}
		resp.Pairings = append(resp.Pairings, mp)
	}
	return resp, nil
}

// GetMapWaiting returns geolocated students still waiting for a volunteer
// and geolocated volunteers available to take one.
func (s *statsServiceImpl) GetMapWaiting(ctx context.Context) (*dto.MapWaitingResponse, error) {
	students, err := s.studentRepo.ListWaitingGeolocated(ctx)
	if err != nil {
		return nil, err
	}
	volunteers, err := s.volunteerRepo.ListAvailableGeolocated(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.MapWaitingResponse{
		Students:   make([]dto.MapPoint, 0, len(students)),
		Volunteers: make([]dto.MapPoint, 0, len(volunteers)),
	}
	for _, st := range students {
		resp.Students = append(resp.Students, studentPoint(st))
	}
	for _, v := range volunteers {
		resp.Volunteers = append(resp.Volunteers, volunteerPoint(v))
	}
	return resp, nil
}

func sumCounts(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

func numericFloat(n pgtype.Numeric) float64 {
	v, err := n.Float64Value()
	if err != nil || !v.Valid {
		return 0
	}
	return v.Float64
}

func studentPoint(s *models.Student) dto.MapPoint {
	return dto.MapPoint{
		ID:        s.ID,
		Name:      s.FullName(),
		District:  s.District,
		Latitude:  numericFloat(s.Latitude),
		Longitude: numericFloat(s.Longitude),
	}
}

func volunteerPoint(v *models.Volunteer) dto.MapPoint {
	return dto.MapPoint{
		ID:        v.ID,
		Name:      v.FullName(),
		District:  v.District,
		Latitude:  numericFloat(v.Latitude),
		Longitude: numericFloat(v.Longitude),
	}
}

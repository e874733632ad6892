package importer

import (
	"context"
	"strings"
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
)

// In-memory store fakes. They mirror the matching semantics of the real
// repositories closely enough for pipeline tests: case-insensitive exact
// match and bidirectional substring containment, lowest ID first.

type fakeStudentStore struct {
	nextID   int64
	students []*models.Student
	subjects map[int64][]int64
}

func newFakeStudentStore(students ...*models.Student) *fakeStudentStore {
	s := &fakeStudentStore{nextID: 1, subjects: make(map[int64][]int64)}
	for _, st := range students {
		st.ID = s.nextID
		s.nextID++
		s.students = append(s.students, st)
	}
	return s
}

func (s *fakeStudentStore) FindExact(_ context.Context, lastName, firstName string) (*models.Student, error) {
	for _, st := range s.students {
		if strings.EqualFold(st.LastName, lastName) && strings.EqualFold(st.FirstName, firstName) {
			return st, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (s *fakeStudentStore) FindContaining(_ context.Context, lastName, firstName string) (*models.Student, error) {
	for _, st := range s.students {
		if containsFold(st.LastName, lastName) && containsFold(st.FirstName, firstName) {
			return st, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (s *fakeStudentStore) Create(_ context.Context, student *models.Student) (int64, error) {
	student.ID = s.nextID
	s.nextID++
	s.students = append(s.students, student)
	return student.ID, nil
}

func (s *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	for i, st := range s.students {
		if st.ID == student.ID {
			s.students[i] = student
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

func (s *fakeStudentStore) UpdateStatus(_ context.Context, id int64, status models.StudentStatus) error {
	for _, st := range s.students {
		if st.ID == id {
			st.Status = status
			return nil
		}
	}
	return apperrors.ErrStudentNotFound
}

func (s *fakeStudentStore) ReplaceSubjects(_ context.Context, studentID int64, subjectIDs []int64) error {
	s.subjects[studentID] = subjectIDs
	return nil
}

func (s *fakeStudentStore) byID(id int64) *models.Student {
	for _, st := range s.students {
		if st.ID == id {
			return st
		}
	}
	return nil
}

type fakeVolunteerStore struct {
	nextID     int64
	volunteers []*models.Volunteer
	subjects   map[int64][]int64
}

func newFakeVolunteerStore(volunteers ...*models.Volunteer) *fakeVolunteerStore {
	s := &fakeVolunteerStore{nextID: 1, subjects: make(map[int64][]int64)}
	for _, v := range volunteers {
		v.ID = s.nextID
		s.nextID++
		s.volunteers = append(s.volunteers, v)
	}
	return s
}

func (s *fakeVolunteerStore) FindExact(_ context.Context, lastName, firstName string) (*models.Volunteer, error) {
	for _, v := range s.volunteers {
		if strings.EqualFold(v.LastName, lastName) && strings.EqualFold(v.FirstName, firstName) {
			return v, nil
		}
	}
	return nil, apperrors.ErrVolunteerNotFound
}

func (s *fakeVolunteerStore) FindContaining(_ context.Context, lastName, firstName string) (*models.Volunteer, error) {
	for _, v := range s.volunteers {
		if containsFold(v.LastName, lastName) && containsFold(v.FirstName, firstName) {
			return v, nil
		}
	}
	return nil, apperrors.ErrVolunteerNotFound
}

func (s *fakeVolunteerStore) Create(_ context.Context, volunteer *models.Volunteer) (int64, error) {
	volunteer.ID = s.nextID
	s.nextID++
	s.volunteers = append(s.volunteers, volunteer)
	return volunteer.ID, nil
}

func (s *fakeVolunteerStore) Update(_ context.Context, volunteer *models.Volunteer) error {
	for i, v := range s.volunteers {
		if v.ID == volunteer.ID {
			s.volunteers[i] = volunteer
			return nil
		}
	}
	return apperrors.ErrVolunteerNotFound
}

func (s *fakeVolunteerStore) UpdateStatus(_ context.Context, id int64, status models.VolunteerStatus) error {
	for _, v := range s.volunteers {
		if v.ID == id {
			v.Status = status
			return nil
		}
	}
	return apperrors.ErrVolunteerNotFound
}

func (s *fakeVolunteerStore) ReplaceSubjects(_ context.Context, volunteerID int64, subjectIDs []int64) error {
	s.subjects[volunteerID] = subjectIDs
	return nil
}

type fakeSubjectStore struct {
	subjects []*models.Subject
}

func (s *fakeSubjectStore) GetAll(_ context.Context) ([]*models.Subject, error) {
	return s.subjects, nil
}

type fakePairingStore struct {
	nextID   int64
	pairings []*models.Pairing
}

func newFakePairingStore(pairings ...*models.Pairing) *fakePairingStore {
	s := &fakePairingStore{nextID: 1}
	for _, p := range pairings {
		p.ID = s.nextID
		s.nextID++
		s.pairings = append(s.pairings, p)
	}
	return s
}

func (s *fakePairingStore) GetByPair(_ context.Context, studentID, volunteerID int64) (*models.Pairing, error) {
	var found *models.Pairing
	for _, p := range s.pairings {
		if p.StudentID == studentID && p.VolunteerID != nil && *p.VolunteerID == volunteerID {
			if found == nil || p.ID > found.ID {
				found = p
			}
		}
	}
	if found == nil {
		return nil, apperrors.ErrPairingNotFound
	}
	return found, nil
}

func (s *fakePairingStore) Create(_ context.Context, pairing *models.Pairing) (int64, error) {
	for _, p := range s.pairings {
		if p.StudentID == pairing.StudentID && p.Active {
			return 0, apperrors.ErrPairingAlreadyActive
		}
	}
	pairing.ID = s.nextID
	s.nextID++
	s.pairings = append(s.pairings, pairing)
	return pairing.ID, nil
}

func (s *fakePairingStore) Reactivate(_ context.Context, id int64, startDate time.Time) error {
	for _, p := range s.pairings {
		if p.ID == id {
			p.Active = true
			p.StartDate = startDate
			p.EndDate = nil
			return nil
		}
	}
	return apperrors.ErrPairingNotFound
}

func containsFold(haystack, needle string) bool {
	h, n := strings.ToLower(haystack), strings.ToLower(needle)
	return strings.Contains(h, n) || strings.Contains(n, h)
}

func testStores(students *fakeStudentStore, volunteers *fakeVolunteerStore, pairings *fakePairingStore) Stores {
	if students == nil {
		students = newFakeStudentStore()
	}
	if volunteers == nil {
		volunteers = newFakeVolunteerStore()
	}
	if pairings == nil {
		pairings = newFakePairingStore()
	}
	return Stores{
		Students:   students,
		Volunteers: volunteers,
		Subjects:   &fakeSubjectStore{},
		Pairings:   pairings,
	}
}

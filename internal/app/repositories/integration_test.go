//go:build testutil
// +build testutil

package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
	"github.com/esa-marseille/esa-manager/internal/app/repositories"
	"github.com/esa-marseille/esa-manager/internal/pkg/apperrors"
	"github.com/esa-marseille/esa-manager/internal/testutil/testdb"
)

func newStudent(last, first string) *models.Student {
	return &models.Student{
		LastName:    last,
		FirstName:   first,
		Status:      models.StudentToBeMatched,
		EntryStatus: models.EntryDraft,
	}
}

func newVolunteer(last, first string) *models.Volunteer {
	return &models.Volunteer{
		LastName:  last,
		FirstName: first,
		Status:    models.VolunteerAvailable,
	}
}

func TestPairingOneActivePerStudent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repos := repositories.NewRepositories(h.Pool)

	studentID, err := repos.StudentRepository.Create(ctx, newStudent("Dupont", "Léa"))
	if err != nil {
		t.Fatal(err)
	}
	firstVolID, err := repos.VolunteerRepository.Create(ctx, newVolunteer("Martin", "Claire"))
	if err != nil {
		t.Fatal(err)
	}
	secondVolID, err := repos.VolunteerRepository.Create(ctx, newVolunteer("Bernard", "Paul"))
	if err != nil {
		t.Fatal(err)
	}

	start := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)
	if _, err := repos.PairingRepository.Create(ctx, &models.Pairing{
		StudentID:   studentID,
		VolunteerID: &firstVolID,
		StartDate:   start,
		Active:      true,
	}); err != nil {
		t.Fatalf("first active pairing: %v", err)
	}

	// The partial unique index rejects a second active pairing for the
	// same student, whoever the volunteer is.
	_, err = repos.PairingRepository.Create(ctx, &models.Pairing{
		StudentID:   studentID,
		VolunteerID: &secondVolID,
		StartDate:   start,
		Active:      true,
	})
	if !errors.Is(err, apperrors.ErrPairingAlreadyActive) {
		t.Fatalf("second active pairing: got %v, want ErrPairingAlreadyActive", err)
	}

	// An ended pairing does not count against the index.
	end := start.AddDate(0, 1, 0)
	if _, err := repos.PairingRepository.Create(ctx, &models.Pairing{
		StudentID:   studentID,
		VolunteerID: &secondVolID,
		StartDate:   start,
		EndDate:     &end,
		Active:      false,
	}); err != nil {
		t.Fatalf("inactive pairing: %v", err)
	}
}

func TestFindContainingTreatsWildcardsLiterally(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repos := repositories.NewRepositories(h.Pool)
	if _, err := repos.StudentRepository.Create(ctx, newStudent("Martin", "Paul")); err != nil {
		t.Fatal(err)
	}

	// A probe made of LIKE metacharacters must not match arbitrary rows.
	if _, err := repos.StudentRepository.FindContaining(ctx, "%", "%"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("FindContaining(%%): got %v, want ErrStudentNotFound", err)
	}

	found, err := repos.StudentRepository.FindContaining(ctx, "Mart", "Paul")
	if err != nil {
		t.Fatalf("FindContaining(Mart): %v", err)
	}
	if found.LastName != "Martin" {
		t.Errorf("found %s, want Martin", found.LastName)
	}
}

func TestGetAllLoadsSubjects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	repos := repositories.NewRepositories(h.Pool)

	french, err := repos.SubjectRepository.GetOrCreate(ctx, "Français", 1)
	if err != nil {
		t.Fatal(err)
	}
	english, err := repos.SubjectRepository.GetOrCreate(ctx, "Anglais", 3)
	if err != nil {
		t.Fatal(err)
	}

	studentID, err := repos.StudentRepository.Create(ctx, newStudent("Dupont", "Léa"))
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.StudentRepository.ReplaceSubjects(ctx, studentID, []int64{english.ID, french.ID}); err != nil {
		t.Fatal(err)
	}
	// A second student without subjects must come back with an empty list.
	if _, err := repos.StudentRepository.Create(ctx, newStudent("Martin", "Hugo")); err != nil {
		t.Fatal(err)
	}

	students, err := repos.StudentRepository.GetAll(ctx, repositories.StudentFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}
	withSubjects := students[0]
	if withSubjects.LastName != "Dupont" {
		t.Fatalf("unexpected ordering, first student is %s", withSubjects.LastName)
	}
	if len(withSubjects.Subjects) != 2 {
		t.Fatalf("got %d subjects, want 2", len(withSubjects.Subjects))
	}
	// Sorted by sort_order, not by link insertion order.
	if withSubjects.Subjects[0].Name != "Français" || withSubjects.Subjects[1].Name != "Anglais" {
		t.Errorf("subjects = [%s, %s], want [Français, Anglais]",
			withSubjects.Subjects[0].Name, withSubjects.Subjects[1].Name)
	}
	if len(students[1].Subjects) != 0 {
		t.Errorf("student without links got %d subjects", len(students[1].Subjects))
	}

	volID, err := repos.VolunteerRepository.Create(ctx, newVolunteer("Martin", "Claire"))
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.VolunteerRepository.ReplaceSubjects(ctx, volID, []int64{french.ID}); err != nil {
		t.Fatal(err)
	}
	volunteers, err := repos.VolunteerRepository.GetAll(ctx, repositories.VolunteerFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(volunteers) != 1 || len(volunteers[0].Subjects) != 1 {
		t.Fatalf("volunteer subjects not loaded: %+v", volunteers)
	}
	if volunteers[0].Subjects[0].Name != "Français" {
		t.Errorf("volunteer subject = %s, want Français", volunteers[0].Subjects[0].Name)
	}
}

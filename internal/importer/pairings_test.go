package importer

import (
	"context"
	"testing"
	"time"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

func activationRequest(mode Mode) ActivationRequest {
	return ActivationRequest{
		StudentLastName:    "Dupont",
		StudentFirstName:   "Léa",
		VolunteerLastName:  "Martin",
		VolunteerFirstName: "Paul",
		StartDate:          time.Date(2025, time.September, 15, 0, 0, 0, 0, time.UTC),
		Mode:               mode,
	}
}

func TestActivateCreatesPairingAndCascadesStatuses(t *testing.T) {
	students := newFakeStudentStore(&models.Student{
		LastName: "Dupont", FirstName: "Léa", Status: models.StudentToBeMatched,
	})
	volunteers := newFakeVolunteerStore(&models.Volunteer{
		LastName: "Martin", FirstName: "Paul", Status: models.VolunteerAvailable,
	})
	pairings := newFakePairingStore()
	stores := testStores(students, volunteers, pairings)

	outcome, err := Activate(context.Background(), stores, activationRequest(CreateOnly))
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != PairingCreated {
		t.Fatalf("outcome = %d, want PairingCreated", outcome)
	}

	if len(pairings.pairings) != 1 {
		t.Fatalf("store holds %d pairings, want 1", len(pairings.pairings))
	}
	p := pairings.pairings[0]
	if !p.Active {
		t.Error("pairing is not active")
	}
	if p.StudentID != 1 || p.VolunteerID == nil || *p.VolunteerID != 1 {
		t.Errorf("pairing links (%d, %v), want (1, 1)", p.StudentID, p.VolunteerID)
	}
	if got := students.byID(1).Status; got != models.StudentMatched {
		t.Errorf("student status = %q, want %q", got, models.StudentMatched)
	}
	if got := volunteers.volunteers[0].Status; got != models.VolunteerMentor {
		t.Errorf("volunteer status = %q, want %q", got, models.VolunteerMentor)
	}
}

func TestActivateResolvesBySubstringFallback(t *testing.T) {
	students := newFakeStudentStore(&models.Student{
		LastName: "Dupont-Durand", FirstName: "Léa", Status: models.StudentToBeMatched,
	})
	volunteers := newFakeVolunteerStore(&models.Volunteer{
		LastName: "Martin", FirstName: "Jean-Paul", Status: models.VolunteerAvailable,
	})
	stores := testStores(students, volunteers, newFakePairingStore())

	req := activationRequest(CreateOnly)
	req.StudentLastName = "Dupont*"
	req.VolunteerFirstName = "Paul"

	outcome, err := Activate(context.Background(), stores, req)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != PairingCreated {
		t.Fatalf("outcome = %d, want PairingCreated via fuzzy match", outcome)
	}
}

func TestActivateUnknownStudentIsOutcomeNotError(t *testing.T) {
	volunteers := newFakeVolunteerStore(&models.Volunteer{
		LastName: "Martin", FirstName: "Paul",
	})
	stores := testStores(newFakeStudentStore(), volunteers, newFakePairingStore())

	outcome, err := Activate(context.Background(), stores, activationRequest(CreateOnly))
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != PairingStudentNotFound {
		t.Fatalf("outcome = %d, want PairingStudentNotFound", outcome)
	}
}

func TestActivateAlreadyActiveIsIdempotent(t *testing.T) {
	students := newFakeStudentStore(&models.Student{
		LastName: "Dupont", FirstName: "Léa", Status: models.StudentMatched,
	})
	volunteers := newFakeVolunteerStore(&models.Volunteer{
		LastName: "Martin", FirstName: "Paul", Status: models.VolunteerMentor,
	})
	volunteerID := int64(1)
	pairings := newFakePairingStore(&models.Pairing{
		StudentID: 1, VolunteerID: &volunteerID, Active: true,
	})
	stores := testStores(students, volunteers, pairings)

	outcome, err := Activate(context.Background(), stores, activationRequest(CreateOrUpdate))
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != PairingAlreadyActive {
		t.Fatalf("outcome = %d, want PairingAlreadyActive", outcome)
	}
	if len(pairings.pairings) != 1 {
		t.Errorf("store holds %d pairings, want 1 (no duplicate)", len(pairings.pairings))
	}
}

func TestActivateReactivatesEndedPairing(t *testing.T) {
	students := newFakeStudentStore(&models.Student{
		LastName: "Dupont", FirstName: "Léa", Status: models.StudentToBeMatched,
	})
	volunteers := newFakeVolunteerStore(&models.Volunteer{
		LastName: "Martin", FirstName: "Paul", Status: models.VolunteerAvailable,
	})
	volunteerID := int64(1)
	ended := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	pairings := newFakePairingStore(&models.Pairing{
		StudentID: 1, VolunteerID: &volunteerID, Active: false, EndDate: &ended,
	})
	stores := testStores(students, volunteers, pairings)

	req := activationRequest(CreateOrUpdate)
	outcome, err := Activate(context.Background(), stores, req)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != PairingReactivated {
		t.Fatalf("outcome = %d, want PairingReactivated", outcome)
	}

	p := pairings.pairings[0]
	if !p.Active {
		t.Error("pairing was not reactivated")
	}
	if p.EndDate != nil {
		t.Error("end date was not cleared")
	}
	if !p.StartDate.Equal(req.StartDate) {
		t.Errorf("StartDate = %v, want %v", p.StartDate, req.StartDate)
	}
}

func TestActivateEndedPairingCreateOnlyDoesNotReactivate(t *testing.T) {
	students := newFakeStudentStore(&models.Student{
		LastName: "Dupont", FirstName: "Léa",
	})
	volunteers := newFakeVolunteerStore(&models.Volunteer{
		LastName: "Martin", FirstName: "Paul",
	})
	volunteerID := int64(1)
	pairings := newFakePairingStore(&models.Pairing{
		StudentID: 1, VolunteerID: &volunteerID, Active: false,
	})
	stores := testStores(students, volunteers, pairings)

	outcome, err := Activate(context.Background(), stores, activationRequest(CreateOnly))
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if outcome != PairingAlreadyActive {
		t.Fatalf("outcome = %d, want PairingAlreadyActive", outcome)
	}
	if pairings.pairings[0].Active {
		t.Error("ended pairing was reactivated in create-only mode")
	}
}

func TestActivateDoesNotDowngradeStatuses(t *testing.T) {
	// An already matched student paired with a second volunteer keeps the
	// matched status; nothing resets it through the cascade.
	students := newFakeStudentStore(&models.Student{
		LastName: "Dupont", FirstName: "Léa", Status: models.StudentMatched,
	})
	volunteers := newFakeVolunteerStore(&models.Volunteer{
		LastName: "Martin", FirstName: "Paul", Status: models.VolunteerMentor,
	})
	stores := testStores(students, volunteers, newFakePairingStore())

	if _, err := Activate(context.Background(), stores, activationRequest(CreateOnly)); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if got := students.byID(1).Status; got != models.StudentMatched {
		t.Errorf("student status = %q, want %q", got, models.StudentMatched)
	}
	if got := volunteers.volunteers[0].Status; got != models.VolunteerMentor {
		t.Errorf("volunteer status = %q, want %q", got, models.VolunteerMentor)
	}
}

package importer

import (
	"context"
	"reflect"
	"testing"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

func studentRow(line int, cells map[FieldKey]string) Row {
	return Row{Line: line, values: cells}
}

func TestImportStudentRowCreates(t *testing.T) {
	students := newFakeStudentStore()
	stores := testStores(students, nil, nil)
	cache := testSubjectCache()

	row := studentRow(2, map[FieldKey]string{
		FieldLastName:  "Dupont",
		FieldFirstName: "Léa",
		FieldAddress:   "12 rue de la République",
		FieldDistrict:  "13001",
		FieldStatus:    "à accompagner",
		FieldSubjects:  "Français, Anglais",
		FieldLatitude:  "43.296482",
		FieldLongitude: "5.36978",
	})

	outcome, err := importStudentRow(context.Background(), stores, cache, row, CreateOnly, "13")
	if err != nil {
		t.Fatalf("importStudentRow: %v", err)
	}
	if outcome != outcomeCreated {
		t.Fatalf("outcome = %d, want outcomeCreated", outcome)
	}

	created := students.byID(1)
	if created == nil {
		t.Fatal("student was not stored")
	}
	if created.Status != models.StudentToBeMatched {
		t.Errorf("Status = %q, want %q", created.Status, models.StudentToBeMatched)
	}
	if created.EntryStatus != models.EntryComplete {
		t.Errorf("EntryStatus = %q, want %q", created.EntryStatus, models.EntryComplete)
	}
	if created.District != "1er" {
		t.Errorf("District = %q, want %q", created.District, "1er")
	}
	if created.StreetNumber != "12" || created.StreetName != "rue de la République" {
		t.Errorf("address = (%q, %q), want split into number and street", created.StreetNumber, created.StreetName)
	}
	if !created.IsGeolocated() {
		t.Error("coordinates were not parsed")
	}
	if got := students.subjects[1]; !reflect.DeepEqual(got, []int64{1, 3}) {
		t.Errorf("subjects = %v, want [1 3]", got)
	}
}

func TestImportStudentRowCreateOnlySkipsExisting(t *testing.T) {
	students := newFakeStudentStore(&models.Student{
		LastName: "Dupont", FirstName: "Léa", Status: models.StudentMatched,
	})
	stores := testStores(students, nil, nil)
	cache := testSubjectCache()

	row := studentRow(2, map[FieldKey]string{
		FieldLastName:  "DUPONT",
		FieldFirstName: "léa",
		FieldStatus:    "à accompagner",
	})

	outcome, err := importStudentRow(context.Background(), stores, cache, row, CreateOnly, "13")
	if err != nil {
		t.Fatalf("importStudentRow: %v", err)
	}
	if outcome != outcomeSkippedExists {
		t.Fatalf("outcome = %d, want outcomeSkippedExists", outcome)
	}
	// The existing record must be untouched.
	if got := students.byID(1).Status; got != models.StudentMatched {
		t.Errorf("Status = %q, want unchanged %q", got, models.StudentMatched)
	}
}

func TestImportStudentRowUpdateOverwrites(t *testing.T) {
	students := newFakeStudentStore(&models.Student{
		LastName:   "Dupont",
		FirstName:  "Léa",
		GradeLevel: "CM1",
		School:     "École Saint-Charles",
		Notes:      "ancienne note",
	})
	stores := testStores(students, nil, nil)
	cache := testSubjectCache()

	// School and notes cells are blank: the overwrite must erase them.
	row := studentRow(2, map[FieldKey]string{
		FieldLastName:   "Dupont",
		FieldFirstName:  "Léa",
		FieldGradeLevel: "CM2",
	})

	outcome, err := importStudentRow(context.Background(), stores, cache, row, CreateOrUpdate, "13")
	if err != nil {
		t.Fatalf("importStudentRow: %v", err)
	}
	if outcome != outcomeUpdated {
		t.Fatalf("outcome = %d, want outcomeUpdated", outcome)
	}

	updated := students.byID(1)
	if updated.GradeLevel != "CM2" {
		t.Errorf("GradeLevel = %q, want %q", updated.GradeLevel, "CM2")
	}
	if updated.School != "" {
		t.Errorf("School = %q, want erased", updated.School)
	}
	if updated.Notes != "" {
		t.Errorf("Notes = %q, want erased", updated.Notes)
	}
	if len(students.students) != 1 {
		t.Errorf("store holds %d students, want 1 (no duplicate)", len(students.students))
	}
}

func TestImportVolunteerRowCreates(t *testing.T) {
	volunteers := newFakeVolunteerStore()
	stores := testStores(nil, volunteers, nil)
	cache := testSubjectCache()

	row := studentRow(2, map[FieldKey]string{
		FieldLastName:     "Martin",
		FieldFirstName:    "Paul",
		FieldEmail:        "paul.martin@example.org",
		FieldStatus:       "disponible",
		FieldCoordinator:  "oui",
		FieldPrimaryLevel: "Oui",
		FieldHighLevel:    "non",
		FieldSubjects:     "Mathématiques",
	})

	outcome, err := importVolunteerRow(context.Background(), stores, cache, row, CreateOnly, "13")
	if err != nil {
		t.Fatalf("importVolunteerRow: %v", err)
	}
	if outcome != outcomeCreated {
		t.Fatalf("outcome = %d, want outcomeCreated", outcome)
	}

	v := volunteers.volunteers[0]
	if v.Status != models.VolunteerAvailable {
		t.Errorf("Status = %q, want %q", v.Status, models.VolunteerAvailable)
	}
	if !v.IsCoordinator || !v.PrimaryLevel || v.HighLevel {
		t.Errorf("booleans = (%v, %v, %v), want (true, true, false)", v.IsCoordinator, v.PrimaryLevel, v.HighLevel)
	}
	if got := volunteers.subjects[1]; !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("subjects = %v, want [2]", got)
	}
}

func TestImportStudentRowsEndToEnd(t *testing.T) {
	// Three rows about the same person: the first creates, the second is
	// skipped in create-only mode, the third overwrites in update mode and
	// the final state is the third row's content.
	students := newFakeStudentStore()
	stores := testStores(students, nil, nil)
	cache := testSubjectCache()

	rows := []struct {
		mode  Mode
		cells map[FieldKey]string
		want  rowOutcome
	}{
		{CreateOnly, map[FieldKey]string{
			FieldLastName: "Dupont", FieldFirstName: "Léa", FieldGradeLevel: "CM1", FieldNotes: "première saisie",
		}, outcomeCreated},
		{CreateOnly, map[FieldKey]string{
			FieldLastName: "Dupont", FieldFirstName: "Léa", FieldGradeLevel: "CM2",
		}, outcomeSkippedExists},
		{CreateOrUpdate, map[FieldKey]string{
			FieldLastName: "Dupont", FieldFirstName: "Léa", FieldGradeLevel: "6e",
		}, outcomeUpdated},
	}

	var created, updated, skipped int
	for i, r := range rows {
		outcome, err := importStudentRow(context.Background(), stores, cache, studentRow(i+2, r.cells), r.mode, "13")
		if err != nil {
			t.Fatalf("row %d: %v", i+2, err)
		}
		if outcome != r.want {
			t.Fatalf("row %d outcome = %d, want %d", i+2, outcome, r.want)
		}
		switch outcome {
		case outcomeCreated:
			created++
		case outcomeUpdated:
			updated++
		case outcomeSkippedExists:
			skipped++
		}
	}

	if created != 1 || skipped != 1 || updated != 1 {
		t.Errorf("counts = (created %d, skipped %d, updated %d), want (1, 1, 1)", created, skipped, updated)
	}
	if len(students.students) != 1 {
		t.Fatalf("store holds %d students, want 1", len(students.students))
	}
	final := students.byID(1)
	if final.GradeLevel != "6e" {
		t.Errorf("GradeLevel = %q, want final row value %q", final.GradeLevel, "6e")
	}
	if final.Notes != "" {
		t.Errorf("Notes = %q, want erased by the final overwrite", final.Notes)
	}
}

func TestVolunteerStatusDefaultsToCandidate(t *testing.T) {
	if got := volunteerStatusFromCSV(""); got != models.VolunteerCandidate {
		t.Errorf("empty status = %q, want %q", got, models.VolunteerCandidate)
	}
	if got := volunteerStatusFromCSV("n'importe quoi"); got != models.VolunteerCandidate {
		t.Errorf("unknown status = %q, want %q", got, models.VolunteerCandidate)
	}
}

func TestStudentStatusTokens(t *testing.T) {
	tests := []struct {
		raw  string
		want models.StudentStatus
	}{
		{"Accompagné", models.StudentMatched},
		{"à accompagner", models.StudentToBeMatched},
		{"En attente", models.StudentPending},
		{"archivé", models.StudentArchived},
		{"", models.StudentToBeMatched},
		{"???", models.StudentToBeMatched},
	}
	for _, tt := range tests {
		if got := studentStatusFromCSV(tt.raw); got != tt.want {
			t.Errorf("studentStatusFromCSV(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

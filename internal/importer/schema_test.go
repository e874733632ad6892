package importer

import (
	"strings"
	"testing"
)

func TestReadRowsStudentHeaders(t *testing.T) {
	input := "Nom famille enfant,Prénom enfant,Classe,Adresse enfant,Arr.,Statut,latitude,longitude\n" +
		"Dupont,Léa,CM2,12 rue de la République,13001,à accompagner,43.29,5.37\n"

	rows, err := ReadRows(strings.NewReader(input), StudentProfile)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	row := rows[0]
	if row.Line != 2 {
		t.Errorf("Line = %d, want 2", row.Line)
	}
	tests := []struct {
		key  FieldKey
		want string
	}{
		{FieldLastName, "Dupont"},
		{FieldFirstName, "Léa"},
		{FieldGradeLevel, "CM2"},
		{FieldAddress, "12 rue de la République"},
		{FieldDistrict, "13001"},
		{FieldStatus, "à accompagner"},
		{FieldLatitude, "43.29"},
		{FieldLongitude, "5.37"},
	}
	for _, tt := range tests {
		if got := row.Get(tt.key); got != tt.want {
			t.Errorf("Get(%s) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestReadRowsPairingHeaders(t *testing.T) {
	// Pairing exports use the long "famille" spellings for the two last
	// names.
	input := "Nom famille enfant,Prénom enfant,Nom famille bénévole,Prénom bénévole,Date début\n" +
		"Dupont,Léa,Martin,Claire,15/09/2025\n"

	rows, err := ReadRows(strings.NewReader(input), PairingProfile)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	row := rows[0]
	tests := []struct {
		key  FieldKey
		want string
	}{
		{FieldLastName, "Dupont"},
		{FieldFirstName, "Léa"},
		{FieldVolunteerLastName, "Martin"},
		{FieldVolunteerFirstName, "Claire"},
		{FieldStartDate, "15/09/2025"},
	}
	for _, tt := range tests {
		if got := row.Get(tt.key); got != tt.want {
			t.Errorf("Get(%s) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestReadRowsHeaderDrift(t *testing.T) {
	// Older exports spell the name columns without the "enfant" suffix and
	// use "Arrondissement" in full.
	input := "Nom,Prénom,Arrondissement\nMartin,Paul,13005\n"

	rows, err := ReadRows(strings.NewReader(input), StudentProfile)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := rows[0].Get(FieldLastName); got != "Martin" {
		t.Errorf("Get(last_name) = %q, want %q", got, "Martin")
	}
	if got := rows[0].Get(FieldDistrict); got != "13005" {
		t.Errorf("Get(district) = %q, want %q", got, "13005")
	}
}

func TestReadRowsHeaderCaseInsensitive(t *testing.T) {
	input := "NOM,PRÉNOM\nBernard,Zoé\n"

	rows, err := ReadRows(strings.NewReader(input), VolunteerProfile)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if got := rows[0].Get(FieldFirstName); got != "Zoé" {
		t.Errorf("Get(first_name) = %q, want %q", got, "Zoé")
	}
}

func TestReadRowsShortRecord(t *testing.T) {
	// Records shorter than the header must not panic; missing cells read
	// as empty.
	input := "Nom,Prénom,Email\nDurand\n"

	rows, err := ReadRows(strings.NewReader(input), VolunteerProfile)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if got := rows[0].Get(FieldLastName); got != "Durand" {
		t.Errorf("Get(last_name) = %q, want %q", got, "Durand")
	}
	if got := rows[0].Get(FieldEmail); got != "" {
		t.Errorf("Get(email) = %q, want empty", got)
	}
}

func TestReadRowsMalformedStream(t *testing.T) {
	input := "Nom,Prénom\n\"unterminated\n"

	if _, err := ReadRows(strings.NewReader(input), VolunteerProfile); err == nil {
		t.Fatal("expected error for malformed CSV stream")
	}
}

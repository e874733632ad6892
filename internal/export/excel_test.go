package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

func TestStudentsWorkbook(t *testing.T) {
	students := []*models.Student{
		{
			LastName:     "Dupont",
			FirstName:    "Léa",
			GradeLevel:   "CM2",
			StreetNumber: "12",
			StreetName:   "rue de la République",
			PostalCode:   "13001",
			City:         "Marseille",
			District:     "1er",
			Status:       models.StudentToBeMatched,
			Subjects: []*models.Subject{
				{Name: "Français"},
				{Name: "Anglais"},
			},
		},
	}

	wb, err := StudentsWorkbook(students)
	if err != nil {
		t.Fatalf("StudentsWorkbook: %v", err)
	}

	var buf bytes.Buffer
	if err := wb.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got := f.GetSheetName(0); got != "Élèves" {
		t.Errorf("sheet name = %q, want %q", got, "Élèves")
	}

	tests := []struct {
		cell string
		want string
	}{
		{"A1", "Nom"},
		{"A2", "Dupont"},
		{"B2", "Léa"},
		{"F2", "12 rue de la République"},
		{"I2", "1er"},
		{"K2", "Français, Anglais"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue("Élèves", tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("cell %s = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestVolunteersWorkbookBoolCells(t *testing.T) {
	volunteers := []*models.Volunteer{
		{
			LastName:     "Martin",
			FirstName:    "Paul",
			Status:       models.VolunteerMentor,
			PrimaryLevel: true,
			HighLevel:    false,
		},
	}

	wb, err := VolunteersWorkbook(volunteers)
	if err != nil {
		t.Fatalf("VolunteersWorkbook: %v", err)
	}

	var buf bytes.Buffer
	if err := wb.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer func() { _ = f.Close() }()

	if got, _ := f.GetCellValue("Bénévoles", "K2"); got != "oui" {
		t.Errorf("Primaire cell = %q, want %q", got, "oui")
	}
	if got, _ := f.GetCellValue("Bénévoles", "M2"); got != "non" {
		t.Errorf("Lycée cell = %q, want %q", got, "non")
	}
}

func TestNewWorkbookShortRow(t *testing.T) {
	// Rows narrower than the header must not break the width pass.
	wb, err := NewWorkbook([]SheetSpec{{
		Title:  "Feuille",
		Header: []string{"Nom", "Prénom", "Ville"},
		Rows:   [][]string{{"Dupont"}},
	}})
	if err != nil {
		t.Fatalf("NewWorkbook: %v", err)
	}

	var buf bytes.Buffer
	if err := wb.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	if got, _ := f.GetCellValue("Feuille", "A2"); got != "Dupont" {
		t.Errorf("A2 = %q, want %q", got, "Dupont")
	}
	if got, _ := f.GetCellValue("Feuille", "C2"); got != "" {
		t.Errorf("C2 = %q, want empty", got)
	}
}

func TestColName(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
	}
	for _, tt := range tests {
		if got := colName(tt.n); got != tt.want {
			t.Errorf("colName(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

// Package export builds the xlsx workbooks offered for download by the
// administrative interface.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/esa-marseille/esa-manager/internal/app/models"
)

// SheetSpec is one worksheet: a title, a header row and string rows.
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Workbook wraps an excelize file built from sheet specs.
type Workbook struct {
	File *excelize.File
}

// NewWorkbook renders the sheets with bold filtered headers and
// heuristic column widths.
func NewWorkbook(sheets []SheetSpec) (*Workbook, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}

		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		// Width from the header and the first rows, clamped to stay readable.
		for c := 1; c <= len(s.Header); c++ {
			width := len(s.Header[c-1])
			for r := 0; r < len(s.Rows) && r < 50; r++ {
				if c-1 >= len(s.Rows[r]) {
					continue
				}
				if l := len(s.Rows[r][c-1]); l > width {
					width = l
				}
			}
			w := float64(width) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}
	return &Workbook{File: f}, nil
}

// WriteTo streams the workbook, typically into an HTTP response.
func (w *Workbook) WriteTo(dst io.Writer) error {
	return w.File.Write(dst)
}

// StudentsWorkbook renders the student roster as a single-sheet workbook.
func StudentsWorkbook(students []*models.Student) (*Workbook, error) {
	sheet := SheetSpec{
		Title: "Élèves",
		Header: []string{
			"Nom", "Prénom", "Classe", "Établissement", "Téléphone parent",
			"Adresse", "Code postal", "Ville", "Arr.", "Statut", "Matières",
		},
	}
	for _, s := range students {
		sheet.Rows = append(sheet.Rows, []string{
			s.LastName, s.FirstName, s.GradeLevel, s.School, s.ParentPhone,
			strings.TrimSpace(s.StreetNumber + " " + s.StreetName),
			s.PostalCode, s.City, s.District, string(s.Status), subjectNames(s.Subjects),
		})
	}
	return NewWorkbook([]SheetSpec{sheet})
}

// VolunteersWorkbook renders the volunteer roster as a single-sheet workbook.
func VolunteersWorkbook(volunteers []*models.Volunteer) (*Workbook, error) {
	sheet := SheetSpec{
		Title: "Bénévoles",
		Header: []string{
			"Nom", "Prénom", "Email", "Téléphone", "Profession",
			"Adresse", "Code postal", "Ville", "Statut", "Matières",
			"Primaire", "Collège", "Lycée",
		},
	}
	for _, v := range volunteers {
		sheet.Rows = append(sheet.Rows, []string{
			v.LastName, v.FirstName, v.Email, v.Phone, v.Profession,
			v.FullAddress(), v.PostalCode, v.City, string(v.Status), subjectNames(v.Subjects),
			boolCell(v.PrimaryLevel), boolCell(v.MiddleLevel), boolCell(v.HighLevel),
		})
	}
	return NewWorkbook([]SheetSpec{sheet})
}

func subjectNames(subjects []*models.Subject) string {
	names := make([]string, 0, len(subjects))
	for _, s := range subjects {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func boolCell(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func colName(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

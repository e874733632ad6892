//go:build testutil
// +build testutil

package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/esa-marseille/esa-manager/internal/importer"
	"github.com/esa-marseille/esa-manager/internal/testutil/testdb"
)

const studentCSV = "Nom famille enfant,Prénom enfant,Classe,Matières souhaitées\n" +
	"Dupont,Léa,CM2,\"Français, Anglais\"\n"

func countRows(ctx context.Context, t *testing.T, h *testdb.DBHandle, table string) int64 {
	t.Helper()
	var n int64
	if err := h.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func TestImportStudentsDryRunPersistsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	for i, name := range []string{"Français", "Anglais"} {
		if _, err := h.Pool.Exec(ctx,
			"INSERT INTO subjects (name, sort_order) VALUES ($1, $2)", name, i+1); err != nil {
			t.Fatalf("seeding subject %s: %v", name, err)
		}
	}

	im := importer.New(h.Pool)
	opts := importer.Options{Mode: importer.CreateOnly, DryRun: true, CityPrefix: "13"}

	report, err := im.ImportStudents(ctx, strings.NewReader(studentCSV), opts)
	if err != nil {
		t.Fatalf("ImportStudents: %v", err)
	}
	if report.Created != 1 {
		t.Errorf("Created = %d, want 1", report.Created)
	}
	if !report.DryRun {
		t.Error("report not flagged as dry run")
	}

	// The dry run rolls the whole transaction back. Neither the student
	// rows nor the subject link rows may survive.
	if n := countRows(ctx, t, h, "students"); n != 0 {
		t.Errorf("students persisted after dry run: %d rows", n)
	}
	if n := countRows(ctx, t, h, "student_subjects"); n != 0 {
		t.Errorf("student subject links persisted after dry run: %d rows", n)
	}

	// The same file without the dry-run flag commits.
	opts.DryRun = false
	report, err = im.ImportStudents(ctx, strings.NewReader(studentCSV), opts)
	if err != nil {
		t.Fatalf("ImportStudents: %v", err)
	}
	if report.Created != 1 {
		t.Errorf("Created = %d, want 1", report.Created)
	}
	if n := countRows(ctx, t, h, "students"); n != 1 {
		t.Errorf("students after real run = %d, want 1", n)
	}
	if n := countRows(ctx, t, h, "student_subjects"); n != 2 {
		t.Errorf("student subject links after real run = %d, want 2", n)
	}
}

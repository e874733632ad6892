package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "subjects_name_key"}

	if !IsUniqueViolation(unique) {
		t.Error("unique violation not detected")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", unique)) {
		t.Error("wrapped unique violation not detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation misread as unique violation")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("plain error misread as unique violation")
	}
}

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "pairings_one_active_per_student",
	})

	if !IsDuplicateConstraintError(err, "pairings_one_active_per_student") {
		t.Error("constraint violation not detected")
	}
	if IsDuplicateConstraintError(err, "subjects_name_key") {
		t.Error("violation attributed to the wrong constraint")
	}
}

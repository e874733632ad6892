// Package importer implements the CSV bulk-import pipeline: field
// normalization, exact-then-fuzzy record matching, subject resolution and
// the per-row orchestration with dry-run support.
package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// affirmativeTokens are the values recognized as "true" in CSV cells.
// Anything else, including an empty cell, is false.
var affirmativeTokens = map[string]struct{}{
	"oui": {}, "yes": {}, "true": {}, "1": {}, "o": {}, "y": {},
}

// ParseBool reports whether the trimmed, case-folded value is an
// affirmative token. Unrecognized tokens are false, never an error.
func ParseBool(raw string) bool {
	_, ok := affirmativeTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// ParseDecimal parses a coordinate cell into a NUMERIC value. Empty or
// malformed input yields an invalid (NULL) Numeric, never an error: the
// caller must treat it as "coordinate unknown".
func ParseDecimal(raw string) pgtype.Numeric {
	var n pgtype.Numeric
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return n
	}
	// Accept a decimal comma, common in French exports.
	trimmed = strings.ReplaceAll(trimmed, ",", ".")
	if err := n.Scan(trimmed); err != nil {
		return pgtype.Numeric{}
	}
	return n
}

// CleanText trims leading and trailing whitespace. Empty input stays empty.
func CleanText(raw string) string {
	return strings.TrimSpace(raw)
}

// CleanName strips the annotation noise seen in source files: asterisk
// markers and doubled spaces.
func CleanName(raw string) string {
	cleaned := strings.ReplaceAll(raw, "*", "")
	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	return strings.TrimSpace(cleaned)
}

// NormalizeDistrict maps a 5-digit postal code carrying the configured city
// prefix to its district label: "13001" => "1er", "13008" => "8e". Codes
// not matching the prefix pass through unchanged.
func NormalizeDistrict(postalCode, cityPrefix string) string {
	code := CleanText(postalCode)
	if len(code) != 5 || !strings.HasPrefix(code, cityPrefix) {
		return code
	}
	suffix := code[3:]
	if suffix[0] < '0' || suffix[0] > '9' || suffix[1] < '0' || suffix[1] > '9' {
		return code
	}
	n := int(suffix[0]-'0')*10 + int(suffix[1]-'0')
	if n == 0 {
		return code
	}
	if n == 1 {
		return "1er"
	}
	return strconv.Itoa(n) + "e"
}

// dateLayouts are tried in order when parsing date cells.
var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

// ParseDate parses a date cell in French day-first or ISO format. Empty or
// malformed input yields nil.
func ParseDate(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return &t
		}
	}
	return nil
}

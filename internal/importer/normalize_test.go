package importer

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"oui", true},
		{"OUI", true},
		{"Oui ", true},
		{"yes", true},
		{"true", true},
		{"1", true},
		{"o", true},
		{"y", true},
		{"non", false},
		{"no", false},
		{"0", false},
		{"", false},
		{"peut-être", false},
	}
	for _, tt := range tests {
		if got := ParseBool(tt.raw); got != tt.want {
			t.Errorf("ParseBool(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func numericEqual(n pgtype.Numeric, intPart string, exp int32) bool {
	want, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return false
	}
	return n.Valid && n.Int.Cmp(want) == 0 && n.Exp == exp
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		// valid=false means the cell must map to NULL
		valid bool
		int   string
		exp   int32
	}{
		{name: "plain decimal", raw: "43.296482", valid: true, int: "43296482", exp: -6},
		{name: "decimal comma", raw: "5,36978", valid: true, int: "536978", exp: -5},
		{name: "integer", raw: "43", valid: true, int: "43", exp: 0},
		{name: "negative", raw: "-5.37", valid: true, int: "-537", exp: -2},
		{name: "empty", raw: "", valid: false},
		{name: "spaces only", raw: "   ", valid: false},
		{name: "garbage", raw: "abc", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDecimal(tt.raw)
			if got.Valid != tt.valid {
				t.Fatalf("ParseDecimal(%q).Valid = %v, want %v", tt.raw, got.Valid, tt.valid)
			}
			if tt.valid && !numericEqual(got, tt.int, tt.exp) {
				t.Errorf("ParseDecimal(%q) = %v x 10^%d, want %s x 10^%d", tt.raw, got.Int, got.Exp, tt.int, tt.exp)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Dupont", "Dupont"},
		{"Dupont*", "Dupont"},
		{"*Dupont**", "Dupont"},
		{"Jean  Pierre", "Jean Pierre"},
		{"  Jean   Pierre  ", "Jean Pierre"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanName(tt.raw); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeDistrict(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"13001", "1er"},
		{"13002", "2e"},
		{"13008", "8e"},
		{"13010", "10e"},
		{"13016", "16e"},
		{"13000", "13000"},
		{"75001", "75001"},
		{"1300", "1300"},
		{"130015", "130015"},
		{"13ab1", "13ab1"},
		{" 13004 ", "4e"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDistrict(tt.code, "13"); got != tt.want {
			t.Errorf("NormalizeDistrict(%q, \"13\") = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want *time.Time
	}{
		{"15/09/2025", timePtr(2025, time.September, 15)},
		{"2025-09-15", timePtr(2025, time.September, 15)},
		{"15-09-2025", timePtr(2025, time.September, 15)},
		{"", nil},
		{"n/a", nil},
		{"32/01/2025", nil},
	}
	for _, tt := range tests {
		got := ParseDate(tt.raw)
		switch {
		case got == nil && tt.want == nil:
		case got == nil || tt.want == nil:
			t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		case !got.Equal(*tt.want):
			t.Errorf("ParseDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func timePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		raw        string
		wantNumber string
		wantStreet string
	}{
		{"12 rue de la République", "12", "rue de la République"},
		{"3 bis avenue Foch", "3 bis", "avenue Foch"},
		{"7 ter chemin des Olives", "7 ter", "chemin des Olives"},
		{"rue Paradis", "", "rue Paradis"},
		{"12, boulevard Longchamp", "12", "boulevard Longchamp"},
		{"", "", ""},
	}
	for _, tt := range tests {
		number, street := splitAddress(tt.raw)
		if number != tt.wantNumber || street != tt.wantStreet {
			t.Errorf("splitAddress(%q) = (%q, %q), want (%q, %q)",
				tt.raw, number, street, tt.wantNumber, tt.wantStreet)
		}
	}
}

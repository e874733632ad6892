package repositories

import "testing"

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dupont", "dupont"},
		{"100%", `100\%`},
		{"le_roy", `le\_roy`},
		{`d\uo`, `d\\uo`},
		{"%_", `\%\_`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

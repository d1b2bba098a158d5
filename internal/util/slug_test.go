package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"My Great Day", "my-great-day"},
		{"slow_burn", "slow-burn"},
		{"SLOW-BURN", "slow-burn"},
		{"Café Society", "cafe-society"},
		{"🐉 Dragons!", "dragons"},
		{"  multi   word ", "multi-word"},
		{"--leading--", "leading"},
		{"a/b/c", "a-b-c"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

package timeparse

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"2h", 7200},
		{"30m", 1800},
		{"2h 30m", 9000},
		{"1h30m", 5400},
		{"1.5h", 5400},
		{"1,5h", 5400},
		{"2ч 30м", 9000},
		{"1d", 28800},
		{"1w 1d", 172800},
		{"0h", 0},
		{"", 0},
		{"  2h  30m  ", 9000},
		{"1H 15M", 4500},
		{"soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1h 30m", true},
		{"45m", true},
		{"2d", true},
		{"1.5h", true},
		{"0m", false},
		{"", false},
		{"two hours", false},
		{"2 hours", false},
		{"2h and 5m", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Valid(tt.input); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{9000, "2h 30m"},
		{7200, "2h"},
		{2700, "45m"},
		{0, "0m"},
	}

	for _, tt := range tests {
		if got := Format(tt.seconds); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

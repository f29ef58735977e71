package cmd

import "testing"

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{30, "30s"},
		{60, "1m 0s"},
		{90, "1m 30s"},
		{3661, "1h 1m 1s"},
		{26 * 3600, "26h 0m 0s"},
	}
	for _, tt := range tests {
		got := formatElapsed(tt.seconds)
		if got != tt.want {
			t.Errorf("formatElapsed(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent int
		want    string
	}{
		{0, "[..........]"},
		{50, "[#####.....]"},
		{67, "[######....]"},
		{100, "[##########]"},
		{150, "[##########]"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.percent, 10); got != tt.want {
			t.Errorf("progressBar(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]string{
		"todo":        "TODO",
		"in-progress": "IN_PROGRESS",
		"In Progress": "IN_PROGRESS",
		" done ":      "DONE",
	}
	for in, want := range tests {
		if got := string(parseStatus(in)); got != want {
			t.Errorf("parseStatus(%q) = %q, want %q", in, got, want)
		}
	}
}
